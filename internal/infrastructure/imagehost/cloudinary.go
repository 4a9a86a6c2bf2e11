// Package imagehost uploads avatar images to Cloudinary and returns their
// public URLs.
package imagehost

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// avatarTransformation crops uploads to a square thumbnail.
const avatarTransformation = "c_fill,w_250,h_250"

// Config captures Cloudinary credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Uploader stores avatar images with Cloudinary.
type Uploader struct {
	client *cloudinary.Cloudinary
}

func NewUploader(cfg Config) (*Uploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &Uploader{client: client}, nil
}

// Upload stores the image under publicID, overwriting any previous upload
// for the same ID, and returns the transformed public URL.
func (u *Uploader) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	resp, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Overwrite:      api.Bool(true),
		Transformation: avatarTransformation,
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return resp.SecureURL, nil
}
