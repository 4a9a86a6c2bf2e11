package ports

import (
	"context"
	"io"
)

// AvatarUploader stores an image with an external host and returns its
// public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (string, error)
}
