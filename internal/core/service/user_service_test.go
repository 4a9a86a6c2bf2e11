package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

type stubUploader struct {
	uploadFn func(ctx context.Context, file io.Reader, publicID string) (string, error)
}

func (u *stubUploader) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	return u.uploadFn(ctx, file, publicID)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	users := newStubUserRepository()
	cache := newStubUserCache()
	user, err := users.Create(context.Background(), &domain.User{
		Username: "alice", Email: "alice@example.com", Role: domain.RoleUser, IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	uploader := &stubUploader{
		uploadFn: func(ctx context.Context, file io.Reader, publicID string) (string, error) {
			if publicID != "avatars/alice" {
				t.Fatalf("unexpected public id: %q", publicID)
			}
			return "https://cdn.example.com/avatars/alice.png", nil
		},
	}

	svc := NewUserService(users, uploader, cache, zerolog.Nop())

	updated, err := svc.UpdateAvatar(context.Background(), user, strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("UpdateAvatar returned error: %v", err)
	}
	if updated.Avatar != "https://cdn.example.com/avatars/alice.png" {
		t.Fatalf("avatar not updated: %q", updated.Avatar)
	}
	if users.byEmail["alice@example.com"].Avatar != updated.Avatar {
		t.Fatalf("avatar not persisted")
	}
	if cached := cache.entries["alice@example.com"]; cached == nil || cached.Avatar != updated.Avatar {
		t.Fatalf("session cache not refreshed with the new avatar")
	}
}

func TestUserService_UpdateAvatar_UploadFails(t *testing.T) {
	users := newStubUserRepository()
	cache := newStubUserCache()
	user, err := users.Create(context.Background(), &domain.User{
		Username: "bob", Email: "bob@example.com", Role: domain.RoleUser, IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	uploadErr := errors.New("image host unavailable")
	uploader := &stubUploader{
		uploadFn: func(ctx context.Context, file io.Reader, publicID string) (string, error) {
			return "", uploadErr
		},
	}

	svc := NewUserService(users, uploader, cache, zerolog.Nop())

	if _, err := svc.UpdateAvatar(context.Background(), user, strings.NewReader("png-bytes")); !errors.Is(err, uploadErr) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if users.byEmail["bob@example.com"].Avatar != "" {
		t.Fatalf("avatar persisted despite failed upload")
	}
}
