package ports

import (
	"context"
	"io"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// UserService defines profile operations for an authenticated user.
type UserService interface {
	// UpdateAvatar uploads the image to the external host, persists the new
	// URL, and synchronously refreshes the session cache snapshot.
	UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader) (*domain.User, error)
}
