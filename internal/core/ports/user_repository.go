package ports

import (
	"context"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Activate flips is_active to true for the given email.
	Activate(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// UpdateAvatar stores the new avatar URL and returns the updated user.
	UpdateAvatar(ctx context.Context, email, avatarURL string) (*domain.User, error)
}
