package ports

import (
	"context"
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// UserCache is the read-through session cache keyed by email. It is a
// side-channel only: persistence remains the source of truth on a miss.
type UserCache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, email string) error
}

// ContactPageCache caches paginated contact listings per user with bulk
// invalidation over the user's namespace.
type ContactPageCache interface {
	// Get returns (nil, false, nil) on a cache miss.
	Get(ctx context.Context, userID string, skip, limit int64) ([]*domain.Contact, bool, error)
	Put(ctx context.Context, userID string, skip, limit int64, contacts []*domain.Contact) error
	// Invalidate removes every cached page for the user, regardless of
	// pagination parameters.
	Invalidate(ctx context.Context, userID string) error
}

// ResetTokenStore is the one-time-use registry for password reset tokens.
// An entry maps the token string to the subject email.
type ResetTokenStore interface {
	Register(ctx context.Context, token, email string, ttl time.Duration) error
	// Lookup returns "" when the token is absent (never issued or consumed).
	Lookup(ctx context.Context, token string) (string, error)
	Consume(ctx context.Context, token string) error
}
