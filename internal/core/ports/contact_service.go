package ports

import (
	"context"
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// ContactInput carries the fields for creating or replacing a contact.
type ContactInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Birthday    time.Time
	Note        string
}

// ContactService defines use-case operations over a user's address book.
type ContactService interface {
	Create(ctx context.Context, userID string, input ContactInput) (*domain.Contact, error)
	Get(ctx context.Context, userID, contactID string) (*domain.Contact, error)
	List(ctx context.Context, userID string, skip, limit int64) ([]*domain.Contact, error)
	Update(ctx context.Context, userID, contactID string, input ContactInput) (*domain.Contact, error)
	Delete(ctx context.Context, userID, contactID string) (*domain.Contact, error)
	Search(ctx context.Context, userID, query string, skip, limit int64) ([]*domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID string) ([]*domain.Contact, error)
}
