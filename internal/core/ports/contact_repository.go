package ports

import (
	"context"
	"time"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// ListContactsFilter carries pagination for listing a user's contacts.
// UserID is always enforced by the service layer.
type ListContactsFilter struct {
	UserID string
	Skip   int64
	Limit  int64 // capped at 100 by the service
}

// SearchContactsFilter carries a case-insensitive substring query matched
// against first name, last name, and email.
type SearchContactsFilter struct {
	UserID string
	Query  string
	Skip   int64
	Limit  int64
}

// BirthdayWindow is an inclusive calendar-date range compared by month/day
// only. From and To may fall in different months or years (year rollover).
type BirthdayWindow struct {
	From time.Time
	To   time.Time
}

// ContactRepository defines persistence operations for contacts. All lookups
// are scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	FindByID(ctx context.Context, contactID, userID string) (*domain.Contact, error)
	List(ctx context.Context, filter ListContactsFilter) ([]*domain.Contact, error)
	// Update replaces the mutable fields of the contact and returns the
	// updated record, or domain.ErrContactNotFound.
	Update(ctx context.Context, contactID, userID string, contact *domain.Contact) (*domain.Contact, error)
	// Delete removes the contact and returns the deleted record.
	Delete(ctx context.Context, contactID, userID string) (*domain.Contact, error)
	Search(ctx context.Context, filter SearchContactsFilter) ([]*domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID string, window BirthdayWindow) ([]*domain.Contact, error)
}
