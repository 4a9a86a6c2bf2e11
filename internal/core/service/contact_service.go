package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/api/metrics"
	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
	birthdayDays     = 6 // today plus six days = one week window
)

// ContactService implements address-book use cases with a cached listing
// path. Listings are served read-through from the page cache; every mutation
// invalidates the owner's whole cache namespace before returning.
type ContactService struct {
	repo  ports.ContactRepository
	cache ports.ContactPageCache
	log   zerolog.Logger
	now   func() time.Time
}

func NewContactService(repo ports.ContactRepository, cache ports.ContactPageCache, log zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, cache: cache, log: log, now: time.Now}
}

func (s *ContactService) Create(ctx context.Context, userID string, input ports.ContactInput) (*domain.Contact, error) {
	created, err := s.repo.Create(ctx, contactFromInput(userID, input))
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ContactService) Get(ctx context.Context, userID, contactID string) (*domain.Contact, error) {
	return s.repo.FindByID(ctx, contactID, userID)
}

// List returns one page of the user's contacts. Each distinct (user, skip,
// limit) combination is cached independently.
func (s *ContactService) List(ctx context.Context, userID string, skip, limit int64) ([]*domain.Contact, error) {
	skip, limit = normalizePage(skip, limit)

	cached, ok, err := s.cache.Get(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	if ok {
		metrics.ContactCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.ContactCacheTotal.WithLabelValues("miss").Inc()

	contacts, err := s.repo.List(ctx, ports.ListContactsFilter{UserID: userID, Skip: skip, Limit: limit})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, userID, skip, limit, contacts); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache contact page")
	}
	return contacts, nil
}

func (s *ContactService) Update(ctx context.Context, userID, contactID string, input ports.ContactInput) (*domain.Contact, error) {
	updated, err := s.repo.Update(ctx, contactID, userID, contactFromInput(userID, input))
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, contactID string) (*domain.Contact, error) {
	deleted, err := s.repo.Delete(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *ContactService) Search(ctx context.Context, userID, query string, skip, limit int64) ([]*domain.Contact, error) {
	skip, limit = normalizePage(skip, limit)
	return s.repo.Search(ctx, ports.SearchContactsFilter{
		UserID: userID,
		Query:  query,
		Skip:   skip,
		Limit:  limit,
	})
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// week, compared by calendar month and day so the birth year is ignored.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID string) ([]*domain.Contact, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.UpcomingBirthdays(ctx, userID, ports.BirthdayWindow{
		From: today,
		To:   today.AddDate(0, 0, birthdayDays),
	})
}

// invalidate clears every cached page for the user. It runs after the
// mutation committed, so the next read is guaranteed to miss stale pages.
func (s *ContactService) invalidate(ctx context.Context, userID string) error {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return err
	}
	metrics.ContactCacheInvalidationsTotal.Inc()
	return nil
}

func contactFromInput(userID string, input ports.ContactInput) *domain.Contact {
	return &domain.Contact{
		UserID:      userID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Birthday:    input.Birthday.UTC().Truncate(24 * time.Hour),
		Note:        input.Note,
	}
}

func normalizePage(skip, limit int64) (int64, int64) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}
