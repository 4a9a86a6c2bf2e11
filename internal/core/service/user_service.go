package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

// UserService implements profile operations.
type UserService struct {
	users    ports.UserRepository
	uploader ports.AvatarUploader
	cache    ports.UserCache
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, uploader ports.AvatarUploader, cache ports.UserCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, uploader: uploader, cache: cache, log: log}
}

// UpdateAvatar uploads the image, persists the returned URL, and refreshes
// the session cache so authenticated requests see the new avatar immediately.
func (s *UserService) UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader) (*domain.User, error) {
	url, err := s.uploader.Upload(ctx, file, "avatars/"+user.Username)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, updated); err != nil {
		s.log.Warn().Err(err).Str("email", updated.Email).Msg("failed to refresh session cache after avatar update")
	}
	return updated, nil
}
