package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "reset_password:"

// ResetTokenStore is the one-time-use registry for password reset tokens.
// Key format: reset_password:<token> -> subject email. Deleting the entry on
// first successful use is what makes the token single-use and revocable
// independently of its signature expiry.
type ResetTokenStore struct {
	client *redis.Client
}

func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func (s *ResetTokenStore) Register(ctx context.Context, token, email string, ttl time.Duration) error {
	return s.client.Set(ctx, resetKey(token), email, ttl).Err()
}

// Lookup returns "" when the token is absent (consumed or never issued).
func (s *ResetTokenStore) Lookup(ctx context.Context, token string) (string, error) {
	email, err := s.client.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reset token lookup: %w", err)
	}
	return email, nil
}

func (s *ResetTokenStore) Consume(ctx context.Context, token string) error {
	return s.client.Del(ctx, resetKey(token)).Err()
}

func resetKey(token string) string {
	return resetKeyPrefix + token
}
