package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

const (
	sessionTTL       = 15 * time.Minute
	sessionKeyPrefix = "user:"
)

// userSnapshot is the stable cache projection of a user. It is deliberately
// decoupled from domain.User's JSON representation (which hides the password
// hash) so the cached copy round-trips completely.
type userSnapshot struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionCache caches authenticated user snapshots under "user:{email}" with
// a short TTL, avoiding a persistence round trip on every authenticated
// request. It is a side channel: persistence stays authoritative on a miss.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Get returns (nil, nil) on a cache miss.
func (c *SessionCache) Get(ctx context.Context, email string) (*domain.User, error) {
	data, err := c.client.Get(ctx, sessionKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}

	var snap userSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		_ = c.client.Del(ctx, sessionKey(email)).Err()
		return nil, nil
	}

	return &domain.User{
		ID:           snap.ID,
		Username:     snap.Username,
		Email:        snap.Email,
		PasswordHash: snap.PasswordHash,
		Role:         snap.Role,
		IsActive:     snap.IsActive,
		Avatar:       snap.Avatar,
		CreatedAt:    snap.CreatedAt,
	}, nil
}

func (c *SessionCache) Put(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(userSnapshot{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		IsActive:     user.IsActive,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("session cache marshal: %w", err)
	}
	return c.client.Set(ctx, sessionKey(user.Email), data, sessionTTL).Err()
}

func (c *SessionCache) Delete(ctx context.Context, email string) error {
	return c.client.Del(ctx, sessionKey(email)).Err()
}

func sessionKey(email string) string {
	return sessionKeyPrefix + email
}
