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
	contactPageTTL   = 10 * time.Minute
	contactNamespace = "contacts"
	contactListOp    = "list"
)

// ContactPageCache caches paginated contact listings. Keys follow
// namespace:operation:user_id:skip:limit, so every (user, page, limit)
// combination is cached independently and the whole per-user namespace can
// be invalidated with one prefix scan.
//
// Invalidation uses SCAN + DEL, which is not atomic with respect to
// concurrent reads: a read that repopulates between the mutation and the
// scan can briefly serve a page computed before the mutation.
type ContactPageCache struct {
	client *redis.Client
}

func NewContactPageCache(client *redis.Client) *ContactPageCache {
	return &ContactPageCache{client: client}
}

// Get returns (nil, false, nil) on a cache miss.
func (c *ContactPageCache) Get(ctx context.Context, userID string, skip, limit int64) ([]*domain.Contact, bool, error) {
	data, err := c.client.Get(ctx, contactPageKey(userID, skip, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("contact cache get: %w", err)
	}

	var contacts []*domain.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		_ = c.client.Del(ctx, contactPageKey(userID, skip, limit)).Err()
		return nil, false, nil
	}
	return contacts, true, nil
}

func (c *ContactPageCache) Put(ctx context.Context, userID string, skip, limit int64, contacts []*domain.Contact) error {
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("contact cache marshal: %w", err)
	}
	return c.client.Set(ctx, contactPageKey(userID, skip, limit), data, contactPageTTL).Err()
}

// Invalidate deletes every cached page for the user regardless of
// pagination parameters.
func (c *ContactPageCache) Invalidate(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("%s:%s:%s:*", contactNamespace, contactListOp, userID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("contact cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("contact cache delete: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func contactPageKey(userID string, skip, limit int64) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d", contactNamespace, contactListOp, userID, skip, limit)
}
