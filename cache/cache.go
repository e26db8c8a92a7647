// Package cache provides a typed redis-backed cache. A nil client
// degrades to a no-op so redis stays optional in development.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

const defaultExpiry = 15 * time.Minute

// Cache is a JSON-serializing cache over a shared redis client, with
// all keys placed under a fixed prefix.
type Cache[T any] struct {
	rc     *redis.Client
	prefix string
}

// NewCache creates a Cache. rc may be nil; all operations then no-op.
func NewCache[T any](rc *redis.Client, prefix string) *Cache[T] {
	return &Cache[T]{rc: rc, prefix: prefix}
}

func (c *Cache[T]) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// Get retrieves a single item from the cache.
func (c *Cache[T]) Get(ctx context.Context, k string) (*T, error) {
	if c.rc == nil {
		return nil, ErrCacheMiss
	}

	result, err := c.rc.Get(ctx, c.key(k)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var row T
	if err := json.Unmarshal([]byte(result), &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &row, nil
}

// Set saves a single item into the cache.
func (c *Cache[T]) Set(ctx context.Context, k string, data *T, expire ...time.Duration) error {
	if c.rc == nil {
		return nil
	}

	ttl := defaultExpiry
	if len(expire) > 0 {
		ttl = expire[0]
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.rc.Set(ctx, c.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes a single item from the cache.
func (c *Cache[T]) Delete(ctx context.Context, k string) error {
	if c.rc == nil {
		return nil
	}
	if err := c.rc.Del(ctx, c.key(k)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
