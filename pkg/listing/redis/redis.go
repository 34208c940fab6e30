// Package redis implements the listing cache over Redis.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"shopflow/pkg/listing"
)

// Cache provides a Redis-backed implementation of listing.Cache.
type Cache struct {
	client *redis.Client
}

// New creates a cache over an existing client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Lookup returns the cached value if present and unexpired.
func (c *Cache) Lookup(ctx context.Context, key listing.Key) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, key.String()).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Store inserts or overwrites the value with the given TTL.
func (c *Cache) Store(ctx context.Context, key listing.Key, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key.String(), value, ttl).Err()
}

// InvalidateScope deletes every key under the scope via a prefix scan.
func (c *Cache) InvalidateScope(ctx context.Context, scope string) error {
	iter := c.client.Scan(ctx, 0, listing.ScopePrefix(scope)+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
