// Package memory implements an in-memory listing cache.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"shopflow/pkg/listing"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Cache provides an in-memory implementation of listing.Cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates a new in-memory cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

// Lookup returns the cached value if present and unexpired.
func (c *Cache) Lookup(ctx context.Context, key listing.Key) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key.String()]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Store inserts or overwrites the value with the given TTL.
func (c *Cache) Store(ctx context.Context, key listing.Key, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = entry{value: value, expires: c.now().Add(ttl)}
	return nil
}

// InvalidateScope drops every key under the scope.
func (c *Cache) InvalidateScope(ctx context.Context, scope string) error {
	prefix := listing.ScopePrefix(scope)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
