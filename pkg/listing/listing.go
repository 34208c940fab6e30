// Package listing defines the read-through cache that fronts product
// listing queries.
package listing

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL bounds how long a cached listing may be served.
const DefaultTTL = time.Hour

// PublicScope is the cache scope of the unauthenticated storefront view.
const PublicScope = "public"

// Key identifies one listing query shape. Scope is a vendor id or
// PublicScope.
type Key struct {
	Scope    string
	Page     int
	Limit    int
	Category string
	Sort     string
}

// String renders the canonical cache key.
func (k Key) String() string {
	category := k.Category
	if category == "" {
		category = "all"
	}
	sort := k.Sort
	if sort == "" {
		sort = "none"
	}
	return fmt.Sprintf("products:vendor=%s:page=%d:limit=%d:category=%s:sort=%s",
		k.Scope, k.Page, k.Limit, category, sort)
}

// ScopePrefix covers every key under a scope, whatever its filters.
func ScopePrefix(scope string) string {
	return fmt.Sprintf("products:vendor=%s:", scope)
}

// Cache is a TTL-bounded cache of serialized listing responses.
//
// Invalidation is coarse on purpose: listing queries are parameterized by
// filters the write path does not know about, so a product write drops every
// key under the affected scope instead of matching keys precisely.
type Cache interface {
	Lookup(ctx context.Context, key Key) ([]byte, bool, error)
	Store(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	InvalidateScope(ctx context.Context, scope string) error
}
