package memory

import (
	"context"
	"testing"
	"time"

	"shopflow/pkg/listing"
)

func TestLookupStoreExpiry(t *testing.T) {
	ctx := context.Background()
	c := New()
	now := time.Now()
	c.now = func() time.Time { return now }

	key := listing.Key{Scope: "v1", Page: 1, Limit: 10}
	if _, ok, _ := c.Lookup(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Store(ctx, key, []byte("body"), time.Hour); err != nil {
		t.Fatalf("store: %v", err)
	}
	v, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok || string(v) != "body" {
		t.Fatalf("expected hit with body, got ok=%v v=%q err=%v", ok, v, err)
	}

	now = now.Add(time.Hour + time.Second)
	if _, ok, _ := c.Lookup(ctx, key); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestInvalidateScope(t *testing.T) {
	ctx := context.Background()
	c := New()

	k1 := listing.Key{Scope: "v1", Page: 1, Limit: 10}
	k2 := listing.Key{Scope: "v1", Page: 2, Limit: 10, Category: "tools"}
	k3 := listing.Key{Scope: "v2", Page: 1, Limit: 10}
	c.Store(ctx, k1, []byte("1"), time.Hour)
	c.Store(ctx, k2, []byte("2"), time.Hour)
	c.Store(ctx, k3, []byte("3"), time.Hour)

	if err := c.InvalidateScope(ctx, "v1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := c.Lookup(ctx, k1); ok {
		t.Fatal("expected k1 invalidated")
	}
	if _, ok, _ := c.Lookup(ctx, k2); ok {
		t.Fatal("expected k2 invalidated")
	}
	if _, ok, _ := c.Lookup(ctx, k3); !ok {
		t.Fatal("expected other scope untouched")
	}
}
