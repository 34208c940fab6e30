// Package memory implements an in-memory cart repository.
package memory

import (
	"context"
	"sync"

	"shopflow/pkg/cart"
)

// Repository provides an in-memory implementation of cart.Repository.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{carts: make(map[string]cart.Cart)}
}

// Get retrieves the cart for a user.
func (r *Repository) Get(ctx context.Context, userID string) (cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[userID]
	if !ok {
		return cart.Cart{}, cart.ErrNotFound
	}
	cp := c
	cp.Lines = append([]cart.Line(nil), c.Lines...)
	return cp, nil
}

// Put stores the cart, replacing any previous version.
func (r *Repository) Put(ctx context.Context, c cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = c
	return nil
}

// Delete removes the cart for a user.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return cart.ErrNotFound
	}
	delete(r.carts, userID)
	return nil
}
