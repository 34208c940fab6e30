// Package memory implements an in-memory user repository.
package memory

import (
	"context"
	"sync"

	"shopflow/pkg/user"
)

// Repository provides an in-memory implementation of user.Repository.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]user.User
	history map[string][]string
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{users: make(map[string]user.User), history: make(map[string][]string)}
}

// Create stores the user, rejecting duplicate emails.
func (r *Repository) Create(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	return nil
}

// Get retrieves a user by ID.
func (r *Repository) Get(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// AppendPurchases records purchased products for the user.
func (r *Repository) AppendPurchases(ctx context.Context, userID string, productIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return user.ErrNotFound
	}
	r.history[userID] = append(r.history[userID], productIDs...)
	return nil
}

// PurchaseHistory returns the product ids the user has purchased, oldest
// first.
func (r *Repository) PurchaseHistory(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.users[userID]; !ok {
		return nil, user.ErrNotFound
	}
	return append([]string(nil), r.history[userID]...), nil
}
