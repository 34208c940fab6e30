// Package memory implements an in-memory vendor repository.
package memory

import (
	"context"
	"sync"

	"shopflow/pkg/vendorpkg"
)

// Repository provides an in-memory implementation of vendor.Repository.
type Repository struct {
	mu      sync.RWMutex
	vendors map[string]vendor.Vendor
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{vendors: make(map[string]vendor.Vendor)}
}

// Create stores the vendor, rejecting duplicate emails.
func (r *Repository) Create(ctx context.Context, v vendor.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vendors {
		if existing.Email == v.Email {
			return vendor.ErrEmailTaken
		}
	}
	r.vendors[v.ID] = v
	return nil
}

// Get retrieves a vendor by ID.
func (r *Repository) Get(ctx context.Context, id string) (vendor.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vendors[id]
	if !ok {
		return vendor.Vendor{}, vendor.ErrNotFound
	}
	return v, nil
}

// GetByEmail retrieves a vendor by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (vendor.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vendors {
		if v.Email == email {
			return v, nil
		}
	}
	return vendor.Vendor{}, vendor.ErrNotFound
}
