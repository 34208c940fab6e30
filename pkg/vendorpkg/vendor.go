// Package vendor defines vendor accounts.
package vendor

import (
	"context"
	"errors"
	"time"
)

// Vendor represents a registered product vendor.
type Vendor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository defines behavior for persisting vendors.
type Repository interface {
	Create(ctx context.Context, v Vendor) error
	Get(ctx context.Context, id string) (Vendor, error)
	GetByEmail(ctx context.Context, email string) (Vendor, error)
}

// ErrNotFound indicates the requested vendor does not exist.
var ErrNotFound = errors.New("vendor not found")

// ErrEmailTaken indicates a registration with an already-used email.
var ErrEmailTaken = errors.New("email already registered")
