// Package user defines customer accounts and purchase history.
package user

import (
	"context"
	"errors"
)

// User represents a registered customer. PasswordHash is a bcrypt hash and
// never leaves the service.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Repository defines behavior for persisting users and their purchase
// history.
type Repository interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	AppendPurchases(ctx context.Context, userID string, productIDs []string) error
	PurchaseHistory(ctx context.Context, userID string) ([]string, error)
}

// ErrNotFound indicates the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken indicates a registration with an already-used email.
var ErrEmailTaken = errors.New("email already registered")
