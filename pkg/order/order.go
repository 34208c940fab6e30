// Package order defines completed purchase orders and their persistence.
package order

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

// Order statuses. Pending is initial; transitions only move forward:
// Pending→Shipped→Delivered, with Cancelled reachable from Pending or
// Shipped.
const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the status may move from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered || next == StatusCancelled
	default:
		return false
	}
}

// Line is one purchased product with the unit price frozen at purchase time.
type Line struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order represents a customer purchase order. Lines and Total are immutable
// after creation; only Status changes.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VendorID  string    `json:"vendorId"`
	Lines     []Line    `json:"lines"`
	Total     float64   `json:"total"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Address   string    `json:"address"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrInvalidTransition indicates a status change that the state machine
// does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")
