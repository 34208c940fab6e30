// Package catalog defines the product catalog and its persistence contract.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Product represents an item offered by a vendor.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	VendorID    string  `json:"vendorId"`
}

// Query selects a page of products. An empty VendorID matches every vendor,
// an empty Category matches every category. Sort names a field ("name",
// "price" or "stock"); empty means storage order.
type Query struct {
	VendorID string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// Listing is a page of products together with the unpaginated match count.
type Listing struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

// Repository defines behavior for persisting products.
//
// DecrementStock is the single write every concurrent order placement
// contends on: it must subtract qty only while the stored stock covers it,
// atomically, and report ErrInsufficientStock otherwise.
type Repository interface {
	Create(ctx context.Context, p Product) error
	Get(ctx context.Context, id string) (Product, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) (Listing, error)
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInsufficientStock is the bare sentinel matched by errors.Is; callers
// needing the offending product use InsufficientStockError via errors.As.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports which product could not cover a decrement.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// Is makes errors.Is(err, ErrInsufficientStock) succeed.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
