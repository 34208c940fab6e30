// Package inventory implements the all-or-nothing stock reservation that
// backs order placement.
package inventory

import (
	"context"
	"errors"

	"shopflow/pkg/catalog"
	"shopflow/pkg/logger"
)

// maxAttempts bounds retries of a conditional decrement that lost a race.
const maxAttempts = 3

// Reservation asks for qty units of one product.
type Reservation struct {
	ProductID string
	Quantity  int
}

// Reserver validates and applies stock decrements for a whole set of
// reservations. Either every decrement commits or none do: a failure part
// way through compensates the decrements already applied.
type Reserver struct {
	products catalog.Repository
	log      *logger.Logger
}

// NewReserver creates a Reserver over the given catalog.
func NewReserver(products catalog.Repository, log *logger.Logger) *Reserver {
	return &Reserver{products: products, log: log}
}

// Reserve decrements stock for every reservation or reports why it cannot.
//
// The snapshot check rejects obviously short sets before any write, but the
// decrement itself is conditional on current stock, which closes the window
// between the check and the write against concurrent reservations.
func (r *Reserver) Reserve(ctx context.Context, set []Reservation) error {
	for _, res := range set {
		p, err := r.products.Get(ctx, res.ProductID)
		if err != nil {
			return err
		}
		if p.Stock < res.Quantity {
			return &catalog.InsufficientStockError{ProductID: res.ProductID}
		}
	}

	applied := make([]Reservation, 0, len(set))
	for _, res := range set {
		if err := r.decrement(ctx, res); err != nil {
			r.Release(ctx, applied)
			return err
		}
		applied = append(applied, res)
	}
	return nil
}

// Release increments stock back for a previously applied set. It is used to
// compensate a reservation when a later step of order placement fails.
func (r *Reserver) Release(ctx context.Context, set []Reservation) {
	for i := len(set) - 1; i >= 0; i-- {
		res := set[i]
		if err := r.products.IncrementStock(ctx, res.ProductID, res.Quantity); err != nil {
			r.log.Error(ctx, "compensating stock increment failed",
				"product_id", res.ProductID, "quantity", res.Quantity, "error", err)
		}
	}
}

func (r *Reserver) decrement(ctx context.Context, res Reservation) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := r.products.DecrementStock(ctx, res.ProductID, res.Quantity)
		if err == nil {
			return nil
		}
		if !errors.Is(err, catalog.ErrInsufficientStock) {
			return err
		}
		// Lost the write to a concurrent reservation. Re-read: retry only
		// while the visible stock still covers the quantity.
		p, gerr := r.products.Get(ctx, res.ProductID)
		if gerr != nil {
			return gerr
		}
		if p.Stock < res.Quantity {
			return err
		}
	}
	return &catalog.InsufficientStockError{ProductID: res.ProductID}
}
