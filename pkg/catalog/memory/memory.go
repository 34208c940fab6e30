// Package memory implements an in-memory product repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"shopflow/pkg/catalog"
)

// Repository provides an in-memory implementation of catalog.Repository.
type Repository struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{products: make(map[string]catalog.Product)}
}

// Create stores the product.
func (r *Repository) Create(ctx context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

// Get retrieves a product by ID.
func (r *Repository) Get(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

// Update replaces an existing product.
func (r *Repository) Update(ctx context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns a page of products matching the query.
func (r *Repository) List(ctx context.Context, q catalog.Query) (catalog.Listing, error) {
	r.mu.RLock()
	matched := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if q.VendorID != "" && p.VendorID != q.VendorID {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		matched = append(matched, p)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		switch q.Sort {
		case "price":
			return matched[i].Price < matched[j].Price
		case "stock":
			return matched[i].Stock < matched[j].Stock
		case "name":
			return matched[i].Name < matched[j].Name
		default:
			return matched[i].ID < matched[j].ID
		}
	})

	total := len(matched)
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return catalog.Listing{Total: total, Products: matched[start:end]}, nil
}

// DecrementStock subtracts qty while stock covers it, holding the store lock
// so two reservations cannot both pass the check.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	if p.Stock < qty {
		return &catalog.InsufficientStockError{ProductID: id}
	}
	p.Stock -= qty
	r.products[id] = p
	return nil
}

// IncrementStock adds qty back; used to compensate aborted reservations.
func (r *Repository) IncrementStock(ctx context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.Stock += qty
	r.products[id] = p
	return nil
}
