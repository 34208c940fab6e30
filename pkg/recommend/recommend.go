// Package recommend suggests products based on purchase history.
package recommend

import (
	"context"

	"shopflow/pkg/catalog"
	"shopflow/pkg/user"
)

// DefaultLimit caps how many suggestions a single call returns.
const DefaultLimit = 5

// Service recommends products from the categories a user has bought from,
// excluding products already purchased.
type Service struct {
	users    user.Repository
	products catalog.Repository
}

// NewService creates a recommendation service.
func NewService(users user.Repository, products catalog.Repository) *Service {
	return &Service{users: users, products: products}
}

// ForUser returns up to limit suggestions for the user. A user with no
// purchase history gets an empty list, not an error.
func (s *Service) ForUser(ctx context.Context, userID string, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	history, err := s.users.PurchaseHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	purchased := make(map[string]bool, len(history))
	categories := make(map[string]bool)
	for _, pid := range history {
		purchased[pid] = true
		p, err := s.products.Get(ctx, pid)
		if err != nil {
			// Purchased product since deleted; its category is lost.
			continue
		}
		categories[p.Category] = true
	}

	out := []catalog.Product{}
	for category := range categories {
		l, err := s.products.List(ctx, catalog.Query{Category: category, Limit: limit})
		if err != nil {
			return nil, err
		}
		for _, p := range l.Products {
			if purchased[p.ID] {
				continue
			}
			out = append(out, p)
			if len(out) == limit {
				return out, nil
			}
		}
	}
	return out, nil
}
