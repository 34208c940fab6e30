// Package cart defines per-user shopping carts and their operations.
package cart

import (
	"context"
	"errors"

	"shopflow/pkg/catalog"
)

// Line is one product entry in a cart. A cart holds at most one line per
// product; re-adding a product merges quantities.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the mutable collection of lines owned by a user.
type Cart struct {
	UserID string `json:"userId"`
	Lines  []Line `json:"lines"`
}

// ResolvedLine is a cart line joined with its product for display and
// order placement.
type ResolvedLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// ResolvedCart is a cart with product details filled in.
type ResolvedCart struct {
	UserID string         `json:"userId"`
	Lines  []ResolvedLine `json:"lines"`
}

// Repository defines behavior for persisting carts.
type Repository interface {
	Get(ctx context.Context, userID string) (Cart, error)
	Put(ctx context.Context, c Cart) error
	Delete(ctx context.Context, userID string) error
}

// ErrNotFound indicates no cart exists for the user.
var ErrNotFound = errors.New("cart not found")

// ErrInvalidQuantity indicates a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Service implements cart operations over a repository, resolving product
// references against the catalog.
type Service struct {
	carts    Repository
	products catalog.Repository
}

// NewService creates a cart service.
func NewService(carts Repository, products catalog.Repository) *Service {
	return &Service{carts: carts, products: products}
}

// AddLine adds qty of a product to the user's cart, creating the cart if
// needed and merging with an existing line for the same product.
func (s *Service) AddLine(ctx context.Context, userID, productID string, qty int) (Cart, error) {
	if qty <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return Cart{}, err
	}

	c, err := s.carts.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		c = Cart{UserID: userID}
	} else if err != nil {
		return Cart{}, err
	}

	merged := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: qty})
	}
	if err := s.carts.Put(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemoveLine drops the line for a product. Removing an absent line is not
// an error; the cart is returned unchanged.
func (s *Service) RemoveLine(ctx context.Context, userID, productID string) (Cart, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(c.Lines) {
		return c, nil
	}
	c.Lines = kept
	if err := s.carts.Put(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Get returns the user's cart with product details resolved.
func (s *Service) Get(ctx context.Context, userID string) (ResolvedCart, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return ResolvedCart{}, err
	}
	rc := ResolvedCart{UserID: c.UserID, Lines: make([]ResolvedLine, 0, len(c.Lines))}
	for _, l := range c.Lines {
		p, err := s.products.Get(ctx, l.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			// Product removed since it was added; skip the dead line.
			continue
		}
		if err != nil {
			return ResolvedCart{}, err
		}
		rc.Lines = append(rc.Lines, ResolvedLine{Product: p, Quantity: l.Quantity})
	}
	return rc, nil
}

// Clear deletes the cart record entirely.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.carts.Delete(ctx, userID)
}
