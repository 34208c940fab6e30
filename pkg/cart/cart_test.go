package cart_test

import (
	"context"
	"errors"
	"testing"

	"shopflow/pkg/cart"
	cartmem "shopflow/pkg/cart/memory"
	"shopflow/pkg/catalog"
	catalogmem "shopflow/pkg/catalog/memory"
)

func newService(t *testing.T) (*cart.Service, *catalogmem.Repository) {
	t.Helper()
	products := catalogmem.New()
	ctx := context.Background()
	products.Create(ctx, catalog.Product{ID: "p1", Name: "Widget", Price: 2.5, Stock: 10, Category: "tools", VendorID: "v1"})
	products.Create(ctx, catalog.Product{ID: "p2", Name: "Gadget", Price: 4, Stock: 5, Category: "tools", VendorID: "v1"})
	return cart.NewService(cartmem.New(), products), products
}

func TestAddLineMergesQuantities(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.AddLine(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := svc.AddLine(ctx, "u1", "p1", 3)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", c.Lines)
	}
}

func TestAddLineValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.AddLine(ctx, "u1", "p1", 0); !errors.Is(err, cart.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.AddLine(ctx, "u1", "missing", 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, "u1"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("failed adds must not create a cart, got %v", err)
	}
}

func TestRemoveLineIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	if _, err := svc.AddLine(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := svc.RemoveLine(ctx, "u1", "p2")
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("removing an absent line must not change the cart, got %+v", c.Lines)
	}
	c, err = svc.RemoveLine(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", c.Lines)
	}
}

func TestGetResolvesProducts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	svc.AddLine(ctx, "u1", "p1", 2)
	svc.AddLine(ctx, "u1", "p2", 1)
	rc, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rc.Lines) != 2 {
		t.Fatalf("expected 2 resolved lines, got %d", len(rc.Lines))
	}
	if rc.Lines[0].Product.Name == "" || rc.Lines[0].Product.Price == 0 {
		t.Fatalf("expected resolved product details, got %+v", rc.Lines[0])
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	svc.AddLine(ctx, "u1", "p1", 2)
	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := svc.Get(ctx, "u1"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}
