package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopflow/pkg/catalog"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	p := catalog.Product{ID: "1", Name: "Widget", Price: 9.99, Stock: 5, Category: "tools", VendorID: "v1"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" {
		t.Fatalf("expected Widget, got %s", got.Name)
	}
	p.Price = 12.50
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.Create(ctx, catalog.Product{ID: "1", Name: "A", Price: 3, Stock: 1, Category: "tools", VendorID: "v1"})
	repo.Create(ctx, catalog.Product{ID: "2", Name: "B", Price: 1, Stock: 1, Category: "tools", VendorID: "v2"})
	repo.Create(ctx, catalog.Product{ID: "3", Name: "C", Price: 2, Stock: 1, Category: "toys", VendorID: "v1"})

	l, err := repo.List(ctx, catalog.Query{VendorID: "v1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if l.Total != 2 {
		t.Fatalf("expected 2 for v1, got %d", l.Total)
	}

	l, err = repo.List(ctx, catalog.Query{Category: "tools", Sort: "price"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if l.Total != 2 || l.Products[0].ID != "2" {
		t.Fatalf("expected cheapest tools product first, got %+v", l.Products)
	}

	l, err = repo.List(ctx, catalog.Query{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if l.Total != 3 || len(l.Products) != 1 {
		t.Fatalf("expected page 2 with 1 product, got total=%d len=%d", l.Total, len(l.Products))
	}
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.Create(ctx, catalog.Product{ID: "1", Stock: 5, VendorID: "v1"})

	if err := repo.DecrementStock(ctx, "1", 3); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	err := repo.DecrementStock(ctx, "1", 3)
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	var short *catalog.InsufficientStockError
	if !errors.As(err, &short) || short.ProductID != "1" {
		t.Fatalf("expected offending product 1, got %v", err)
	}
	p, _ := repo.Get(ctx, "1")
	if p.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", p.Stock)
	}
	if err := repo.IncrementStock(ctx, "1", 3); err != nil {
		t.Fatalf("increment: %v", err)
	}
	p, _ = repo.Get(ctx, "1")
	if p.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", p.Stock)
	}
}

func TestDecrementStockConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := New()
	const stock = 50
	repo.Create(ctx, catalog.Product{ID: "1", Stock: stock, VendorID: "v1"})

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(ctx, "1", 1); err == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if reserved != stock {
		t.Fatalf("expected exactly %d successful decrements, got %d", stock, reserved)
	}
	p, _ := repo.Get(ctx, "1")
	if p.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", p.Stock)
	}
}
