package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopflow/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o := order.Order{
		ID:       "1",
		UserID:   "u1",
		VendorID: "v1",
		Lines:    []order.Line{{ProductID: "p1", Quantity: 2, UnitPrice: 3}},
		Total:    6,
		Status:   order.StatusPending,
		Address:  "12 High St",
	}
	o.CreatedAt = time.Now()
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != 6 || got.Status != order.StatusPending {
		t.Fatalf("unexpected order %+v", got)
	}
	if err := repo.UpdateStatus(ctx, "1", order.StatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ = repo.Get(ctx, "1")
	if got.Status != order.StatusShipped {
		t.Fatalf("expected Shipped, got %s", got.Status)
	}
	list, err := repo.ListByUser(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to order.Status
		ok       bool
	}{
		{order.StatusPending, order.StatusShipped, true},
		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusPending, order.StatusDelivered, false},
		{order.StatusShipped, order.StatusDelivered, true},
		{order.StatusShipped, order.StatusCancelled, true},
		{order.StatusShipped, order.StatusPending, false},
		{order.StatusDelivered, order.StatusShipped, false},
		{order.StatusCancelled, order.StatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}
