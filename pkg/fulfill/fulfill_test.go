package fulfill_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"shopflow/pkg/bus"
	"shopflow/pkg/cart"
	cartmem "shopflow/pkg/cart/memory"
	"shopflow/pkg/catalog"
	catalogmem "shopflow/pkg/catalog/memory"
	"shopflow/pkg/fulfill"
	"shopflow/pkg/inventory"
	listingmem "shopflow/pkg/listing/memory"
	"shopflow/pkg/logger"
	"shopflow/pkg/order"
	ordermem "shopflow/pkg/order/memory"
	"shopflow/pkg/user"
	usermem "shopflow/pkg/user/memory"
)

type fixture struct {
	svc      *fulfill.Service
	carts    *cart.Service
	products *catalogmem.Repository
	orders   order.Repository
	users    user.Repository
	bus      *bus.Bus
	events   <-chan bus.Event
}

func newFixture(t *testing.T, orders order.Repository) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	products := catalogmem.New()
	products.Create(ctx, catalog.Product{ID: "p1", Name: "Widget", Price: 2.5, Stock: 10, Category: "tools", VendorID: "v1"})
	products.Create(ctx, catalog.Product{ID: "p2", Name: "Gadget", Price: 4, Stock: 5, Category: "tools", VendorID: "v1"})
	products.Create(ctx, catalog.Product{ID: "p3", Name: "Trinket", Price: 1, Stock: 5, Category: "toys", VendorID: "v2"})

	users := usermem.New()
	users.Create(ctx, user.User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	users.Create(ctx, user.User{ID: "u2", Name: "Ben", Email: "ben@example.com"})

	if orders == nil {
		orders = ordermem.New()
	}
	carts := cart.NewService(cartmem.New(), products)
	b := bus.New()
	events := b.Subscribe(32)
	svc := fulfill.NewService(carts, inventory.NewReserver(products, log), orders, users, listingmem.New(), b, log)
	return &fixture{svc: svc, carts: carts, products: products, orders: orders, users: users, bus: b, events: events}
}

func (f *fixture) drainEvents() []bus.Event {
	var out []bus.Event
	for {
		select {
		case ev := <-f.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	if _, err := f.svc.PlaceOrder(ctx, "u1", "12 High St"); !errors.Is(err, fulfill.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if evs := f.drainEvents(); len(evs) != 0 {
		t.Fatalf("expected no events, got %d", len(evs))
	}
	p, _ := f.products.Get(ctx, "p1")
	if p.Stock != 10 {
		t.Fatalf("expected untouched stock, got %d", p.Stock)
	}
}

func TestPlaceOrderEmptyAddress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.carts.AddLine(ctx, "u1", "p1", 1)

	if _, err := f.svc.PlaceOrder(ctx, "u1", ""); !errors.Is(err, fulfill.ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.carts.AddLine(ctx, "u1", "p1", 2)
	f.carts.AddLine(ctx, "u1", "p2", 1)

	o, err := f.svc.PlaceOrder(ctx, "u1", "12 High St")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.Total != 2*2.5+4 {
		t.Fatalf("expected total 9, got %v", o.Total)
	}
	if o.Status != order.StatusPending || o.VendorID != "v1" {
		t.Fatalf("unexpected order %+v", o)
	}

	p1, _ := f.products.Get(ctx, "p1")
	p2, _ := f.products.Get(ctx, "p2")
	if p1.Stock != 8 || p2.Stock != 4 {
		t.Fatalf("expected stock 8/4, got %d/%d", p1.Stock, p2.Stock)
	}
	if _, err := f.carts.Get(ctx, "u1"); !errors.Is(err, cart.ErrNotFound) {
		t.Fatalf("expected cart gone after placement, got %v", err)
	}

	history, err := f.users.PurchaseHistory(ctx, "u1")
	if err != nil || len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %v err=%v", history, err)
	}

	evs := f.drainEvents()
	var created, updated int
	for _, ev := range evs {
		switch ev.Topic {
		case bus.TopicOrderCreated:
			created++
			if ev.Payload["orderId"] != o.ID {
				t.Fatalf("order.created carries wrong id: %v", ev.Payload)
			}
		case bus.TopicInventoryUpdated:
			updated++
		}
	}
	if created != 1 || updated != 2 {
		t.Fatalf("expected 1 order.created and 2 inventory.updated, got %d/%d", created, updated)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.carts.AddLine(ctx, "u1", "p1", 2)
	f.carts.AddLine(ctx, "u1", "p2", 6) // stock is 5

	_, err := f.svc.PlaceOrder(ctx, "u1", "12 High St")
	var short *catalog.InsufficientStockError
	if !errors.As(err, &short) || short.ProductID != "p2" {
		t.Fatalf("expected insufficient stock on p2, got %v", err)
	}

	p1, _ := f.products.Get(ctx, "p1")
	p2, _ := f.products.Get(ctx, "p2")
	if p1.Stock != 10 || p2.Stock != 5 {
		t.Fatalf("expected untouched stock, got %d/%d", p1.Stock, p2.Stock)
	}
	rc, err := f.carts.Get(ctx, "u1")
	if err != nil || len(rc.Lines) != 2 {
		t.Fatalf("expected cart kept, got %+v err=%v", rc, err)
	}
	if evs := f.drainEvents(); len(evs) != 0 {
		t.Fatalf("expected no events, got %d", len(evs))
	}
}

func TestPlaceOrderMixedVendors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.carts.AddLine(ctx, "u1", "p1", 1)
	f.carts.AddLine(ctx, "u1", "p3", 1)

	if _, err := f.svc.PlaceOrder(ctx, "u1", "12 High St"); !errors.Is(err, fulfill.ErrMixedVendors) {
		t.Fatalf("expected ErrMixedVendors, got %v", err)
	}
	p1, _ := f.products.Get(ctx, "p1")
	if p1.Stock != 10 {
		t.Fatalf("expected untouched stock, got %d", p1.Stock)
	}
}

type failingOrderRepo struct {
	order.Repository
}

func (f *failingOrderRepo) Create(ctx context.Context, o order.Order) error {
	return errors.New("disk full")
}

func TestPlaceOrderCompensatesOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &failingOrderRepo{Repository: ordermem.New()})
	f.carts.AddLine(ctx, "u1", "p1", 3)

	if _, err := f.svc.PlaceOrder(ctx, "u1", "12 High St"); err == nil {
		t.Fatal("expected error from failing order store")
	}
	p1, _ := f.products.Get(ctx, "p1")
	if p1.Stock != 10 {
		t.Fatalf("expected compensated stock 10, got %d", p1.Stock)
	}
	rc, err := f.carts.Get(ctx, "u1")
	if err != nil || len(rc.Lines) != 1 {
		t.Fatalf("expected cart kept, got %+v err=%v", rc, err)
	}
	if evs := f.drainEvents(); len(evs) != 0 {
		t.Fatalf("expected no events, got %d", len(evs))
	}
}

func TestConcurrentPlaceOrderContention(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	// Product stock 10, two carts each asking for 7: exactly one may win.
	f.carts.AddLine(ctx, "u1", "p1", 7)
	f.carts.AddLine(ctx, "u2", "p1", 7)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(ctx, uid, "12 High St")
		}(i, uid)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, catalog.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || short != 1 {
		t.Fatalf("expected exactly one winner, got ok=%d short=%d", ok, short)
	}
	p1, _ := f.products.Get(ctx, "p1")
	if p1.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", p1.Stock)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.carts.AddLine(ctx, "u1", "p1", 1)
	o, err := f.svc.PlaceOrder(ctx, "u1", "12 High St")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	f.drainEvents()

	if _, err := f.svc.UpdateOrderStatus(ctx, o.ID, "v2", order.StatusShipped); !errors.Is(err, fulfill.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, _ := f.orders.Get(ctx, o.ID)
	if got.Status != order.StatusPending {
		t.Fatalf("forbidden update must not change status, got %s", got.Status)
	}

	if _, err := f.svc.UpdateOrderStatus(ctx, o.ID, "v1", order.StatusDelivered); !errors.Is(err, order.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	updated, err := f.svc.UpdateOrderStatus(ctx, o.ID, "v1", order.StatusShipped)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != order.StatusShipped {
		t.Fatalf("expected Shipped, got %s", updated.Status)
	}

	evs := f.drainEvents()
	if len(evs) != 1 || evs[0].Topic != bus.TopicOrderStatusChanged {
		t.Fatalf("expected one order.status_changed event, got %+v", evs)
	}

	if _, err := f.svc.UpdateOrderStatus(ctx, "missing", "v1", order.StatusShipped); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if o.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}
