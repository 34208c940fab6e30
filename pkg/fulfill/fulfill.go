// Package fulfill orchestrates order placement and order status updates.
package fulfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopflow/pkg/bus"
	"shopflow/pkg/cart"
	"shopflow/pkg/inventory"
	"shopflow/pkg/listing"
	"shopflow/pkg/logger"
	"shopflow/pkg/order"
	"shopflow/pkg/user"
)

// ErrEmptyCart indicates order placement without a cart or with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrEmptyAddress indicates order placement without a delivery address.
var ErrEmptyAddress = errors.New("delivery address is required")

// ErrMixedVendors indicates a cart whose lines span more than one vendor.
// An order belongs to exactly one vendor; mixed carts must be split by the
// client.
var ErrMixedVendors = errors.New("cart spans multiple vendors")

// ErrForbidden indicates a status update by someone other than the order's
// owning vendor.
var ErrForbidden = errors.New("not the owning vendor")

// Service composes the cart, inventory, order, user and cache components
// into the place-order and update-status operations.
type Service struct {
	carts    *cart.Service
	reserver *inventory.Reserver
	orders   order.Repository
	users    user.Repository
	cache    listing.Cache
	pub      bus.Publisher
	log      *logger.Logger
}

// NewService creates the orchestrator.
func NewService(carts *cart.Service, reserver *inventory.Reserver, orders order.Repository,
	users user.Repository, cache listing.Cache, pub bus.Publisher, log *logger.Logger) *Service {
	return &Service{
		carts:    carts,
		reserver: reserver,
		orders:   orders,
		users:    users,
		cache:    cache,
		pub:      pub,
		log:      log,
	}
}

// PlaceOrder converts the user's cart into a pending order. Stock is
// decremented for every line or for none; a failure after the reservation
// releases the decrements so the caller never observes a half-applied order.
func (s *Service) PlaceOrder(ctx context.Context, userID, address string) (order.Order, error) {
	if address == "" {
		return order.Order{}, ErrEmptyAddress
	}

	rc, err := s.carts.Get(ctx, userID)
	if errors.Is(err, cart.ErrNotFound) {
		return order.Order{}, ErrEmptyCart
	}
	if err != nil {
		return order.Order{}, err
	}
	if len(rc.Lines) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	vendorID := rc.Lines[0].Product.VendorID
	var total float64
	lines := make([]order.Line, 0, len(rc.Lines))
	set := make([]inventory.Reservation, 0, len(rc.Lines))
	for _, l := range rc.Lines {
		if l.Product.VendorID != vendorID {
			return order.Order{}, ErrMixedVendors
		}
		// Unit price captured here is the one frozen into the order.
		total += l.Product.Price * float64(l.Quantity)
		lines = append(lines, order.Line{ProductID: l.Product.ID, Quantity: l.Quantity, UnitPrice: l.Product.Price})
		set = append(set, inventory.Reservation{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	if err := s.reserver.Reserve(ctx, set); err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		VendorID:  vendorID,
		Lines:     lines,
		Total:     total,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
		Address:   address,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.reserver.Release(ctx, set)
		return order.Order{}, fmt.Errorf("persisting order: %w", err)
	}

	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	if err := s.users.AppendPurchases(ctx, userID, productIDs); err != nil {
		s.log.Warn(ctx, "purchase history append failed", "user_id", userID, "error", err)
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.log.Warn(ctx, "cart clear failed", "user_id", userID, "error", err)
	}

	// Listings expose stock, so the decrements make cached pages stale.
	s.invalidate(ctx, vendorID)

	s.pub.Publish(ctx, bus.Event{Topic: bus.TopicOrderCreated, Payload: map[string]any{
		"userId":  userID,
		"orderId": o.ID,
		"total":   o.Total,
	}})
	for _, l := range rc.Lines {
		s.pub.Publish(ctx, bus.Event{Topic: bus.TopicInventoryUpdated, Payload: map[string]any{
			"productId": l.Product.ID,
			"stock":     l.Product.Stock - l.Quantity,
		}})
	}

	s.log.Info(ctx, "order placed", "order_id", o.ID, "user_id", userID, "total", o.Total)
	return o, nil
}

// UpdateOrderStatus transitions an order's status on behalf of its owning
// vendor and publishes the change.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, vendorID string, status order.Status) (order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}
	if o.VendorID != vendorID {
		return order.Order{}, ErrForbidden
	}
	if !status.Valid() || !o.Status.CanTransition(status) {
		return order.Order{}, order.ErrInvalidTransition
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return order.Order{}, err
	}
	o.Status = status

	s.pub.Publish(ctx, bus.Event{Topic: bus.TopicOrderStatusChanged, Payload: map[string]any{
		"orderId": orderID,
		"status":  string(status),
	}})
	s.log.Info(ctx, "order status updated", "order_id", orderID, "status", string(status))
	return o, nil
}

// ListOrders returns the user's orders.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) invalidate(ctx context.Context, vendorID string) {
	for _, scope := range []string{vendorID, listing.PublicScope} {
		if err := s.cache.InvalidateScope(ctx, scope); err != nil {
			s.log.Warn(ctx, "listing cache invalidation failed", "scope", scope, "error", err)
		}
	}
}
