// Package bus broadcasts inventory and order change events to subscribers.
//
// Delivery is fire-and-forget: publishing never blocks the caller and a
// failed or dropped delivery never fails the operation that produced the
// event.
package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Topics published by the fulfillment and catalog write paths.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicInventoryUpdated   = "inventory.updated"
)

// Event is one state-transition notification.
type Event struct {
	Topic   string         `json:"topic"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload"`
}

// Publisher is the abstract publish capability the orchestrator depends on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type multi []Publisher

func (m multi) Publish(ctx context.Context, ev Event) {
	for _, p := range m {
		p.Publish(ctx, ev)
	}
}

// Multi fans a publish out to several publishers.
func Multi(pubs ...Publisher) Publisher {
	return multi(pubs)
}

// Bus is an in-process Publisher fanning events out to channel subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    []chan Event
	dropped atomic.Int64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber and returns its receive channel. A
// subscriber that falls behind by more than buffer events loses the excess.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber registered with Subscribe.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped for slow subscribers.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
