package bus

import (
	"context"
	"testing"
)

func TestPublishFansOut(t *testing.T) {
	b := New()
	a := b.Subscribe(4)
	c := b.Subscribe(4)

	b.Publish(context.Background(), Event{Topic: TopicOrderCreated})

	ev := <-a
	if ev.Topic != TopicOrderCreated {
		t.Fatalf("unexpected topic %q", ev.Topic)
	}
	if ev.At.IsZero() {
		t.Fatal("expected publish to stamp the event time")
	}
	ev = <-c
	if ev.Topic != TopicOrderCreated {
		t.Fatalf("unexpected topic %q", ev.Topic)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := New()
	b.Subscribe(1)

	// Second publish overflows the unread buffer and must drop, not block.
	b.Publish(context.Background(), Event{Topic: TopicInventoryUpdated})
	b.Publish(context.Background(), Event{Topic: TopicInventoryUpdated})

	if b.Dropped() != 1 {
		t.Fatalf("expected 1 dropped delivery, got %d", b.Dropped())
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch := b.Subscribe(1)
	b.Unsubscribe(ch)

	b.Publish(context.Background(), Event{Topic: TopicOrderStatusChanged})
	select {
	case <-ch:
		t.Fatal("unsubscribed channel received an event")
	default:
	}
}
