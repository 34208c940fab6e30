// Package kafka publishes bus events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"shopflow/pkg/bus"
	"shopflow/pkg/logger"
)

// Publisher writes events as JSON messages keyed by event topic. Writes run
// asynchronously so a broker outage never stalls order placement.
type Publisher struct {
	writer *kafkago.Writer
	log    *logger.Logger
}

// New creates a publisher for the given broker and topic.
func New(broker, topic string, log *logger.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(broker),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		Async:        true,
		WriteTimeout: 5 * time.Second,
	}
	w.Completion = func(msgs []kafkago.Message, err error) {
		if err != nil {
			log.Warn(context.Background(), "kafka publish failed", "messages", len(msgs), "error", err)
		}
	}
	return &Publisher{writer: w, log: log}
}

// Publish enqueues the event; failures are logged, never surfaced.
func (p *Publisher) Publish(ctx context.Context, ev bus.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn(ctx, "kafka event marshal failed", "topic", ev.Topic, "error", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(ev.Topic),
		Value: value,
	}); err != nil {
		p.log.Warn(ctx, "kafka publish failed", "topic", ev.Topic, "error", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
