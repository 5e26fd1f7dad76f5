package queue

import (
	"context"
	"log/slog"
	"sync"
)

// Event is the lifecycle notification published for downstream consumers.
// This is an audit feed: the gateway never reads it back, and publishing
// failures never fail the request that produced the event.
type Event struct {
	Type              string `json:"type"`
	MessageID         int64  `json:"message_id,omitempty"`
	ProviderMessageID string `json:"provider_message_id,omitempty"`
	Direction         string `json:"direction,omitempty"`
	Status            string `json:"status,omitempty"`
	Timestamp         string `json:"timestamp,omitempty"`
}

const (
	EventTypeSent           = "message.sent"
	EventTypeFailed         = "message.failed"
	EventTypeReceived       = "message.received"
	EventTypeDeliveryUpdate = "message.delivery_update"
)

// Publisher interface
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// InMemoryPublisher fans events out to in-process subscribers. Used in dev
// and in tests; with no subscribers events are dropped.
type InMemoryPublisher struct {
	mu       sync.Mutex
	handlers []func(Event) error
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

// Subscribe adds a handler invoked for every published event.
func (q *InMemoryPublisher) Subscribe(handler func(Event) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Publish delivers the event to all subscribers synchronously.
func (q *InMemoryPublisher) Publish(ctx context.Context, ev Event) error {
	q.mu.Lock()
	handlers := make([]func(Event) error, len(q.handlers))
	copy(handlers, q.handlers)
	q.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ev); err != nil {
			slog.Warn("event handler failed", "type", ev.Type, "error", err)
			return err
		}
	}
	return nil
}
