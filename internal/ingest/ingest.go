// Package ingest consumes chat message events from a broker and feeds
// them into storage. NATS JetStream is the default transport; Kafka and
// an in-memory broker are available for other deployments and tests.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MessageEvent is the wire format published by chat platform adapters.
// Message content stays on the adapter side; only counts and keywords
// cross the wire.
type MessageEvent struct {
	MessageID   string    `json:"message_id"`
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	Platform    string    `json:"platform"`
	MessageType string    `json:"message_type"`
	WordCount   int       `json:"word_count"`
	Keywords    []string  `json:"keywords,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Validate checks the fields required to attribute the event.
func (e *MessageEvent) Validate() error {
	if e.MessageID == "" {
		return fmt.Errorf("message_id is required")
	}
	if e.GroupID == "" {
		return fmt.Errorf("group_id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// DecodeMessageEvent parses one event from its JSON encoding.
func DecodeMessageEvent(data []byte) (*MessageEvent, error) {
	var event MessageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode message event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}

// Handler handles one raw event payload. Returning an error requests
// redelivery on brokers that support it.
type Handler func(data []byte) error

// Consumer subscribes to message events from a broker.
type Consumer interface {
	// Subscribe starts delivering events on a subject/topic to handler.
	Subscribe(subject string, handler Handler) error

	// Unsubscribe stops delivery for a subject/topic.
	Unsubscribe(subject string) error

	// Close stops all subscriptions and releases the connection.
	Close() error
}

// Publisher publishes message events. Implemented by the in-memory
// broker for tests and local development.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
