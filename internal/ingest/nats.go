package ingest

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConsumer consumes message events from NATS JetStream with durable
// consumers, so a restart resumes where ingestion left off.
type NATSConsumer struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	mu            sync.Mutex
}

func newNATSConsumer(url string) (*NATSConsumer, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSConsumer{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// newNATSConsumerWithConn wraps an existing connection (used in tests).
func newNATSConsumerWithConn(conn *nats.Conn) (*NATSConsumer, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &NATSConsumer{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// Subscribe creates the backing stream if needed and attaches a durable
// consumer with manual acks, so failed events are redelivered.
func (c *NATSConsumer) Subscribe(subject string, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	streamName := "chatpulse-" + sanitizeName(subject)
	if _, err := c.js.StreamInfo(streamName); err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
		}
	}

	durableName := "ingest-" + sanitizeName(subject)

	sub, err := c.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durableName),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	c.subscriptions[subject] = sub
	return nil
}

// Unsubscribe detaches from a subject.
func (c *NATSConsumer) Unsubscribe(subject string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub, exists := c.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}
	delete(c.subscriptions, subject)
	return nil
}

// Close detaches all subscriptions and closes the connection.
func (c *NATSConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subscriptions {
		_ = sub.Unsubscribe()
		delete(c.subscriptions, subject)
	}
	c.conn.Close()
	return nil
}

// sanitizeName maps a subject to a valid stream/consumer name. Names
// may only contain A-Z, a-z, 0-9, dash and underscore.
func sanitizeName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
