package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka consumer.
type KafkaConfig struct {
	Brokers       []string      // Broker addresses
	GroupID       string        // Consumer group ID
	CommitRetries int           // Offset commit retries (default: 3)
	RetryBackoff  time.Duration // Backoff between commit retries (default: 100ms)
}

// KafkaConsumer consumes message events from Kafka topics using a
// consumer group, so multiple analytics instances share the load.
type KafkaConsumer struct {
	config        KafkaConfig
	readers       map[string]*kafka.Reader
	subscriptions map[string]context.CancelFunc
	mu            sync.Mutex
}

func newKafkaConsumer(cfg KafkaConfig) (*KafkaConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "chatpulse-analytics"
	}
	if cfg.CommitRetries == 0 {
		cfg.CommitRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}

	return &KafkaConsumer{
		config:        cfg,
		readers:       make(map[string]*kafka.Reader),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

// Subscribe starts a consumer-group reader for the topic.
func (c *KafkaConsumer) Subscribe(subject string, handler Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.config.Brokers,
		GroupID:  c.config.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  1 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.readers[subject] = reader
	c.subscriptions[subject] = cancel

	go c.consume(ctx, reader, handler)
	return nil
}

func (c *KafkaConsumer) consume(ctx context.Context, reader *kafka.Reader, handler Handler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		if err := handler(msg.Value); err != nil {
			// No commit: the message is redelivered on rebalance.
			continue
		}

		for i := 0; i < c.config.CommitRetries; i++ {
			if err := reader.CommitMessages(ctx, msg); err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(c.config.RetryBackoff)
		}
	}
}

// Unsubscribe stops the consumer goroutine and closes the reader.
func (c *KafkaConsumer) Unsubscribe(subject string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cancel, exists := c.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}
	cancel()
	if reader, ok := c.readers[subject]; ok {
		_ = reader.Close()
		delete(c.readers, subject)
	}
	delete(c.subscriptions, subject)
	return nil
}

// Close stops all consumers.
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error
	for subject, cancel := range c.subscriptions {
		cancel()
		if reader, ok := c.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
			delete(c.readers, subject)
		}
		delete(c.subscriptions, subject)
	}
	return lastErr
}
