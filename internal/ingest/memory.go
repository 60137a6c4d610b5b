package ingest

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBroker is an in-process broker for tests and local development.
// It implements both Consumer and Publisher.
type MemoryBroker struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	mu            sync.Mutex
}

func newMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

// NewMemoryBroker creates an in-memory broker.
func NewMemoryBroker() *MemoryBroker {
	return newMemoryBroker()
}

func (b *MemoryBroker) getOrCreateChannel(subject string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, exists := b.channels[subject]; exists {
		return ch
	}
	ch := make(chan []byte, 10000)
	b.channels[subject] = ch
	return ch
}

// Publish enqueues one event for the subject's subscriber.
func (b *MemoryBroker) Publish(ctx context.Context, subject string, data []byte) error {
	ch := b.getOrCreateChannel(subject)

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case ch <- dataCopy:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Subscribe delivers queued and future events to handler in a
// background goroutine.
func (b *MemoryBroker) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	if _, exists := b.subscriptions[subject]; exists {
		b.mu.Unlock()
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	b.mu.Unlock()

	ch := b.getOrCreateChannel(subject)
	ctx, cancel := context.WithCancel(context.Background())

	b.mu.Lock()
	b.subscriptions[subject] = cancel
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				// No redelivery in-process; errors are the handler's
				// problem to log.
				_ = handler(data)
			}
		}
	}()

	return nil
}

// Unsubscribe stops delivery for a subject.
func (b *MemoryBroker) Unsubscribe(subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancel, exists := b.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	cancel()
	delete(b.subscriptions, subject)
	return nil
}

// Close cancels all subscriptions and drops all channels.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subject, cancel := range b.subscriptions {
		cancel()
		delete(b.subscriptions, subject)
	}
	for subject, ch := range b.channels {
		close(ch)
		delete(b.channels, subject)
	}
	return nil
}

// PendingCount returns queued events for a subject (for tests).
func (b *MemoryBroker) PendingCount(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, exists := b.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
