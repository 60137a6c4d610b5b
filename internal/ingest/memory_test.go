package ingest

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryBrokerPublishSubscribe(t *testing.T) {
	broker := NewMemoryBroker()
	defer func() { _ = broker.Close() }()

	var received atomic.Int64
	err := broker.Subscribe("chat.messages", func(data []byte) error {
		received.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := broker.Publish(context.Background(), "chat.messages", []byte("x")); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for received.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := received.Load(); got != 5 {
		t.Fatalf("expected 5 deliveries, got %d", got)
	}
}

func TestMemoryBrokerDuplicateSubscribe(t *testing.T) {
	broker := NewMemoryBroker()
	defer func() { _ = broker.Close() }()

	handler := func(data []byte) error { return nil }
	if err := broker.Subscribe("s", handler); err != nil {
		t.Fatalf("first Subscribe failed: %v", err)
	}
	if err := broker.Subscribe("s", handler); err == nil {
		t.Fatal("expected error on duplicate subscribe")
	}
}

func TestMemoryBrokerUnsubscribe(t *testing.T) {
	broker := NewMemoryBroker()
	defer func() { _ = broker.Close() }()

	if err := broker.Unsubscribe("missing"); err == nil {
		t.Fatal("expected error unsubscribing unknown subject")
	}

	if err := broker.Subscribe("s", func(data []byte) error { return nil }); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := broker.Unsubscribe("s"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
}

func TestMemoryBrokerPipelineEndToEnd(t *testing.T) {
	broker := NewMemoryBroker()
	defer func() { _ = broker.Close() }()

	store := newFakeRecorder()
	pipeline := NewPipeline(store, testLogger())
	if err := pipeline.Start(broker, "chat.messages"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	event := validEvent()
	data, _ := json.Marshal(event)
	if err := broker.Publish(context.Background(), "chat.messages", data); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.messageCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := store.messageCount(); got != 1 {
		t.Fatalf("expected 1 recorded message, got %d", got)
	}
}
