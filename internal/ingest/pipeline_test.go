package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/storage"
)

type fakeRecorder struct {
	mu       sync.Mutex
	messages []*storage.Message
	keywords map[string][]string
	failWith error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{keywords: make(map[string][]string)}
}

func (f *fakeRecorder) RecordMessage(ctx context.Context, msg *storage.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeRecorder) TouchKeywords(ctx context.Context, groupID string, keywords []string, seenAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.keywords[groupID] = append(f.keywords[groupID], keywords...)
	return nil
}

func (f *fakeRecorder) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.Disabled)
}

func validEvent() MessageEvent {
	return MessageEvent{
		MessageID:   "m1",
		GroupID:     "g1",
		UserID:      "u1",
		Platform:    "telegram",
		MessageType: "text",
		WordCount:   7,
		Keywords:    []string{"release", "deploy"},
		Timestamp:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestPipelineHandleRecordsMessage(t *testing.T) {
	store := newFakeRecorder()
	pipeline := NewPipeline(store, testLogger())

	data, _ := json.Marshal(validEvent())
	if err := pipeline.Handle(data); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if got := store.messageCount(); got != 1 {
		t.Fatalf("expected 1 recorded message, got %d", got)
	}
	if store.messages[0].MessageID != "m1" {
		t.Errorf("expected message_id m1, got %s", store.messages[0].MessageID)
	}
	if store.messages[0].WordCount != 7 {
		t.Errorf("expected word count 7, got %d", store.messages[0].WordCount)
	}
	if len(store.keywords["g1"]) != 2 {
		t.Errorf("expected 2 keywords for g1, got %d", len(store.keywords["g1"]))
	}
}

func TestPipelineHandleDropsMalformed(t *testing.T) {
	store := newFakeRecorder()
	pipeline := NewPipeline(store, testLogger())

	cases := [][]byte{
		[]byte("not json"),
		[]byte(`{"group_id":"g1"}`), // missing required fields
		[]byte(`{}`),
	}
	for _, data := range cases {
		if err := pipeline.Handle(data); err != nil {
			t.Errorf("malformed payload should be dropped, not retried: %v", err)
		}
	}
	if got := store.messageCount(); got != 0 {
		t.Errorf("expected no recorded messages, got %d", got)
	}
}

func TestPipelineHandleReturnsStorageError(t *testing.T) {
	store := newFakeRecorder()
	store.failWith = errors.New("disk full")
	pipeline := NewPipeline(store, testLogger())

	data, _ := json.Marshal(validEvent())
	if err := pipeline.Handle(data); err == nil {
		t.Fatal("expected storage error to propagate for redelivery")
	}
}

func TestDecodeMessageEventValidation(t *testing.T) {
	event := validEvent()
	event.Timestamp = time.Time{}
	data, _ := json.Marshal(event)

	if _, err := DecodeMessageEvent(data); err == nil {
		t.Fatal("expected error for zero timestamp")
	}
}
