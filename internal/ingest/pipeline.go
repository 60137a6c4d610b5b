package ingest

import (
	"context"
	"time"

	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// Recorder is the slice of the storage layer the pipeline writes to.
type Recorder interface {
	RecordMessage(ctx context.Context, msg *storage.Message) error
	TouchKeywords(ctx context.Context, groupID string, keywords []string, seenAt time.Time) error
}

// Pipeline decodes message events and writes them to storage.
type Pipeline struct {
	store  Recorder
	logger *logging.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(store Recorder, logger *logging.Logger) *Pipeline {
	return &Pipeline{store: store, logger: logger}
}

// Start attaches the pipeline to a consumer subject.
func (p *Pipeline) Start(consumer Consumer, subject string) error {
	return consumer.Subscribe(subject, p.Handle)
}

// Handle processes one raw event payload. Malformed payloads are logged
// and dropped; storage failures are returned so the broker redelivers.
func (p *Pipeline) Handle(data []byte) error {
	event, err := DecodeMessageEvent(data)
	if err != nil {
		// Redelivering a payload that cannot parse would loop forever.
		p.logger.Warn("Dropping malformed message event", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &storage.Message{
		MessageID:   event.MessageID,
		GroupID:     event.GroupID,
		UserID:      event.UserID,
		Platform:    event.Platform,
		MessageType: event.MessageType,
		WordCount:   event.WordCount,
		Timestamp:   event.Timestamp.UTC(),
	}
	if err := p.store.RecordMessage(ctx, msg); err != nil {
		p.logger.Error("Failed to record message", "error", err, "message_id", event.MessageID)
		return err
	}

	if len(event.Keywords) > 0 {
		if err := p.store.TouchKeywords(ctx, event.GroupID, event.Keywords, event.Timestamp.UTC()); err != nil {
			p.logger.Error("Failed to record keywords", "error", err, "group_id", event.GroupID)
			return err
		}
	}

	p.logger.Debug("Recorded message event",
		"message_id", event.MessageID,
		"group_id", event.GroupID,
		"keywords", len(event.Keywords))
	return nil
}
