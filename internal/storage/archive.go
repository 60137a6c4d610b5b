package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"
)

const archiveExtension = ".json.snappy"

// ArchiveDay writes every message on the given UTC day to a
// snappy-compressed JSON file under dir and returns the file path. Days
// with no messages produce no file and an empty path.
func (s *Store) ArchiveDay(ctx context.Context, dir string, day time.Time) (string, error) {
	msgs, err := s.MessagesOnDay(ctx, day)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", nil
	}

	raw, err := json.Marshal(msgs)
	if err != nil {
		return "", fmt.Errorf("failed to encode archive: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(dir, day.UTC().Format(dayLayout)+archiveExtension)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	s.logger.Info("Archived day",
		"day", day.Format(dayLayout),
		"messages", len(msgs),
		"bytes", len(compressed),
		"path", path)
	return path, nil
}

// ReadArchive loads a day archive written by ArchiveDay.
func ReadArchive(path string) ([]Message, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress archive: %w", err)
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	return msgs, nil
}
