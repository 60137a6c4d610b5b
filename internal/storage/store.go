// Package storage persists chat message statistics in an embedded SQLite
// database and serves the aggregated daily series consumed by the
// analytics engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chatpulse/chatpulse/internal/logging"
)

// Message is one ingested chat message. Content never reaches this
// service; only counts and metadata are stored.
type Message struct {
	ID          uint      `gorm:"primaryKey"`
	MessageID   string    `gorm:"uniqueIndex;size:64"`
	GroupID     string    `gorm:"size:64;index:idx_messages_group_time,priority:1"`
	UserID      string    `gorm:"size:64;index"`
	Platform    string    `gorm:"size:32"`
	MessageType string    `gorm:"size:16"`
	WordCount   int
	Timestamp   time.Time `gorm:"index:idx_messages_group_time,priority:2"`
	CreatedAt   time.Time
}

// TopicKeyword tracks per-group keyword frequency and recency.
type TopicKeyword struct {
	ID            uint      `gorm:"primaryKey"`
	GroupID       string    `gorm:"size:64;uniqueIndex:idx_keywords_group_keyword,priority:1"`
	Keyword       string    `gorm:"size:128;uniqueIndex:idx_keywords_group_keyword,priority:2"`
	Frequency     int64
	LastMentioned time.Time `gorm:"index"`
	CreatedAt     time.Time
}

// GroupStat is the rolled-up per-group summary refreshed by the scheduler.
type GroupStat struct {
	GroupID       string `gorm:"primaryKey;size:64"`
	TotalMessages int64
	TotalMembers  int64
	PeakHour      int
	MostActiveDay string `gorm:"size:16"`
	UpdatedAt     time.Time
}

// UserStat is the rolled-up per-user summary, maintained on ingest.
type UserStat struct {
	UserID        string `gorm:"primaryKey;size:64"`
	TotalMessages int64
	TotalWords    int64
	FirstSeen     time.Time
	LastSeen      time.Time
	UpdatedAt     time.Time
}

// Store wraps the database handle and the query surface the analytics
// engine depends on.
type Store struct {
	db     *gorm.DB
	logger *logging.Logger
}

// Config holds storage configuration.
type Config struct {
	Path string // Database file path (:memory: for in-memory)
}

// Open opens the SQLite database with production pragmas and runs
// migrations. The driver is pure Go, no CGO required.
func Open(cfg Config, logger *logging.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	// SQLite allows a single writer; one connection avoids lock churn.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(&Message{}, &TopicKeyword{}, &GroupStat{}, &UserStat{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordMessage persists one message event and updates the sender's
// rolling stats. Duplicate message IDs are ignored so broker redelivery
// stays idempotent.
func (s *Store) RecordMessage(ctx context.Context, msg *Message) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(msg)
	if result.Error != nil {
		return fmt.Errorf("failed to record message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Redelivered duplicate; stats were already updated.
		return nil
	}

	return s.touchUserStat(ctx, msg)
}

// touchUserStat upserts the per-user rollup for one new message.
func (s *Store) touchUserStat(ctx context.Context, msg *Message) error {
	stat := UserStat{
		UserID:        msg.UserID,
		TotalMessages: 1,
		TotalWords:    int64(msg.WordCount),
		FirstSeen:     msg.Timestamp,
		LastSeen:      msg.Timestamp,
		UpdatedAt:     time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_messages": gorm.Expr("total_messages + 1"),
				"total_words":    gorm.Expr("total_words + ?", msg.WordCount),
				"last_seen":      msg.Timestamp,
				"updated_at":     time.Now().UTC(),
			}),
		}).
		Create(&stat).Error
	if err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}

// TouchKeywords bumps frequency and recency for each keyword seen in a
// message. Unknown keywords are inserted with frequency 1.
func (s *Store) TouchKeywords(ctx context.Context, groupID string, keywords []string, seenAt time.Time) error {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		row := TopicKeyword{
			GroupID:       groupID,
			Keyword:       keyword,
			Frequency:     1,
			LastMentioned: seenAt,
		}
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "group_id"}, {Name: "keyword"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"frequency":      gorm.Expr("frequency + 1"),
					"last_mentioned": seenAt,
				}),
			}).
			Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to touch keyword %q: %w", keyword, err)
		}
	}
	return nil
}

// GroupStats returns the rolled-up summary for a group, or nil when the
// group has never been rolled up.
func (s *Store) GroupStats(ctx context.Context, groupID string) (*GroupStat, error) {
	var stat GroupStat
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group stats: %w", err)
	}
	return &stat, nil
}

// RefreshGroupStats recomputes the rollup rows for every group with
// messages. Invoked nightly by the scheduler.
func (s *Store) RefreshGroupStats(ctx context.Context) error {
	var groupIDs []string
	if err := s.db.WithContext(ctx).
		Model(&Message{}).
		Distinct("group_id").
		Pluck("group_id", &groupIDs).Error; err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	for _, groupID := range groupIDs {
		if err := s.refreshGroup(ctx, groupID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) refreshGroup(ctx context.Context, groupID string) error {
	var summary struct {
		TotalMessages int64
		TotalMembers  int64
	}
	err := s.db.WithContext(ctx).
		Model(&Message{}).
		Select("COUNT(*) AS total_messages, COUNT(DISTINCT user_id) AS total_members").
		Where("group_id = ?", groupID).
		Scan(&summary).Error
	if err != nil {
		return fmt.Errorf("failed to summarize group %s: %w", groupID, err)
	}

	var peak struct {
		Hour  int
		Count int64
	}
	err = s.db.WithContext(ctx).
		Model(&Message{}).
		Select("CAST(strftime('%H', timestamp) AS INTEGER) AS hour, COUNT(*) AS count").
		Where("group_id = ?", groupID).
		Group("hour").
		Order("count DESC").
		Limit(1).
		Scan(&peak).Error
	if err != nil {
		return fmt.Errorf("failed to find peak hour for group %s: %w", groupID, err)
	}

	var busiest struct {
		Day   string
		Count int64
	}
	err = s.db.WithContext(ctx).
		Model(&Message{}).
		Select("date(timestamp) AS day, COUNT(*) AS count").
		Where("group_id = ?", groupID).
		Group("day").
		Order("count DESC").
		Limit(1).
		Scan(&busiest).Error
	if err != nil {
		return fmt.Errorf("failed to find busiest day for group %s: %w", groupID, err)
	}

	stat := GroupStat{
		GroupID:       groupID,
		TotalMessages: summary.TotalMessages,
		TotalMembers:  summary.TotalMembers,
		PeakHour:      peak.Hour,
		MostActiveDay: busiest.Day,
		UpdatedAt:     time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}},
			UpdateAll: true,
		}).
		Create(&stat).Error
	if err != nil {
		return fmt.Errorf("failed to save group stats for %s: %w", groupID, err)
	}
	return nil
}
