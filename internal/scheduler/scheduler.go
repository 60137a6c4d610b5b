// Package scheduler runs the nightly maintenance jobs: purging messages
// past retention (optionally archiving them first) and refreshing the
// per-group rollups.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chatpulse/chatpulse/internal/config"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// Cron schedules, minute-resolution. Retention runs before the rollup
// so purged days never re-enter the stats.
const (
	retentionSchedule = "0 3 * * *"
	rollupSchedule    = "30 3 * * *"
)

// Scheduler owns the cron runner and the maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	store  *storage.Store
	logger *logging.Logger
	cfg    config.StorageConfig
}

// New creates a Scheduler. Jobs are registered but not started.
func New(store *storage.Store, logger *logging.Logger, cfg config.StorageConfig) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		store:  store,
		logger: logger,
		cfg:    cfg,
	}

	if _, err := s.cron.AddFunc(retentionSchedule, s.retentionJob); err != nil {
		return nil, fmt.Errorf("failed to schedule retention job: %w", err)
	}
	if _, err := s.cron.AddFunc(rollupSchedule, s.rollupJob); err != nil {
		return nil, fmt.Errorf("failed to schedule rollup job: %w", err)
	}
	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started",
		"retention_schedule", retentionSchedule,
		"rollup_schedule", rollupSchedule,
		"retention", s.cfg.Retention.String())
}

// Stop halts the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) retentionJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := s.RunRetention(ctx); err != nil {
		s.logger.Error("Retention job failed", "error", err)
	}
}

func (s *Scheduler) rollupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.store.RefreshGroupStats(ctx); err != nil {
		s.logger.Error("Rollup job failed", "error", err)
		return
	}
	s.logger.Info("Group stats refreshed")
}

// RunRetention purges messages older than the retention window one
// calendar day at a time, archiving each day first when configured. A
// day that fails to archive is kept, so data is never lost silently.
func (s *Scheduler) RunRetention(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.cfg.Retention)

	days, err := s.store.MessageDaysBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		s.logger.Debug("Retention: nothing to purge", "cutoff", cutoff.Format("2006-01-02"))
		return nil
	}

	var purged int64
	for _, day := range days {
		if s.cfg.ArchiveOnPurge {
			if _, err := s.store.ArchiveDay(ctx, s.cfg.ArchiveDir, day); err != nil {
				s.logger.Error("Skipping purge for unarchivable day",
					"day", day.Format("2006-01-02"), "error", err)
				continue
			}
		}
		deleted, err := s.store.DeleteMessagesOnDay(ctx, day)
		if err != nil {
			return err
		}
		purged += deleted
	}

	s.logger.Info("Retention purge finished",
		"days", len(days),
		"messages_purged", purged,
		"cutoff", cutoff.Format("2006-01-02"))
	return nil
}
