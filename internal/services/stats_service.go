package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/models"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// StatsSource supplies the rolled-up group summaries. Implemented by
// the storage layer.
type StatsSource interface {
	GroupStats(ctx context.Context, groupID string) (*storage.GroupStat, error)
}

// StatsService serves the rolled-up per-group summaries.
type StatsService struct {
	logger *logging.Logger
	source StatsSource
}

// NewStatsService creates a new StatsService.
func NewStatsService(logger *logging.Logger, source StatsSource) *StatsService {
	return &StatsService{logger: logger, source: source}
}

// GroupStats returns the latest rollup for a group.
func (s *StatsService) GroupStats(ctx context.Context, groupID string) (*models.GroupStatsResponse, error) {
	stat, err := s.source.GroupStats(ctx, groupID)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeQueryFailed,
			Message: "Failed to load group stats",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	if stat == nil {
		return nil, &ServiceError{
			Code:    CodeGroupNotFound,
			Message: fmt.Sprintf("no stats recorded for group %s", groupID),
		}
	}

	return &models.GroupStatsResponse{
		GroupID:       stat.GroupID,
		TotalMessages: stat.TotalMessages,
		TotalMembers:  stat.TotalMembers,
		PeakHour:      stat.PeakHour,
		MostActiveDay: stat.MostActiveDay,
		UpdatedAt:     stat.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}
