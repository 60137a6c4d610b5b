package services

import (
	"context"
	"fmt"

	"github.com/chatpulse/chatpulse/internal/analytics/anomaly"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/models"
)

// Lookback bounds for anomaly detection, in days.
const (
	MinAnomalyLookbackDays     = 7
	MaxAnomalyLookbackDays     = 90
	DefaultAnomalyLookbackDays = 30
)

// AnomalyService flags days whose message volume deviates sharply from
// the group's norm.
type AnomalyService struct {
	logger *logging.Logger
	source SeriesSource
}

// NewAnomalyService creates a new AnomalyService.
func NewAnomalyService(logger *logging.Logger, source SeriesSource) *AnomalyService {
	return &AnomalyService{logger: logger, source: source}
}

// DetectAnomalies scans the trailing lookback window of daily message
// counts. A zero lookback uses the default window.
func (s *AnomalyService) DetectAnomalies(ctx context.Context, groupID string, lookbackDays int) (*models.AnomalyReport, error) {
	if lookbackDays == 0 {
		lookbackDays = DefaultAnomalyLookbackDays
	}
	if lookbackDays < MinAnomalyLookbackDays || lookbackDays > MaxAnomalyLookbackDays {
		return nil, &ServiceError{
			Code:    CodeInvalidLookback,
			Message: fmt.Sprintf("lookback must be between %d and %d days", MinAnomalyLookbackDays, MaxAnomalyLookbackDays),
			Details: map[string]interface{}{"lookback_days": lookbackDays},
		}
	}

	series, err := s.source.DailyMessageCounts(ctx, groupID, lookbackDays)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeQueryFailed,
			Message: "Failed to load historical data",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	if series.Len() == 0 {
		return nil, &ServiceError{
			Code:    CodeGroupNotFound,
			Message: fmt.Sprintf("no activity recorded for group %s", groupID),
		}
	}

	report := anomaly.Detect(series)

	points := make([]models.AnomalyPoint, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		points = append(points, models.AnomalyPoint{
			Date:      a.Date.Format("2006-01-02"),
			Value:     a.Value,
			Deviation: a.Deviation,
			Kind:      string(a.Kind),
		})
	}

	s.logger.Info("Anomaly scan finished",
		"group_id", groupID,
		"lookback_days", lookbackDays,
		"days_scanned", series.Len(),
		"anomalies", len(points))

	return &models.AnomalyReport{
		GroupID:        groupID,
		LookbackDays:   lookbackDays,
		Mean:           report.Mean,
		StdDev:         report.StdDev,
		Threshold:      report.Threshold,
		TotalAnomalies: len(points),
		Anomalies:      points,
	}, nil
}
