package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chatpulse/chatpulse/internal/analytics"
	"github.com/chatpulse/chatpulse/internal/analytics/forecast"
	"github.com/chatpulse/chatpulse/internal/cache"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/models"
)

// SeriesSource supplies the daily series predictions are built from.
// Implemented by the storage layer.
type SeriesSource interface {
	DailyMessageCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error)
	DailyActiveUserCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error)
	DailyNewTopicCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error)
}

// PredictionService runs the forecast pipeline for a group and target.
type PredictionService struct {
	logger *logging.Logger
	source SeriesSource
	cache  *cache.ResultCache
	seed   int64
}

// NewPredictionService creates a new PredictionService. A zero seed
// draws noise seeds from the clock; a fixed seed makes momentum noise
// reproducible. The cache may be nil.
func NewPredictionService(logger *logging.Logger, source SeriesSource, resultCache *cache.ResultCache, seed int64) *PredictionService {
	return &PredictionService{
		logger: logger,
		source: source,
		cache:  resultCache,
		seed:   seed,
	}
}

// targetSpec binds a prediction target to its predictor and data source.
type targetSpec struct {
	predictor string
	fetch     func(ctx context.Context, s SeriesSource, groupID string, lookbackDays int) (analytics.Series, error)
	lookback  func(horizonDays int) int
}

var targetSpecs = map[string]targetSpec{
	models.TargetActivity: {
		predictor: "ensemble",
		fetch: func(ctx context.Context, s SeriesSource, groupID string, lookbackDays int) (analytics.Series, error) {
			return s.DailyMessageCounts(ctx, groupID, lookbackDays)
		},
		// Enough history to fit, at least double the horizon.
		lookback: func(horizonDays int) int {
			if 2*horizonDays > 30 {
				return 2 * horizonDays
			}
			return 30
		},
	},
	models.TargetMembers: {
		predictor: "linear",
		fetch: func(ctx context.Context, s SeriesSource, groupID string, lookbackDays int) (analytics.Series, error) {
			return s.DailyActiveUserCounts(ctx, groupID, lookbackDays)
		},
		lookback: func(int) int { return 30 },
	},
	models.TargetTopics: {
		predictor: "seasonal",
		fetch: func(ctx context.Context, s SeriesSource, groupID string, lookbackDays int) (analytics.Series, error) {
			return s.DailyNewTopicCounts(ctx, groupID, lookbackDays)
		},
		lookback: func(int) int { return 30 },
	},
}

// Predict validates the request, assembles the historical series and
// runs the target's predictor over it.
func (s *PredictionService) Predict(ctx context.Context, req *models.PredictionRequest) (*models.PredictionResult, error) {
	if !models.ValidHorizon(req.HorizonDays) {
		return nil, &ServiceError{
			Code:    CodeInvalidHorizon,
			Message: fmt.Sprintf("horizon must be between %d and %d days", models.MinHorizonDays, models.MaxHorizonDays),
			Details: map[string]interface{}{"horizon_days": req.HorizonDays},
		}
	}

	spec, ok := targetSpecs[req.Target]
	if !ok {
		return nil, &ServiceError{
			Code:    CodeUnsupportedTarget,
			Message: fmt.Sprintf("unsupported prediction target: %s", req.Target),
			Details: map[string]interface{}{
				"supported_targets": []string{models.TargetActivity, models.TargetMembers, models.TargetTopics},
			},
		}
	}

	if cached, err := s.cache.GetPrediction(ctx, req.GroupID, req.Target, req.HorizonDays); err != nil {
		s.logger.Warn("Prediction cache lookup failed", "error", err)
	} else if cached != nil {
		s.logger.Debug("Prediction cache hit",
			"group_id", req.GroupID, "target", req.Target, "horizon_days", req.HorizonDays)
		return cached, nil
	}

	lookback := spec.lookback(req.HorizonDays)
	series, err := spec.fetch(ctx, s.source, req.GroupID, lookback)
	if err != nil {
		return nil, &ServiceError{
			Code:    CodeQueryFailed,
			Message: "Failed to load historical data",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	values, err := analytics.Prepare(series)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			return nil, &ServiceError{
				Code:    CodeInsufficientData,
				Message: fmt.Sprintf("at least %d days of data are required", analytics.MinDataPoints),
				Details: map[string]interface{}{
					"available_days": series.Len(),
					"required_days":  analytics.MinDataPoints,
				},
			}
		}
		return nil, &ServiceError{Code: CodeQueryFailed, Message: err.Error()}
	}

	predictor, err := forecast.Get(spec.predictor)
	if err != nil {
		// Registry is populated at init; a miss is a programming error.
		return nil, &ServiceError{Code: CodeQueryFailed, Message: err.Error()}
	}

	cfg := forecast.Config{
		Horizon: req.HorizonDays,
		Rand:    s.newRand(),
	}
	predictions := predictor.Predict(values, cfg)
	fitted := predictor.Fit(values, cfg)
	confidence := forecast.Confidence(values, fitted)

	direction := forecast.ClassifyTrend(values, predictions)
	changePercent := forecast.ChangeRate(values, predictions) * 100

	result := &models.PredictionResult{
		GroupID:        req.GroupID,
		Target:         req.Target,
		HorizonDays:    req.HorizonDays,
		Predictions:    predictions,
		Confidence:     confidence,
		TrendDirection: string(direction),
		ChangePercent:  changePercent,
		Description:    describePrediction(req.Target, req.HorizonDays, values, predictions, confidence, direction, changePercent),
	}

	if err := s.cache.SetPrediction(ctx, result); err != nil {
		s.logger.Warn("Prediction cache store failed", "error", err)
	}

	s.logger.Info("Prediction computed",
		"group_id", req.GroupID,
		"target", req.Target,
		"horizon_days", req.HorizonDays,
		"predictor", spec.predictor,
		"history_days", len(values),
		"confidence", confidence,
		"trend", string(direction))
	return result, nil
}

// newRand builds the per-call noise source. Each call gets its own so
// concurrent predictions never share generator state.
func (s *PredictionService) newRand() *rand.Rand {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
