package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chatpulse/chatpulse/internal/analytics"
	"github.com/chatpulse/chatpulse/internal/logging"
	"github.com/chatpulse/chatpulse/internal/models"
	"github.com/chatpulse/chatpulse/internal/services"
	"github.com/chatpulse/chatpulse/internal/storage"
)

// testSource serves a canned rising series for every target and a
// single group stat.
type testSource struct {
	series analytics.Series
	stat   *storage.GroupStat
}

func (s *testSource) DailyMessageCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	return s.series, nil
}

func (s *testSource) DailyActiveUserCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	return s.series, nil
}

func (s *testSource) DailyNewTopicCounts(ctx context.Context, groupID string, lookbackDays int) (analytics.Series, error) {
	return s.series, nil
}

func (s *testSource) GroupStats(ctx context.Context, groupID string) (*storage.GroupStat, error) {
	if s.stat != nil && s.stat.GroupID == groupID {
		return s.stat, nil
	}
	return nil, nil
}

func risingSeries(n int) analytics.Series {
	start := time.Now().UTC().AddDate(0, 0, -n)
	series := make(analytics.Series, 0, n)
	for i := 0; i < n; i++ {
		series = append(series, analytics.Point{Date: start.AddDate(0, 0, i), Value: float64(10 + 2*i)})
	}
	return series
}

func newTestApp(source *testSource) *fiber.App {
	logger := logging.NewDevelopment()
	handler := NewWithServices(logger,
		services.NewPredictionService(logger, source, nil, 42),
		services.NewAnomalyService(logger, source),
		services.NewStatsService(logger, source),
	)

	app := fiber.New()
	app.Get("/health", handler.Health)
	v1 := app.Group("/v1")
	v1.Get("/groups/:group_id/predict", handler.Predict)
	v1.Get("/groups/:group_id/anomalies", handler.Anomalies)
	v1.Get("/groups/:group_id/stats", handler.GroupStats)
	app.Use(handler.NotFound)
	return app
}

func TestHandler_Health(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var healthResp models.HealthResponse
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", healthResp.Status)
	}
}

func TestHandler_Predict(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/predict?target=activity&horizon=7", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result models.PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if result.GroupID != "g1" {
		t.Errorf("Expected group_id 'g1', got '%s'", result.GroupID)
	}
	if len(result.Predictions) != 7 {
		t.Errorf("Expected 7 predictions, got %d", len(result.Predictions))
	}
	if result.TrendDirection != "rising" {
		t.Errorf("Expected rising trend, got '%s'", result.TrendDirection)
	}
}

func TestHandler_PredictDefaults(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	// No target or horizon: defaults to activity over 7 days.
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/predict", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result models.PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if result.Target != models.TargetActivity {
		t.Errorf("Expected default target activity, got '%s'", result.Target)
	}
	if result.HorizonDays != 7 {
		t.Errorf("Expected default horizon 7, got %d", result.HorizonDays)
	}
}

func TestHandler_PredictBadRequests(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	tests := []struct {
		name string
		url  string
		code string
	}{
		{"non-numeric horizon", "/v1/groups/g1/predict?horizon=soon", "INVALID_REQUEST"},
		{"horizon too large", "/v1/groups/g1/predict?horizon=90", services.CodeInvalidHorizon},
		{"horizon zero", "/v1/groups/g1/predict?horizon=0", services.CodeInvalidHorizon},
		{"unknown target", "/v1/groups/g1/predict?target=sentiment", services.CodeUnsupportedTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil), -1)
			if err != nil {
				t.Fatalf("Failed to perform request: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			var errResp models.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if errResp.Error.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, errResp.Error.Code)
			}
		})
	}
}

func TestHandler_PredictInsufficientData(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(3)})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/predict", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("Expected status %d, got %d", fiber.StatusUnprocessableEntity, resp.StatusCode)
	}
}

func TestHandler_Anomalies(t *testing.T) {
	series := make(analytics.Series, 0, 21)
	start := time.Now().UTC().AddDate(0, 0, -21)
	for i := 0; i < 21; i++ {
		v := 10.0
		if i == 12 {
			v = 300
		}
		series = append(series, analytics.Point{Date: start.AddDate(0, 0, i), Value: v})
	}
	app := newTestApp(&testSource{series: series})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/anomalies?days=30", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var report models.AnomalyReport
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if report.TotalAnomalies != 1 {
		t.Errorf("Expected 1 anomaly, got %d", report.TotalAnomalies)
	}
	if report.Anomalies[0].Kind != "high" {
		t.Errorf("Expected high anomaly, got %s", report.Anomalies[0].Kind)
	}
}

func TestHandler_AnomaliesInvalidDays(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/anomalies?days=365", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandler_GroupStats(t *testing.T) {
	app := newTestApp(&testSource{
		series: risingSeries(30),
		stat: &storage.GroupStat{
			GroupID:       "g1",
			TotalMessages: 500,
			TotalMembers:  25,
			PeakHour:      20,
			UpdatedAt:     time.Now().UTC(),
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/g1/stats", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var stats models.GroupStatsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if stats.TotalMessages != 500 {
		t.Errorf("Expected 500 messages, got %d", stats.TotalMessages)
	}
}

func TestHandler_GroupStatsNotFound(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/groups/ghost/stats", nil), -1)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}
}

func TestHandler_NotFoundRoute(t *testing.T) {
	app := newTestApp(&testSource{series: risingSeries(30)})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/nope", nil))
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if errResp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %s", errResp.Error.Code)
	}
}
