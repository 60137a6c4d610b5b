package anomaly

import (
	"math"
	"testing"
	"time"

	"github.com/chatpulse/chatpulse/internal/analytics"
)

func daySeries(values ...float64) analytics.Series {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := make(analytics.Series, len(values))
	for i, v := range values {
		series[i] = analytics.Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	return series
}

func TestDetect_SingleSpike(t *testing.T) {
	series := daySeries(10, 10, 10, 10, 10, 10, 100)

	report := Detect(series)

	// mean = 160/7, population std over the literal input.
	wantMean := 160.0 / 7.0
	sumSq := 0.0
	for _, p := range series {
		d := p.Value - wantMean
		sumSq += d * d
	}
	wantStd := math.Sqrt(sumSq / 7.0)

	if math.Abs(report.Mean-wantMean) > 1e-9 {
		t.Errorf("mean: expected %v, got %v", wantMean, report.Mean)
	}
	if math.Abs(report.StdDev-wantStd) > 1e-9 {
		t.Errorf("std dev: expected %v, got %v", wantStd, report.StdDev)
	}
	if math.Abs(report.Threshold-2*wantStd) > 1e-9 {
		t.Errorf("threshold: expected %v, got %v", 2*wantStd, report.Threshold)
	}

	if len(report.Anomalies) != 1 {
		t.Fatalf("expected exactly 1 anomaly, got %d", len(report.Anomalies))
	}
	a := report.Anomalies[0]
	if a.Value != 100 {
		t.Errorf("expected the 100-valued day flagged, got %v", a.Value)
	}
	if a.Kind != KindHigh {
		t.Errorf("expected high anomaly, got %s", a.Kind)
	}
	if math.Abs(a.Deviation-(100-wantMean)) > 1e-9 {
		t.Errorf("deviation: expected %v, got %v", 100-wantMean, a.Deviation)
	}
	if !a.Date.Equal(series[6].Date) {
		t.Errorf("anomaly date mismatch: %v", a.Date)
	}
}

func TestDetect_LowAnomaly(t *testing.T) {
	series := daySeries(100, 100, 100, 100, 100, 100, 0)

	report := Detect(series)

	if len(report.Anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(report.Anomalies))
	}
	if report.Anomalies[0].Kind != KindLow {
		t.Errorf("expected low anomaly, got %s", report.Anomalies[0].Kind)
	}
}

func TestDetect_ConstantSeriesHasNoAnomalies(t *testing.T) {
	report := Detect(daySeries(5, 5, 5, 5, 5))

	if report.StdDev != 0 {
		t.Errorf("expected zero std dev, got %v", report.StdDev)
	}
	if len(report.Anomalies) != 0 {
		t.Errorf("constant series must produce no anomalies, got %d", len(report.Anomalies))
	}
}

func TestDetect_SinglePointIsBestEffort(t *testing.T) {
	report := Detect(daySeries(42))

	if report == nil {
		t.Fatal("detection must not refuse a single-point series")
	}
	if report.Mean != 42 {
		t.Errorf("expected mean 42, got %v", report.Mean)
	}
	if len(report.Anomalies) != 0 {
		t.Errorf("expected no anomalies, got %d", len(report.Anomalies))
	}
}

func TestDetect_PreservesDateOrder(t *testing.T) {
	values := make([]float64, 22)
	for i := range values {
		values[i] = 10
	}
	values[3] = 300
	values[15] = 280
	series := daySeries(values...)

	report := Detect(series)

	if len(report.Anomalies) != 2 {
		t.Fatalf("expected 2 anomalies, got %d", len(report.Anomalies))
	}
	for i := 1; i < len(report.Anomalies); i++ {
		if report.Anomalies[i].Date.Before(report.Anomalies[i-1].Date) {
			t.Error("anomalies must stay in series order")
		}
	}
}
