package forecast

import (
	"math"
	"testing"
)

// linearSeries generates values following y = slope*x + intercept.
func linearSeries(n int, slope, intercept float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = slope*float64(i) + intercept
	}
	return values
}

// periodicSeries repeats the given weekly profile across n values.
func periodicSeries(n int, profile []float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = profile[i%len(profile)]
	}
	return values
}

func assertNonNegative(t *testing.T, predictions []float64) {
	t.Helper()
	for i, v := range predictions {
		if v < 0 {
			t.Errorf("prediction %d is negative: %v", i, v)
		}
	}
}

func assertClose(t *testing.T, want, got, tolerance float64) {
	t.Helper()
	if math.Abs(want-got) > tolerance {
		t.Errorf("expected %v, got %v (tolerance %v)", want, got, tolerance)
	}
}
