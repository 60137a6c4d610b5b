package forecast

import (
	"math"

	"github.com/chatpulse/chatpulse/internal/analytics"
)

// neutralConfidence is returned when fit quality cannot be measured.
// Confidence is advisory, never a hard gate, so degenerate inputs yield
// a middle-of-the-road score instead of an error.
const neutralConfidence = 0.5

// Confidence scores how well a predictor's in-sample fit tracks the
// observed history, on a 0..1 scale. The score blends the coefficient of
// determination with the complement of the mean relative error:
//
//	confidence = clamp((R2 + (1 - MAPE)) / 2, 0, 1)
//
// This is a deliberate heuristic kept for behavioral compatibility with
// the rest of the analytics pipeline; it is not a statistical confidence
// interval and must not be replaced with one.
func Confidence(actual, fitted []float64) float64 {
	if len(actual) != len(fitted) || len(actual) < 2 {
		return neutralConfidence
	}

	r2 := rSquared(actual, fitted)
	mape := meanRelativeError(actual, fitted)

	confidence := (r2 + (1 - mape)) / 2
	return math.Max(0, math.Min(1, confidence))
}

// rSquared computes the coefficient of determination of fitted against
// actual. A zero-variance actual series yields 0.
func rSquared(actual, fitted []float64) float64 {
	mean := analytics.Mean(actual)

	ssRes := 0.0
	ssTot := 0.0
	for i := range actual {
		res := actual[i] - fitted[i]
		tot := actual[i] - mean
		ssRes += res * res
		ssTot += tot * tot
	}

	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// meanRelativeError computes MAPE with the denominator floored at 1 so
// that zero-count days do not blow up the error.
func meanRelativeError(actual, fitted []float64) float64 {
	sum := 0.0
	for i := range actual {
		denom := math.Max(actual[i], 1)
		sum += math.Abs(actual[i]-fitted[i]) / denom
	}
	return sum / float64(len(actual))
}
