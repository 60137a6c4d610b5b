package forecast

import (
	"github.com/chatpulse/chatpulse/internal/analytics"
)

// MomentumPredictor extrapolates from the slope between the early-window
// and recent-window averages. It captures short-horizon momentum shifts
// that a single global regression smooths away. Forward projections carry
// Gaussian jitter proportional to the series spread, reflecting forecast
// uncertainty rather than false precision.
type MomentumPredictor struct{}

// NewMomentumPredictor creates a new momentum predictor.
func NewMomentumPredictor() *MomentumPredictor {
	return &MomentumPredictor{}
}

func init() {
	Register("momentum", NewMomentumPredictor())
}

// Name returns the algorithm name.
func (p *MomentumPredictor) Name() string {
	return "momentum"
}

// Predict walks forward from the last observation adding the window slope
// per step plus jitter with sigma = 0.1 * std(values).
func (p *MomentumPredictor) Predict(values []float64, cfg Config) []float64 {
	n := len(values)
	if n < 3 {
		return NewLinearPredictor().Predict(values, cfg)
	}

	slope := windowSlope(values)
	sigma := 0.1 * analytics.StdDev(values)
	last := values[n-1]

	predictions := make([]float64, cfg.Horizon)
	for i := 0; i < cfg.Horizon; i++ {
		projected := last + slope*float64(i+1)
		if cfg.Rand != nil {
			projected += cfg.Rand.NormFloat64() * sigma
		}
		predictions[i] = clampNonNegative(projected)
	}
	return predictions
}

// Fit returns the deterministic one-step walk over the history: each day
// is the previous observation plus the window slope. No noise is added so
// that confidence scoring is reproducible.
func (p *MomentumPredictor) Fit(values []float64, cfg Config) []float64 {
	n := len(values)
	fitted := make([]float64, n)
	if n == 0 {
		return fitted
	}
	if n < 3 {
		return NewLinearPredictor().Fit(values, cfg)
	}

	slope := windowSlope(values)
	fitted[0] = values[0]
	for i := 1; i < n; i++ {
		fitted[i] = values[i-1] + slope
	}
	return fitted
}

// windowSlope computes the per-day slope between the averages of the
// first and last windows, each of size min(7, n/2).
func windowSlope(values []float64) float64 {
	n := len(values)
	window := n / 2
	if window > 7 {
		window = 7
	}
	if window < 1 {
		window = 1
	}

	earlyAvg := analytics.Mean(values[:window])
	recentAvg := analytics.Mean(values[n-window:])
	return (recentAvg - earlyAvg) / float64(window)
}
