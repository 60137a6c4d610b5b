package forecast

import (
	"github.com/chatpulse/chatpulse/internal/analytics"
)

// seasonalPeriod is the cycle length in days. Chat activity follows a
// weekly rhythm, so the profile has one slot per weekday position.
const seasonalPeriod = 7

// SeasonalPredictor projects a weekly cyclical profile forward, scaled by
// the overall trend between the first and last weeks of the history.
type SeasonalPredictor struct{}

// NewSeasonalPredictor creates a new weekly-cycle predictor.
func NewSeasonalPredictor() *SeasonalPredictor {
	return &SeasonalPredictor{}
}

func init() {
	Register("seasonal", NewSeasonalPredictor())
}

// Name returns the algorithm name.
func (p *SeasonalPredictor) Name() string {
	return "seasonal"
}

// Predict repeats the weekly profile across the horizon, scaled by the
// trend factor.
func (p *SeasonalPredictor) Predict(values []float64, cfg Config) []float64 {
	n := len(values)
	if n < seasonalPeriod {
		return NewLinearPredictor().Predict(values, cfg)
	}

	profile := weeklyProfile(values)
	factor := trendFactor(values)

	predictions := make([]float64, cfg.Horizon)
	for i := 0; i < cfg.Horizon; i++ {
		predictions[i] = clampNonNegative(profile[i%seasonalPeriod] * factor)
	}
	return predictions
}

// Fit replays the scaled profile over the historical span.
func (p *SeasonalPredictor) Fit(values []float64, cfg Config) []float64 {
	n := len(values)
	if n < seasonalPeriod {
		return NewLinearPredictor().Fit(values, cfg)
	}

	profile := weeklyProfile(values)
	factor := trendFactor(values)

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = profile[i%seasonalPeriod] * factor
	}
	return fitted
}

// weeklyProfile averages every 7th value for each of the 7 slot positions.
func weeklyProfile(values []float64) [seasonalPeriod]float64 {
	var profile [seasonalPeriod]float64
	for slot := 0; slot < seasonalPeriod; slot++ {
		sum := 0.0
		count := 0
		for i := slot; i < len(values); i += seasonalPeriod {
			sum += values[i]
			count++
		}
		if count > 0 {
			profile[slot] = sum / float64(count)
		}
	}
	return profile
}

// trendFactor is the ratio of the last week's mean to the first week's
// mean. A zero first week yields a neutral factor of 1.
func trendFactor(values []float64) float64 {
	n := len(values)
	firstWeek := analytics.Mean(values[:seasonalPeriod])
	lastWeek := analytics.Mean(values[n-seasonalPeriod:])
	if firstWeek == 0 {
		return 1
	}
	return lastWeek / firstWeek
}
