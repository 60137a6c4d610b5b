package forecast

import (
	"github.com/chatpulse/chatpulse/internal/analytics"
)

// Direction labels how a forecast compares to recent history.
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
	DirectionStable  Direction = "stable"
)

// trendThreshold is the relative change below which a forecast counts as
// stable, in either direction.
const trendThreshold = 0.1

// ClassifyTrend compares the forecast average against the recent-history
// average (last 7 days, or the whole series when shorter) and labels the
// movement. A zero recent average classifies as stable.
func ClassifyTrend(history, predictions []float64) Direction {
	rate := ChangeRate(history, predictions)
	switch {
	case rate > trendThreshold:
		return DirectionRising
	case rate < -trendThreshold:
		return DirectionFalling
	default:
		return DirectionStable
	}
}

// ChangeRate returns the relative change of the forecast average against
// the recent-history average, as a fraction (0.15 means +15%).
func ChangeRate(history, predictions []float64) float64 {
	recentAvg := RecentAverage(history)
	if recentAvg == 0 {
		return 0
	}
	return (analytics.Mean(predictions) - recentAvg) / recentAvg
}

// RecentAverage is the mean of the last 7 observations, or of the whole
// series when fewer are available.
func RecentAverage(history []float64) float64 {
	if len(history) > 7 {
		return analytics.Mean(history[len(history)-7:])
	}
	return analytics.Mean(history)
}
