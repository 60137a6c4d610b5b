// Package anomaly flags days whose counts deviate sharply from the rest
// of the series. Detection is best-effort: it never refuses, it just
// reports whatever the statistics support.
package anomaly

import (
	"time"

	"github.com/chatpulse/chatpulse/internal/analytics"
)

// Kind classifies which side of the mean an anomalous day falls on.
type Kind string

const (
	KindHigh Kind = "high"
	KindLow  Kind = "low"
)

// sigmaMultiplier sets the detection threshold at 2 standard deviations.
const sigmaMultiplier = 2.0

// Anomaly is a single flagged day.
type Anomaly struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Deviation float64   `json:"deviation"`
	Kind      Kind      `json:"kind"`
}

// Report summarizes one detection pass over a series. It is computed
// fresh per call and never persisted.
type Report struct {
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	Threshold float64   `json:"threshold"`
	Anomalies []Anomaly `json:"anomalies"`
}

// Detect runs the 2-sigma rule over a dated series: any day whose value
// deviates from the series mean by more than twice the population
// standard deviation is flagged, high or low by side. A constant series
// has zero deviation and produces an empty report rather than an error.
func Detect(series analytics.Series) *Report {
	mean := series.Mean()
	stdDev := series.StdDev()
	threshold := sigmaMultiplier * stdDev

	report := &Report{
		Mean:      mean,
		StdDev:    stdDev,
		Threshold: threshold,
	}
	if threshold == 0 {
		return report
	}

	for _, p := range series {
		deviation := p.Value - mean
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation <= threshold {
			continue
		}

		kind := KindLow
		if p.Value > mean {
			kind = KindHigh
		}
		report.Anomalies = append(report.Anomalies, Anomaly{
			Date:      p.Date,
			Value:     p.Value,
			Deviation: deviation,
			Kind:      kind,
		})
	}
	return report
}
