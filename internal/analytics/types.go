// Package analytics provides the shared series types used by the
// forecasting and anomaly-detection packages.
package analytics

import (
	"errors"
	"math"
	"time"
)

// MinDataPoints is the minimum number of daily observations required
// before any prediction is attempted.
const MinDataPoints = 7

// ErrInsufficientData is returned when a series is too short to model.
var ErrInsufficientData = errors.New("insufficient data points")

// Point is a single daily observation: a calendar day and its count.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered sequence of daily observations, ascending by date.
// Days without data are simply absent; they are never zero-filled.
type Series []Point

// Values extracts just the values from the series.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Dates extracts just the dates from the series.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s)
}

// Mean calculates the mean of all values.
func (s Series) Mean() float64 {
	return Mean(s.Values())
}

// StdDev calculates the population standard deviation of all values.
func (s Series) StdDev() float64 {
	return StdDev(s.Values())
}

// Prepare validates a series and returns its plain value sequence.
// It returns ErrInsufficientData when fewer than MinDataPoints
// observations are available. The series itself is never modified.
func Prepare(s Series) ([]float64, error) {
	if len(s) < MinDataPoints {
		return nil, ErrInsufficientData
	}
	return s.Values(), nil
}

// Mean calculates the mean of a value slice. Empty input yields 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev calculates the population standard deviation of a value slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
