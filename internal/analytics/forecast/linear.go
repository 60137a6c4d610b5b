package forecast

// LinearPredictor extrapolates a series with an ordinary least-squares
// line fitted over the whole history.
type LinearPredictor struct{}

// NewLinearPredictor creates a new least-squares predictor.
func NewLinearPredictor() *LinearPredictor {
	return &LinearPredictor{}
}

func init() {
	Register("linear", NewLinearPredictor())
}

// Name returns the algorithm name.
func (p *LinearPredictor) Name() string {
	return "linear"
}

// Predict projects the fitted line h days past the end of the series.
func (p *LinearPredictor) Predict(values []float64, cfg Config) []float64 {
	n := len(values)
	if n < 2 {
		if n == 0 {
			return repeat(0, cfg.Horizon)
		}
		return repeat(clampNonNegative(values[0]), cfg.Horizon)
	}

	slope, intercept := leastSquares(values)

	predictions := make([]float64, cfg.Horizon)
	for i := 0; i < cfg.Horizon; i++ {
		x := float64(n + i)
		predictions[i] = clampNonNegative(intercept + slope*x)
	}
	return predictions
}

// Fit returns the fitted regression line over the historical span.
func (p *LinearPredictor) Fit(values []float64, cfg Config) []float64 {
	n := len(values)
	fitted := make([]float64, n)
	if n < 2 {
		copy(fitted, values)
		return fitted
	}

	slope, intercept := leastSquares(values)
	for i := range fitted {
		fitted[i] = intercept + slope*float64(i)
	}
	return fitted
}

// leastSquares fits y = slope*x + intercept over x = 0..n-1.
func leastSquares(values []float64) (slope, intercept float64) {
	n := float64(len(values))

	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		// Cannot happen for n >= 2 with x = 0..n-1, but keep the guard.
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
