package forecast

import (
	"fmt"
	"math"
	"math/rand"
)

// Config holds configuration for a single prediction run.
type Config struct {
	// Horizon is the number of future days to forecast.
	Horizon int

	// Rand is the request-local noise source used by the momentum
	// predictor. Each prediction call owns its own source so that
	// concurrent calls never share RNG state and tests can fix a seed.
	// A nil Rand disables noise entirely.
	Rand *rand.Rand
}

// Predictor is implemented by all forecasting algorithms. Predictors are
// stateless: both methods are pure functions of their arguments (plus the
// optional noise source carried in Config).
type Predictor interface {
	// Name returns the algorithm name.
	Name() string

	// Predict extrapolates cfg.Horizon days beyond the end of values.
	// Every returned value is clamped to >= 0 since daily counts cannot
	// be negative. Degenerate inputs never fail; they fall back to a
	// simpler projection.
	Predict(values []float64, cfg Config) []float64

	// Fit re-runs the algorithm in-sample and returns its retrospective
	// fitted values over the historical span, one per input value. Fit is
	// always deterministic, even for predictors that add noise when
	// forecasting forward; confidence is scored against these values.
	Fit(values []float64, cfg Config) []float64
}

// Registry holds available predictors.
var predictorRegistry = make(map[string]Predictor)

// Register adds a predictor to the registry.
func Register(name string, p Predictor) {
	predictorRegistry[name] = p
}

// Get returns a predictor by name.
func Get(name string) (Predictor, error) {
	if p, ok := predictorRegistry[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown predictor: %s", name)
}

// List returns the names of all registered predictors.
func List() []string {
	names := make([]string, 0, len(predictorRegistry))
	for name := range predictorRegistry {
		names = append(names, name)
	}
	return names
}

// clampNonNegative floors a projected count at zero.
func clampNonNegative(v float64) float64 {
	return math.Max(0, v)
}

// repeat returns h copies of v.
func repeat(v float64, h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = v
	}
	return out
}
