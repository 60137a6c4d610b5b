package forecast

// Ensemble weights. No single extrapolation method is reliable alone on
// noisy social-activity data; blending reduces the variance contributed
// by any one method's failure mode.
const (
	weightLinear   = 0.4
	weightMomentum = 0.3
	weightSeasonal = 0.3
)

// EnsemblePredictor blends the linear, momentum and seasonal predictors
// with fixed weights.
type EnsemblePredictor struct {
	linear   *LinearPredictor
	momentum *MomentumPredictor
	seasonal *SeasonalPredictor
}

// NewEnsemblePredictor creates a new weighted-blend predictor.
func NewEnsemblePredictor() *EnsemblePredictor {
	return &EnsemblePredictor{
		linear:   NewLinearPredictor(),
		momentum: NewMomentumPredictor(),
		seasonal: NewSeasonalPredictor(),
	}
}

func init() {
	Register("ensemble", NewEnsemblePredictor())
}

// Name returns the algorithm name.
func (p *EnsemblePredictor) Name() string {
	return "ensemble"
}

// Predict runs the three component predictors independently over the same
// input and combines their forecasts per day.
func (p *EnsemblePredictor) Predict(values []float64, cfg Config) []float64 {
	sequences := [][]float64{
		p.linear.Predict(values, cfg),
		p.momentum.Predict(values, cfg),
		p.seasonal.Predict(values, cfg),
	}
	return Combine(sequences, cfg.Horizon)
}

// Fit blends the components' deterministic in-sample fits.
func (p *EnsemblePredictor) Fit(values []float64, cfg Config) []float64 {
	sequences := [][]float64{
		p.linear.Fit(values, cfg),
		p.momentum.Fit(values, cfg),
		p.seasonal.Fit(values, cfg),
	}
	return Combine(sequences, len(values))
}

// Combine merges up to three prediction sequences into one of length h
// using the fixed ensemble weights. When a sequence is missing or shorter
// than h, its weight is redistributed proportionally among the sequences
// that do cover that index.
func Combine(sequences [][]float64, h int) []float64 {
	weights := []float64{weightLinear, weightMomentum, weightSeasonal}

	combined := make([]float64, h)
	for i := 0; i < h; i++ {
		weightedSum := 0.0
		totalWeight := 0.0
		for j, seq := range sequences {
			if i >= len(seq) {
				continue
			}
			w := 1.0 / float64(len(sequences))
			if j < len(weights) {
				w = weights[j]
			}
			weightedSum += seq[i] * w
			totalWeight += w
		}
		if totalWeight > 0 {
			combined[i] = weightedSum / totalWeight
		}
	}
	return combined
}
