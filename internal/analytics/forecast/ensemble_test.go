package forecast

import (
	"testing"
)

func TestCombine_ExactWeights(t *testing.T) {
	linear := []float64{10, 20, 30}
	momentum := []float64{40, 50, 60}
	seasonal := []float64{70, 80, 90}

	combined := Combine([][]float64{linear, momentum, seasonal}, 3)

	for i := range combined {
		want := 0.4*linear[i] + 0.3*momentum[i] + 0.3*seasonal[i]
		assertClose(t, want, combined[i], 1e-12)
	}
}

func TestCombine_RedistributesMissingWeight(t *testing.T) {
	linear := []float64{10, 20, 30}
	momentum := []float64{40, 50} // one day short
	seasonal := []float64{70, 80, 90}

	combined := Combine([][]float64{linear, momentum, seasonal}, 3)

	// Index 2 has only linear and seasonal available; their weights are
	// renormalized to 0.4/0.7 and 0.3/0.7.
	want := (0.4*30 + 0.3*90) / 0.7
	assertClose(t, want, combined[2], 1e-12)
}

func TestCombine_EmptyInput(t *testing.T) {
	combined := Combine(nil, 4)

	if len(combined) != 4 {
		t.Fatalf("expected length 4, got %d", len(combined))
	}
	for i, v := range combined {
		if v != 0 {
			t.Errorf("index %d: expected 0, got %v", i, v)
		}
	}
}

func TestEnsemblePredictor_LengthAndNonNegativity(t *testing.T) {
	values := []float64{12, 30, 25, 40, 8, 15, 33, 27, 41, 19, 22, 36, 29, 14}

	predictions := NewEnsemblePredictor().Predict(values, Config{Horizon: 14})

	if len(predictions) != 14 {
		t.Fatalf("expected 14 predictions, got %d", len(predictions))
	}
	assertNonNegative(t, predictions)
}

func TestEnsemblePredictor_MatchesComponentBlend(t *testing.T) {
	// nil Rand keeps the momentum component deterministic, so the blend
	// can be checked exactly against the components.
	values := linearSeries(14, 2.0, 10.0)
	cfg := Config{Horizon: 5}

	linear := NewLinearPredictor().Predict(values, cfg)
	momentum := NewMomentumPredictor().Predict(values, cfg)
	seasonal := NewSeasonalPredictor().Predict(values, cfg)

	combined := NewEnsemblePredictor().Predict(values, cfg)

	for i := range combined {
		want := 0.4*linear[i] + 0.3*momentum[i] + 0.3*seasonal[i]
		assertClose(t, want, combined[i], 1e-9)
	}
}

func TestEnsemblePredictor_FitLength(t *testing.T) {
	values := linearSeries(21, 1.0, 5.0)

	fitted := NewEnsemblePredictor().Fit(values, Config{})

	if len(fitted) != len(values) {
		t.Fatalf("expected %d fitted values, got %d", len(values), len(fitted))
	}
}

func TestRegistry_AllPredictorsRegistered(t *testing.T) {
	for _, name := range []string{"linear", "momentum", "seasonal", "ensemble"} {
		p, err := Get(name)
		if err != nil {
			t.Errorf("predictor %q not registered: %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("predictor %q reports name %q", name, p.Name())
		}
	}

	if _, err := Get("arima"); err == nil {
		t.Error("expected error for unregistered predictor")
	}
}
