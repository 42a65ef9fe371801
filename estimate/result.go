package estimate

import "errors"

var (
	// ErrInsufficientData is returned when no datasets are supplied or the
	// combined item population is empty. It is fatal: callers must surface
	// it, never retry it, and never substitute a cached result for it.
	ErrInsufficientData = errors.New("estimate: insufficient data to estimate weights")

	// ErrInvalidOptions is returned when estimator options fail validation.
	ErrInvalidOptions = errors.New("estimate: invalid options")
)

// WeightMap maps item id to its estimated relative drop probability.
// Weights lie in [0,1] and sum to 1 across the item universe.
type WeightMap map[string]float64

// Sum returns the total of all weights. For a well-formed map this is 1
// within floating-point tolerance.
func (w WeightMap) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Clone returns a copy of the map.
func (w WeightMap) Clone() WeightMap {
	out := make(WeightMap, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// SummaryStats are the per-item posterior summary: mean, median, and the
// bounds of the configured credible interval.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	CILow  float64 `json:"ciLow"`
	CIHigh float64 `json:"ciHigh"`
}

// Diagnostics are category-level data-adequacy checks.
//
// These are not MCMC convergence diagnostics: draws are exact i.i.d. samples
// from the closed-form posterior, so EffectiveSamples simply equals the draw
// count. Adequate flags whether the total observation count clears the
// configured threshold.
type Diagnostics struct {
	Adequate          bool   `json:"adequate"`
	EffectiveSamples  int    `json:"effectiveSamples"`
	TotalObservations uint64 `json:"totalObservations"`
}

// BayesianResult is the full output of the Bayesian estimator.
//
// ModelAssumptions is a fixed description of the prior and independence
// assumptions baked into the model. Consumers should compare it across loads
// to detect that a stored result was produced by a different model.
type BayesianResult struct {
	Weights          WeightMap               `json:"weights"`
	PosteriorSamples map[string][]float64    `json:"posteriorSamples,omitempty"`
	Summary          map[string]SummaryStats `json:"summaryStatistics"`
	Diagnostics      Diagnostics             `json:"convergenceDiagnostics"`
	ModelAssumptions string                  `json:"modelAssumptions"`
}
