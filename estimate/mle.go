package estimate

import (
	"fmt"

	"github.com/weo-soft/poeData-sub000/dataset"
)

// MLEOptions configures the maximum-likelihood estimator.
type MLEOptions struct {
	// Epsilon is the additive smoothing constant applied to every item's
	// count before normalizing. It keeps never-observed items strictly
	// positive: unobserved is evidence of rarity, not impossibility.
	// Must be > 0.
	Epsilon float64
}

// DefaultMLEOptions returns the default estimator configuration.
func DefaultMLEOptions() MLEOptions {
	return MLEOptions{Epsilon: 1.0}
}

// MLE computes the smoothed maximum-likelihood weight of every item observed
// by at least one record:
//
//	weight_i = (count_i + ε) / Σ_j (count_j + ε)
//
// where counts are summed across all records and j ranges over the union of
// the record populations. Items absent from every population are excluded
// from the universe and the denominator.
//
// Returns ErrInsufficientData when no records are supplied. Pure and
// deterministic, O(items × datasets).
func MLE(records []dataset.Record, optFns ...func(*MLEOptions)) (WeightMap, error) {
	opts := DefaultMLEOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Epsilon <= 0 {
		return nil, fmt.Errorf("%w: epsilon must be > 0, got %v", ErrInvalidOptions, opts.Epsilon)
	}

	universe := dataset.Universe(records)
	if len(universe) == 0 {
		return nil, ErrInsufficientData
	}

	counts, total := dataset.CombinedCounts(records, universe)
	denom := float64(total) + opts.Epsilon*float64(len(universe))

	weights := make(WeightMap, len(universe))
	for i, id := range universe {
		weights[id] = (float64(counts[i]) + opts.Epsilon) / denom
	}
	return weights, nil
}
