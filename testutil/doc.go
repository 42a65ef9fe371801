// Package testutil provides testing utilities for poedata.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating synthetic drop observations from known
// true weights and for measuring how well an estimator recovers them.
//
// # Synthetic Observations
//
//	rng := testutil.NewRNG(seed)
//	weights := testutil.UniformWeights([]string{"a", "b", "c"})
//	record := testutil.GenerateRecord(rng, weights, 10000)
//
// # Recovery Verification
//
//	tv := testutil.TotalVariation(estimated, trueWeights)
package testutil
