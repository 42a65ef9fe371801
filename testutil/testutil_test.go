package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weo-soft/poeData-sub000/estimate"
)

func TestGenerateCountsDeterministic(t *testing.T) {
	weights := estimate.WeightMap{"a": 0.7, "b": 0.2, "c": 0.1}

	first := GenerateCounts(NewRNG(42), weights, 1000)
	second := GenerateCounts(NewRNG(42), weights, 1000)
	assert.Equal(t, first, second)

	var total uint64
	for _, c := range first {
		total += c
	}
	assert.Equal(t, uint64(1000), total)
}

func TestGenerateRecordMatchesWeights(t *testing.T) {
	weights := estimate.WeightMap{"common": 0.9, "rare": 0.1}
	record := GenerateRecord(NewRNG(7), weights, 100000)

	require.Equal(t, uint64(100000), record.Total())

	observed := estimate.WeightMap{
		"common": float64(record.Count("common")) / float64(record.Total()),
		"rare":   float64(record.Count("rare")) / float64(record.Total()),
	}
	assert.Less(t, TotalVariation(observed, weights), 0.01)
}

func TestRNGReset(t *testing.T) {
	rng := NewRNG(99)
	first := rng.Float64()
	rng.Float64()

	rng.Reset()
	assert.Equal(t, first, rng.Float64())
}

func TestTotalVariation(t *testing.T) {
	a := estimate.WeightMap{"x": 0.5, "y": 0.5}
	assert.Zero(t, TotalVariation(a, a))

	b := estimate.WeightMap{"x": 1.0}
	assert.InDelta(t, 0.5, TotalVariation(a, b), 1e-12)
}
