package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weo-soft/poeData-sub000/dataset"
)

func TestMLE_SumsToOne(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"a": 100, "b": 10}),
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"c": 3}),
	}

	weights, err := MLE(records)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, weights.Sum(), 1e-12)
}

func TestMLE_NeverZero(t *testing.T) {
	// No observations anywhere; smoothing still gives every item weight > 0.
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, nil),
	}

	weights, err := MLE(records)
	require.NoError(t, err)
	require.Len(t, weights, 3)
	for id, w := range weights {
		assert.Greater(t, w, 0.0, "item %s", id)
	}
	assert.InDelta(t, 1.0, weights.Sum(), 1e-12)
}

func TestMLE_Monotonicity(t *testing.T) {
	base := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"a": 5, "b": 5, "c": 5}),
	}
	bumped := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"a": 6, "b": 5, "c": 5}),
	}

	before, err := MLE(base)
	require.NoError(t, err)
	after, err := MLE(bumped)
	require.NoError(t, err)

	// The bumped item gains weight; every other item loses weight.
	assert.Greater(t, after["a"], before["a"])
	assert.Less(t, after["b"], before["b"])
	assert.Less(t, after["c"], before["c"])
}

func TestMLE_TwoDatasetScenario(t *testing.T) {
	// Two datasets each reporting {a: 10, b: 0} over population {a, b}.
	// With epsilon=1: a = (20+1)/(20+2) = 21/22, b = (0+1)/(20+2) = 1/22.
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 10, "b": 0}),
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 10, "b": 0}),
	}

	weights, err := MLE(records)
	require.NoError(t, err)

	assert.InDelta(t, 21.0/22.0, weights["a"], 1e-12)
	assert.InDelta(t, 1.0/22.0, weights["b"], 1e-12)
	assert.InDelta(t, 1.0, weights.Sum(), 1e-12)
	assert.Greater(t, weights["b"], 0.0)
}

func TestMLE_SingleItem(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"only"}, map[string]uint64{"only": 7}),
	}

	weights, err := MLE(records)
	require.NoError(t, err)
	assert.Equal(t, WeightMap{"only": 1.0}, weights)
}

func TestMLE_UniverseExcludesUnlistedItems(t *testing.T) {
	// Item "c" is only in the second record's population; items outside
	// every population never enter the estimate.
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 1}),
		dataset.MustNew([]string{"b", "c"}, map[string]uint64{"c": 1}),
	}

	weights, err := MLE(records)
	require.NoError(t, err)
	assert.Len(t, weights, 3)
	assert.Contains(t, weights, "c")
	assert.NotContains(t, weights, "d")
}

func TestMLE_Errors(t *testing.T) {
	_, err := MLE(nil)
	require.ErrorIs(t, err, ErrInsufficientData)

	records := []dataset.Record{dataset.MustNew([]string{"a"}, nil)}
	_, err = MLE(records, func(o *MLEOptions) { o.Epsilon = 0 })
	require.ErrorIs(t, err, ErrInvalidOptions)

	_, err = MLE(records, func(o *MLEOptions) { o.Epsilon = -1 })
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestMLE_Deterministic(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 3, "b": 9}),
	}

	w1, err := MLE(records)
	require.NoError(t, err)
	w2, err := MLE(records)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
}
