package estimate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weo-soft/poeData-sub000/dataset"
)

func seededSource() rand.Source {
	return rand.NewPCG(11, 47)
}

func TestBayesian_Shape(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"a": 40, "b": 15, "c": 5}),
	}

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 500
		o.Source = seededSource()
	})
	require.NoError(t, err)

	assert.Len(t, res.Weights, 3)
	assert.Len(t, res.PosteriorSamples, 3)
	assert.Len(t, res.Summary, 3)
	for id, samples := range res.PosteriorSamples {
		assert.Len(t, samples, 500, "item %s", id)
	}
	assert.Equal(t, 500, res.Diagnostics.EffectiveSamples)
	assert.Equal(t, uint64(60), res.Diagnostics.TotalObservations)
	assert.True(t, res.Diagnostics.Adequate)
	assert.Contains(t, res.ModelAssumptions, "Dirichlet")
}

func TestBayesian_SamplesOnSimplex(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 10, "b": 2}),
	}

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 200
		o.Source = seededSource()
	})
	require.NoError(t, err)

	// Each draw's marginals sum to 1 across items.
	for s := 0; s < 200; s++ {
		sum := res.PosteriorSamples["a"][s] + res.PosteriorSamples["b"][s]
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
	for _, samples := range res.PosteriorSamples {
		for _, v := range samples {
			assert.Greater(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
}

func TestBayesian_MeanMatchesAnalyticPosterior(t *testing.T) {
	// Posterior mean is exactly (alpha + count_i) / (k*alpha + total).
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b", "c"}, map[string]uint64{"a": 70, "b": 20, "c": 10}),
	}

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 20000
		o.Source = seededSource()
	})
	require.NoError(t, err)

	assert.InDelta(t, 71.0/103.0, res.Weights["a"], 0.01)
	assert.InDelta(t, 21.0/103.0, res.Weights["b"], 0.01)
	assert.InDelta(t, 11.0/103.0, res.Weights["c"], 0.01)
}

func TestBayesian_MeanApproachesMLE(t *testing.T) {
	// With epsilon = alpha the MLE formula equals the posterior mean, so
	// the Bayesian sample mean converges to the MLE as draws grow.
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 800, "b": 200}),
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 750, "b": 250}),
	}

	mle, err := MLE(records)
	require.NoError(t, err)

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 20000
		o.Source = seededSource()
	})
	require.NoError(t, err)

	for id := range mle {
		assert.InDelta(t, mle[id], res.Weights[id], 0.005, "item %s", id)
	}
}

func TestBayesian_SummaryOrdering(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 30, "b": 10}),
	}

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 2000
		o.Source = seededSource()
	})
	require.NoError(t, err)

	for id, s := range res.Summary {
		assert.LessOrEqual(t, s.CILow, s.Median, "item %s", id)
		assert.LessOrEqual(t, s.Median, s.CIHigh, "item %s", id)
		assert.Greater(t, s.CILow, 0.0, "item %s", id)
		assert.Less(t, s.CIHigh, 1.0, "item %s", id)
		assert.Equal(t, res.Weights[id], s.Mean, "item %s", id)
	}
}

func TestBayesian_InadequateData(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 3, "b": 1}),
	}

	res, err := Bayesian(records, func(o *BayesOptions) {
		o.SampleCount = 100
		o.Source = seededSource()
	})
	require.NoError(t, err)
	assert.False(t, res.Diagnostics.Adequate)
	assert.Equal(t, uint64(4), res.Diagnostics.TotalObservations)
}

func TestBayesian_Deterministic(t *testing.T) {
	records := []dataset.Record{
		dataset.MustNew([]string{"a", "b"}, map[string]uint64{"a": 5, "b": 3}),
	}

	run := func() *BayesianResult {
		res, err := Bayesian(records, func(o *BayesOptions) {
			o.SampleCount = 100
			o.Source = rand.NewPCG(1, 2)
		})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, run(), run())
}

func TestBayesian_Errors(t *testing.T) {
	_, err := Bayesian(nil)
	require.ErrorIs(t, err, ErrInsufficientData)

	records := []dataset.Record{dataset.MustNew([]string{"a"}, nil)}

	for name, fn := range map[string]func(*BayesOptions){
		"zero samples":   func(o *BayesOptions) { o.SampleCount = 0 },
		"zero alpha":     func(o *BayesOptions) { o.Alpha = 0 },
		"negative alpha": func(o *BayesOptions) { o.Alpha = -1 },
		"inverted ci":    func(o *BayesOptions) { o.CredibleLow = 0.9; o.CredibleHigh = 0.1 },
		"ci at bound":    func(o *BayesOptions) { o.CredibleLow = 0; o.CredibleHigh = 1 },
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Bayesian(records, fn)
			require.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestSumLargestFirst(t *testing.T) {
	assert.Equal(t, 0.0, sumLargestFirst(nil))
	assert.InDelta(t, 6.0, sumLargestFirst([]float64{3, 1, 2}), 1e-15)

	// Input order must not matter.
	a := sumLargestFirst([]float64{1e-12, 1e12, 5})
	b := sumLargestFirst([]float64{1e12, 5, 1e-12})
	assert.Equal(t, a, b)
}
