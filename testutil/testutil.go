package testutil

import (
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/weo-soft/poeData-sub000/dataset"
	"github.com/weo-soft/poeData-sub000/estimate"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformWeights returns equal weights over items, summing to 1.
func UniformWeights(items []string) estimate.WeightMap {
	w := make(estimate.WeightMap, len(items))
	for _, id := range items {
		w[id] = 1.0 / float64(len(items))
	}
	return w
}

// GenerateCounts draws totalDrops categorical samples from trueWeights and
// returns the per-item tallies. Items are walked in sorted order so the same
// seed always yields the same counts.
func GenerateCounts(rng *RNG, trueWeights estimate.WeightMap, totalDrops uint64) map[string]uint64 {
	items := make([]string, 0, len(trueWeights))
	for id := range trueWeights {
		items = append(items, id)
	}
	sort.Strings(items)

	// Cumulative distribution over the sorted items.
	cumulative := make([]float64, len(items))
	var acc float64
	for i, id := range items {
		acc += trueWeights[id]
		cumulative[i] = acc
	}

	counts := make(map[string]uint64, len(items))
	for _, id := range items {
		counts[id] = 0
	}
	for range totalDrops {
		u := rng.Float64() * acc
		idx := sort.SearchFloat64s(cumulative, u)
		if idx >= len(items) {
			idx = len(items) - 1
		}
		counts[items[idx]]++
	}
	return counts
}

// GenerateRecord builds a dataset record of totalDrops synthetic
// observations drawn from trueWeights.
func GenerateRecord(rng *RNG, trueWeights estimate.WeightMap, totalDrops uint64) dataset.Record {
	items := make([]string, 0, len(trueWeights))
	for id := range trueWeights {
		items = append(items, id)
	}
	sort.Strings(items)
	return dataset.MustNew(items, GenerateCounts(rng, trueWeights, totalDrops))
}

// TotalVariation returns the total variation distance between two weight
// maps: half the sum of absolute per-item differences. Zero means identical
// distributions; items missing from one map count with weight zero.
func TotalVariation(a, b estimate.WeightMap) float64 {
	var sum float64
	for id, wa := range a {
		sum += math.Abs(wa - b[id])
	}
	for id, wb := range b {
		if _, ok := a[id]; !ok {
			sum += wb
		}
	}
	return sum / 2
}
