// Package dataset defines the validated observation records that drive
// weight estimation.
//
// A Record is one independently contributed sample: the item population it
// observed and per-item occurrence counts. Validation happens once, at
// construction; the estimators assume records are well-formed and never
// re-check shape.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyPopulation is returned when a record declares no items.
	ErrEmptyPopulation = errors.New("dataset: empty item population")

	// ErrDuplicateItem is returned when a population lists an item id twice.
	ErrDuplicateItem = errors.New("dataset: duplicate item id in population")

	// ErrUnknownItem is returned when counts reference an item outside the
	// population.
	ErrUnknownItem = errors.New("dataset: count for item outside population")
)

// Record is one dataset's observations: the set of items that were eligible
// to drop and how often each was seen. Records are immutable once built; the
// constructor copies its inputs.
type Record struct {
	population []string
	counts     map[string]uint64
	total      uint64
}

// New builds a validated Record.
//
// population must be non-empty with unique item ids. counts may omit items
// (implying zero observations) but must not reference ids outside the
// population. An item observed zero times is still evidence: it was eligible
// and did not drop.
func New(population []string, counts map[string]uint64) (Record, error) {
	if len(population) == 0 {
		return Record{}, ErrEmptyPopulation
	}

	pop := make([]string, len(population))
	copy(pop, population)

	seen := make(map[string]struct{}, len(pop))
	for _, id := range pop {
		if _, dup := seen[id]; dup {
			return Record{}, fmt.Errorf("%w: %q", ErrDuplicateItem, id)
		}
		seen[id] = struct{}{}
	}

	c := make(map[string]uint64, len(counts))
	var total uint64
	for id, n := range counts {
		if _, ok := seen[id]; !ok {
			return Record{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
		c[id] = n
		total += n
	}

	return Record{population: pop, counts: c, total: total}, nil
}

// MustNew is New that panics on invalid input, for tests and fixtures.
func MustNew(population []string, counts map[string]uint64) Record {
	r, err := New(population, counts)
	if err != nil {
		panic(err)
	}
	return r
}

// Population returns the item ids this record observed, in declaration order.
// The returned slice must not be mutated.
func (r Record) Population() []string {
	return r.population
}

// Count returns the observed occurrences of item id (zero if unobserved).
func (r Record) Count(id string) uint64 {
	return r.counts[id]
}

// Total returns the summed counts across all items.
func (r Record) Total() uint64 {
	return r.total
}

// Len returns the population size.
func (r Record) Len() int {
	return len(r.population)
}

// Universe returns the sorted union of the populations of all records.
// Items absent from every population never appear.
func Universe(records []Record) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, r := range records {
		for _, id := range r.population {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				items = append(items, id)
			}
		}
	}
	sort.Strings(items)
	return items
}

// CombinedCounts sums per-item counts across records for every item in the
// given universe, returning the counts slice aligned with universe order and
// the grand total.
func CombinedCounts(records []Record, universe []string) ([]uint64, uint64) {
	counts := make([]uint64, len(universe))
	var total uint64
	for i, id := range universe {
		for _, r := range records {
			counts[i] += r.counts[id]
		}
		total += counts[i]
	}
	return counts, total
}
