package cache

import (
	"github.com/weo-soft/poeData-sub000/estimate"
)

// Mode identifies which estimator produced a result.
type Mode uint8

const (
	// ModeMLE is the maximum-likelihood point estimate.
	ModeMLE Mode = iota + 1
	// ModeBayesian is the full posterior estimate.
	ModeBayesian
)

// String returns the stable name used in cache keys and logs.
func (m Mode) String() string {
	switch m {
	case ModeMLE:
		return "mle"
	case ModeBayesian:
		return "bayesian"
	default:
		return "unknown"
	}
}

// Result is a cacheable estimation outcome: exactly one of Weights (MLE) or
// Bayesian is set, according to Mode.
type Result struct {
	Mode     Mode                     `json:"mode"`
	Weights  estimate.WeightMap       `json:"weights,omitempty"`
	Bayesian *estimate.BayesianResult `json:"bayesian,omitempty"`
}

// NewMLEResult wraps an MLE weight map for caching.
func NewMLEResult(weights estimate.WeightMap) *Result {
	return &Result{Mode: ModeMLE, Weights: weights}
}

// NewBayesianResult wraps a Bayesian result for caching.
func NewBayesianResult(r *estimate.BayesianResult) *Result {
	return &Result{Mode: ModeBayesian, Bayesian: r}
}

func (r *Result) valid() bool {
	if r == nil {
		return false
	}
	switch r.Mode {
	case ModeMLE:
		return r.Weights != nil
	case ModeBayesian:
		return r.Bayesian != nil
	default:
		return false
	}
}

// GetStatus classifies the outcome of a cache Get.
type GetStatus uint8

const (
	// GetHit means a validated result was returned.
	GetHit GetStatus = iota + 1
	// GetMiss means no usable entry exists; the caller should compute.
	GetMiss
	// GetError means the lookup itself failed (store IO, absent manifest).
	// Semantically a miss; reported separately for observability.
	GetError
)

func (s GetStatus) String() string {
	switch s {
	case GetHit:
		return "hit"
	case GetMiss:
		return "miss"
	case GetError:
		return "error"
	default:
		return "unknown"
	}
}

// PutStatus classifies the outcome of a cache Put.
type PutStatus uint8

const (
	// PutStored means the full result was persisted.
	PutStored PutStatus = iota + 1
	// PutDegraded means the result was persisted without posterior samples
	// to fit the quota.
	PutDegraded
	// PutDropped means the write was abandoned; the next Get will miss.
	PutDropped
)

func (s PutStatus) String() string {
	switch s {
	case PutStored:
		return "stored"
	case PutDegraded:
		return "degraded"
	case PutDropped:
		return "dropped"
	default:
		return "unknown"
	}
}
