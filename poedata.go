// Package poedata estimates item drop weights from observed drop counts.
//
// It provides two estimators over the same observation data:
//
//   - WeightsMLE: maximum-likelihood point estimates with additive smoothing
//   - WeightsBayesian: Dirichlet-multinomial posterior with per-item samples,
//     summary statistics, and adequacy diagnostics
//
// Results are cached against a fingerprint of the dataset manifest, so a
// category is only recomputed when its underlying datasets change. The cache
// is pluggable: the default is in-memory, and kvstore ships disk, Badger,
// Redis, S3, MinIO, and DynamoDB backends.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, err := poedata.New()
//	if err != nil {
//	    panic(err)
//	}
//	defer eng.Close()
//
//	records := []dataset.Record{
//	    dataset.MustNew(
//	        []string{"chaos", "divine", "exalted"},
//	        map[string]uint64{"chaos": 900, "divine": 40, "exalted": 60},
//	    ),
//	}
//
//	weights, err := eng.WeightsMLE(ctx, "currency", records, m)
//
// The manifest m describes the dataset collection the records came from;
// pass nil to skip caching for a one-off computation.
//
// # Persistent Cache
//
//	store, err := kvstore.NewDisk(kvstore.DiskConfig{RootDir: "./cache"})
//	if err != nil {
//	    panic(err)
//	}
//	eng, err := poedata.New(poedata.WithStore(store))
//
// # Bayesian Estimation
//
//	result, err := eng.WeightsBayesian(ctx, "currency", records, m,
//	    func(o *estimate.BayesOptions) {
//	        o.SampleCount = 10000
//	    })
//	fmt.Println(result.Weights, result.Summary["divine"].CILow)
package poedata

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/weo-soft/poeData-sub000/cache"
	"github.com/weo-soft/poeData-sub000/dataset"
	"github.com/weo-soft/poeData-sub000/estimate"
	"github.com/weo-soft/poeData-sub000/kvstore"
	"github.com/weo-soft/poeData-sub000/manifest"
)

// Engine is the estimation front end: cache-first weight estimation over a
// pluggable key-value store. Safe for concurrent use.
type Engine struct {
	cache             *cache.Cache
	store             kvstore.Store
	ownsStore         bool
	group             singleflight.Group
	metrics           MetricsCollector
	logger            *Logger
	mleOptions        []func(*estimate.MLEOptions)
	bayesOptions      []func(*estimate.BayesOptions)
	warmUpConcurrency int
}

// New creates an Engine. With no options it caches in memory and logs
// nothing; see WithStore, WithLogger, WithMetricsCollector.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)

	store := opts.store
	ownsStore := false
	if store == nil {
		store = kvstore.NewMemory(nil)
		ownsStore = true
	}

	// The engine's logger also serves the cache layer unless the caller
	// overrides it through WithCacheOptions.
	cacheOptFns := append([]func(*cache.Options){func(o *cache.Options) {
		o.Logger = opts.logger.Logger
	}}, opts.cacheOptions...)

	return &Engine{
		cache:             cache.New(store, cacheOptFns...),
		store:             store,
		ownsStore:         ownsStore,
		metrics:           opts.metricsCollector,
		logger:            opts.logger,
		mleOptions:        opts.mleOptions,
		bayesOptions:      opts.bayesOptions,
		warmUpConcurrency: opts.warmUpConcurrency,
	}, nil
}

// WeightsMLE returns maximum-likelihood weight estimates for category.
//
// If m is non-nil and a cached result matches its fingerprint, that result
// is returned without recomputation. On a miss the estimate is computed from
// records and stored best-effort. A nil manifest skips the cache entirely.
//
// Per-call option functions are applied after the engine-level defaults from
// WithMLEOptions.
func (e *Engine) WeightsMLE(ctx context.Context, category string, records []dataset.Record, m *manifest.Manifest, optFns ...func(*estimate.MLEOptions)) (estimate.WeightMap, error) {
	result, err := e.estimate(ctx, category, cache.ModeMLE, m, func() (*cache.Result, error) {
		weights, err := estimate.MLE(records, concat(e.mleOptions, optFns)...)
		if err != nil {
			return nil, err
		}
		return cache.NewMLEResult(weights), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Weights, nil
}

// WeightsBayesian returns the Dirichlet-multinomial posterior estimate for
// category: per-item weights, posterior samples, credible intervals, and
// adequacy diagnostics.
//
// Caching behaves as in WeightsMLE. A cached result may carry fewer
// posterior samples than a fresh run (they are downsampled before storage)
// or none at all if the entry was degraded to fit a storage quota; summary
// statistics are always intact.
func (e *Engine) WeightsBayesian(ctx context.Context, category string, records []dataset.Record, m *manifest.Manifest, optFns ...func(*estimate.BayesOptions)) (*estimate.BayesianResult, error) {
	result, err := e.estimate(ctx, category, cache.ModeBayesian, m, func() (*cache.Result, error) {
		bayes, err := estimate.Bayesian(records, concat(e.bayesOptions, optFns)...)
		if err != nil {
			return nil, err
		}
		return cache.NewBayesianResult(bayes), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Bayesian, nil
}

// estimate is the shared cache-first path. compute runs the estimator on a
// miss; duplicate concurrent misses for the same (category, mode,
// fingerprint) are collapsed to a single computation.
func (e *Engine) estimate(ctx context.Context, category string, mode cache.Mode, m *manifest.Manifest, compute func() (*cache.Result, error)) (*cache.Result, error) {
	if m != nil {
		start := time.Now()
		cached, status := e.cache.Get(ctx, category, mode, m)
		e.metrics.RecordCacheGet(mode, status, time.Since(start))
		e.logger.LogCacheGet(ctx, category, mode, status)
		if status == cache.GetHit {
			return cached, nil
		}
	}

	v, err, _ := e.group.Do(e.flightKey(category, mode, m), func() (any, error) {
		start := time.Now()
		result, err := compute()
		e.metrics.RecordEstimate(mode, time.Since(start), err)
		e.logger.LogEstimate(ctx, category, mode, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		if m != nil {
			e.put(ctx, category, mode, m, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cache.Result), nil
}

// put stores a freshly computed result, recording metrics for the store
// attempt and any evictions it triggered. Cache failures never surface.
func (e *Engine) put(ctx context.Context, category string, mode cache.Mode, m *manifest.Manifest, result *cache.Result) {
	before := e.cache.Stats()
	start := time.Now()
	status := e.cache.Put(ctx, category, mode, m, result)
	e.metrics.RecordCachePut(mode, status, time.Since(start))
	e.logger.LogCachePut(ctx, category, mode, status)
	after := e.cache.Stats()
	if evicted := after.Evictions - before.Evictions; evicted > 0 {
		e.metrics.RecordEviction(evicted, after.EvictedBytes-before.EvictedBytes)
	}
}

// concat merges engine-level defaults with per-call option functions without
// touching either slice; appending in place would race between callers.
func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func (e *Engine) flightKey(category string, mode cache.Mode, m *manifest.Manifest) string {
	fingerprint := ""
	if m != nil {
		fingerprint = m.Fingerprint()
	}
	return fmt.Sprintf("%s/%s/%s", fingerprint, category, mode)
}

// WarmUpRequest names one category to precompute during WarmUp.
type WarmUpRequest struct {
	Category string
	Mode     cache.Mode
	Records  []dataset.Record
}

// WarmUp precomputes and caches a batch of categories concurrently, bounded
// by WithWarmUpConcurrency. It stops at the first estimator error; already
// cached categories are cheap no-ops.
func (e *Engine) WarmUp(ctx context.Context, m *manifest.Manifest, requests []WarmUpRequest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.warmUpConcurrency)

	var failed atomic.Int64
	for _, req := range requests {
		g.Go(func() error {
			var err error
			switch req.Mode {
			case cache.ModeBayesian:
				_, err = e.WeightsBayesian(ctx, req.Category, req.Records, m)
			default:
				_, err = e.WeightsMLE(ctx, req.Category, req.Records, m)
			}
			if err != nil {
				failed.Add(1)
			}
			return err
		})
	}

	err := g.Wait()
	e.logger.LogWarmUp(ctx, len(requests), int(failed.Load()), err)
	return err
}

// Invalidate removes all cached results for a category, across modes.
func (e *Engine) Invalidate(ctx context.Context, category string) error {
	return e.cache.RemoveCategory(ctx, category)
}

// ClearCache removes every cached result.
func (e *Engine) ClearCache(ctx context.Context) error {
	return e.cache.Clear(ctx)
}

// CacheStats returns a snapshot of cache activity counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// Close releases resources. The backing store is closed only if the Engine
// created it; stores injected with WithStore stay open for their owner.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.ownsStore {
		return e.store.Close()
	}
	return nil
}
