package poedata

import (
	"log/slog"

	"github.com/weo-soft/poeData-sub000/cache"
	"github.com/weo-soft/poeData-sub000/estimate"
	"github.com/weo-soft/poeData-sub000/kvstore"
)

type options struct {
	store             kvstore.Store
	cacheOptions      []func(*cache.Options)
	mleOptions        []func(*estimate.MLEOptions)
	bayesOptions      []func(*estimate.BayesOptions)
	metricsCollector  MetricsCollector
	logger            *Logger
	warmUpConcurrency int
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithStore configures the key-value store backing the result cache.
//
// If this option is not used, the Engine creates an in-memory store and
// closes it on Engine.Close. A store passed here stays owned by the caller
// and is not closed by the Engine.
func WithStore(store kvstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCacheOptions configures the result cache (namespace, codec,
// compression, stored sample count).
func WithCacheOptions(optFns ...func(*cache.Options)) Option {
	return func(o *options) {
		o.cacheOptions = append(o.cacheOptions, optFns...)
	}
}

// WithMLEOptions configures defaults for every WeightsMLE call
// (e.g. the smoothing constant).
func WithMLEOptions(optFns ...func(*estimate.MLEOptions)) Option {
	return func(o *options) {
		o.mleOptions = append(o.mleOptions, optFns...)
	}
}

// WithBayesOptions configures defaults for every WeightsBayesian call
// (e.g. prior concentration, sample count, credible interval bounds).
func WithBayesOptions(optFns ...func(*estimate.BayesOptions)) Option {
	return func(o *options) {
		o.bayesOptions = append(o.bayesOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &poedata.BasicMetricsCollector{}
//	eng, _ := poedata.New(poedata.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Estimates: %d, Cache hits: %d\n", stats.EstimateCount, stats.CacheHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := poedata.NewJSONLogger(slog.LevelInfo)
//	eng, _ := poedata.New(poedata.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithWarmUpConcurrency bounds the number of categories WarmUp computes in
// parallel. Values below 1 fall back to the default of 4.
func WithWarmUpConcurrency(n int) Option {
	return func(o *options) {
		o.warmUpConcurrency = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		warmUpConcurrency: 4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.warmUpConcurrency < 1 {
		o.warmUpConcurrency = 4
	}
	return o
}
