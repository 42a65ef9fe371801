// Package prometheusexport implements poedata.MetricsCollector on top of
// Prometheus collectors and exposes an HTTP handler for scraping.
package prometheusexport

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weo-soft/poeData-sub000/cache"
)

// Collector records engine activity as Prometheus metrics.
//
// Collectors register against the registry passed to New, so two Collectors
// must not share a registry. Label cardinality is bounded: modes and statuses
// are small fixed enums and categories are deliberately not labels.
type Collector struct {
	estimateDuration *prometheus.HistogramVec
	estimateErrors   *prometheus.CounterVec
	cacheGets        *prometheus.CounterVec
	cacheGetDuration *prometheus.HistogramVec
	cachePuts        *prometheus.CounterVec
	cachePutDuration *prometheus.HistogramVec
	evictions        prometheus.Counter
	evictedBytes     prometheus.Counter
}

// New creates a Collector and registers its metrics with reg.
// If reg is nil, the default registry is used.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		estimateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poedata_estimate_duration_seconds",
			Help:    "Estimator compute time in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"mode"}),
		estimateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poedata_estimate_errors_total",
			Help: "Total failed estimator runs.",
		}, []string{"mode"}),
		cacheGets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poedata_cache_gets_total",
			Help: "Total cache lookups by outcome (hit, miss, error).",
		}, []string{"mode", "status"}),
		cacheGetDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poedata_cache_get_duration_seconds",
			Help:    "Cache lookup latency in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"mode"}),
		cachePuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poedata_cache_puts_total",
			Help: "Total cache store attempts by outcome (stored, degraded, dropped).",
		}, []string{"mode", "status"}),
		cachePutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poedata_cache_put_duration_seconds",
			Help:    "Cache store latency in seconds.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"mode"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poedata_cache_evictions_total",
			Help: "Total cache entries evicted to make room for writes.",
		}),
		evictedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poedata_cache_evicted_bytes_total",
			Help: "Total stored bytes freed by cache evictions.",
		}),
	}

	reg.MustRegister(
		c.estimateDuration,
		c.estimateErrors,
		c.cacheGets,
		c.cacheGetDuration,
		c.cachePuts,
		c.cachePutDuration,
		c.evictions,
		c.evictedBytes,
	)

	return c
}

// RecordEstimate implements poedata.MetricsCollector.
func (c *Collector) RecordEstimate(mode cache.Mode, duration time.Duration, err error) {
	c.estimateDuration.WithLabelValues(mode.String()).Observe(duration.Seconds())
	if err != nil {
		c.estimateErrors.WithLabelValues(mode.String()).Inc()
	}
}

// RecordCacheGet implements poedata.MetricsCollector.
func (c *Collector) RecordCacheGet(mode cache.Mode, status cache.GetStatus, duration time.Duration) {
	c.cacheGets.WithLabelValues(mode.String(), status.String()).Inc()
	c.cacheGetDuration.WithLabelValues(mode.String()).Observe(duration.Seconds())
}

// RecordCachePut implements poedata.MetricsCollector.
func (c *Collector) RecordCachePut(mode cache.Mode, status cache.PutStatus, duration time.Duration) {
	c.cachePuts.WithLabelValues(mode.String(), status.String()).Inc()
	c.cachePutDuration.WithLabelValues(mode.String()).Observe(duration.Seconds())
}

// RecordEviction implements poedata.MetricsCollector.
func (c *Collector) RecordEviction(entries, bytesFreed int64) {
	c.evictions.Add(float64(entries))
	c.evictedBytes.Add(float64(bytesFreed))
}

// Handler returns the Prometheus scrape HTTP handler for the default
// registry. Pass a custom registry's handler instead when New was called
// with one.
func Handler() http.Handler {
	return promhttp.Handler()
}
