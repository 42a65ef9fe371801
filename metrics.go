package poedata

import (
	"sync/atomic"
	"time"

	"github.com/weo-soft/poeData-sub000/cache"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheusexport for a Prometheus implementation.
type MetricsCollector interface {
	// RecordEstimate is called after each estimator run.
	// duration is the compute time only, err is nil if successful.
	RecordEstimate(mode cache.Mode, duration time.Duration, err error)

	// RecordCacheGet is called after each cache lookup.
	RecordCacheGet(mode cache.Mode, status cache.GetStatus, duration time.Duration)

	// RecordCachePut is called after each cache store attempt.
	RecordCachePut(mode cache.Mode, status cache.PutStatus, duration time.Duration)

	// RecordEviction is called when a cache store attempt had to evict
	// entries to make room. bytesFreed is the stored size of those entries.
	RecordEviction(entries, bytesFreed int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEstimate(cache.Mode, time.Duration, error)           {}
func (NoopMetricsCollector) RecordCacheGet(cache.Mode, cache.GetStatus, time.Duration) {}
func (NoopMetricsCollector) RecordCachePut(cache.Mode, cache.PutStatus, time.Duration) {}
func (NoopMetricsCollector) RecordEviction(int64, int64)                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EstimateCount      atomic.Int64
	EstimateErrors     atomic.Int64
	EstimateTotalNanos atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	CacheGetErrors     atomic.Int64
	CacheStores        atomic.Int64
	CacheDegraded      atomic.Int64
	CacheDropped       atomic.Int64
	Evictions          atomic.Int64
	EvictedBytes       atomic.Int64
}

// RecordEstimate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEstimate(mode cache.Mode, duration time.Duration, err error) {
	b.EstimateCount.Add(1)
	b.EstimateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EstimateErrors.Add(1)
	}
}

// RecordCacheGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheGet(mode cache.Mode, status cache.GetStatus, duration time.Duration) {
	switch status {
	case cache.GetHit:
		b.CacheHits.Add(1)
	case cache.GetMiss:
		b.CacheMisses.Add(1)
	case cache.GetError:
		b.CacheGetErrors.Add(1)
	}
}

// RecordCachePut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCachePut(mode cache.Mode, status cache.PutStatus, duration time.Duration) {
	switch status {
	case cache.PutStored:
		b.CacheStores.Add(1)
	case cache.PutDegraded:
		b.CacheDegraded.Add(1)
	case cache.PutDropped:
		b.CacheDropped.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(entries, bytesFreed int64) {
	b.Evictions.Add(entries)
	b.EvictedBytes.Add(bytesFreed)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EstimateCount:    b.EstimateCount.Load(),
		EstimateErrors:   b.EstimateErrors.Load(),
		EstimateAvgNanos: b.getAvgEstimateNanos(),
		CacheHits:        b.CacheHits.Load(),
		CacheMisses:      b.CacheMisses.Load(),
		CacheGetErrors:   b.CacheGetErrors.Load(),
		CacheStores:      b.CacheStores.Load(),
		CacheDegraded:    b.CacheDegraded.Load(),
		CacheDropped:     b.CacheDropped.Load(),
		Evictions:        b.Evictions.Load(),
		EvictedBytes:     b.EvictedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgEstimateNanos() int64 {
	count := b.EstimateCount.Load()
	if count == 0 {
		return 0
	}
	return b.EstimateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EstimateCount    int64
	EstimateErrors   int64
	EstimateAvgNanos int64
	CacheHits        int64
	CacheMisses      int64
	CacheGetErrors   int64
	CacheStores      int64
	CacheDegraded    int64
	CacheDropped     int64
	Evictions        int64
	EvictedBytes     int64
}
