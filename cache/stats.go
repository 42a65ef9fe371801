package cache

import "sync/atomic"

// Stats is a snapshot of cache activity counters.
type Stats struct {
	Hits           int64 // validated entries served
	Misses         int64 // lookups that found no usable entry
	Errors         int64 // lookups that failed before reaching the store
	Stores         int64 // full results persisted
	Degraded       int64 // results persisted without posterior samples
	Dropped        int64 // writes abandoned after eviction and degradation
	Evictions      int64 // entries removed to free quota
	EvictedBytes   int64 // stored bytes freed by those evictions
	CorruptDropped int64 // entries deleted because they failed to decode
	Invalidated    int64 // entries deleted because their fingerprint went stale
}

type stats struct {
	hits           atomic.Int64
	misses         atomic.Int64
	errors         atomic.Int64
	stores         atomic.Int64
	degraded       atomic.Int64
	dropped        atomic.Int64
	evictions      atomic.Int64
	evictedBytes   atomic.Int64
	corruptDropped atomic.Int64
	invalidated    atomic.Int64
}

func (s *stats) snapshot() Stats {
	return Stats{
		Hits:           s.hits.Load(),
		Misses:         s.misses.Load(),
		Errors:         s.errors.Load(),
		Stores:         s.stores.Load(),
		Degraded:       s.degraded.Load(),
		Dropped:        s.dropped.Load(),
		Evictions:      s.evictions.Load(),
		EvictedBytes:   s.evictedBytes.Load(),
		CorruptDropped: s.corruptDropped.Load(),
		Invalidated:    s.invalidated.Load(),
	}
}
