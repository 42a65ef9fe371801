package prometheusexport

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poedata "github.com/weo-soft/poeData-sub000"
	"github.com/weo-soft/poeData-sub000/cache"
)

var _ poedata.MetricsCollector = (*Collector)(nil)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordEstimate(cache.ModeMLE, time.Millisecond, nil)
	c.RecordEstimate(cache.ModeBayesian, 5*time.Millisecond, errors.New("boom"))
	c.RecordCacheGet(cache.ModeMLE, cache.GetHit, time.Microsecond)
	c.RecordCacheGet(cache.ModeMLE, cache.GetMiss, time.Microsecond)
	c.RecordCachePut(cache.ModeMLE, cache.PutStored, time.Microsecond)
	c.RecordCachePut(cache.ModeBayesian, cache.PutDegraded, time.Microsecond)
	c.RecordEviction(3, 4096)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.estimateErrors.WithLabelValues("bayesian")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.estimateErrors.WithLabelValues("mle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheGets.WithLabelValues("mle", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheGets.WithLabelValues("mle", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cachePuts.WithLabelValues("mle", "stored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cachePuts.WithLabelValues("bayesian", "degraded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.evictions))
	assert.Equal(t, 4096.0, testutil.ToFloat64(c.evictedBytes))
}

func TestCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.RecordEstimate(cache.ModeMLE, time.Millisecond, nil)
	c.RecordCacheGet(cache.ModeMLE, cache.GetMiss, time.Microsecond)
	c.RecordCachePut(cache.ModeMLE, cache.PutStored, time.Microsecond)
	c.RecordEviction(1, 512)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"poedata_estimate_duration_seconds",
		"poedata_cache_gets_total",
		"poedata_cache_get_duration_seconds",
		"poedata_cache_puts_total",
		"poedata_cache_put_duration_seconds",
		"poedata_cache_evictions_total",
		"poedata_cache_evicted_bytes_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}
