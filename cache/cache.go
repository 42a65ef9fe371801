package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/weo-soft/poeData-sub000/kvstore"
	"github.com/weo-soft/poeData-sub000/manifest"
)

// Cache is a manifest-validated result cache over an injected key-value
// store. Safe for concurrent use; concurrent writers for the same key are
// last-write-wins, which is harmless because both derive from identical
// inputs and fingerprint.
type Cache struct {
	store kvstore.Store
	opts  Options
	stats stats
}

// New creates a Cache on the given store.
func New(store kvstore.Store, optFns ...func(*Options)) *Cache {
	return &Cache{
		store: store,
		opts:  applyOptions(optFns),
	}
}

func (c *Cache) key(category string, mode Mode) string {
	return fmt.Sprintf("%s/%s/%s", c.opts.Namespace, category, mode)
}

// Get returns the cached result for (category, mode) if one exists and its
// stored fingerprint matches the current manifest.
//
// Fails closed: a nil manifest is a miss, never a trusted hit. A corrupt or
// stale entry is deleted and reported as a miss. Get never returns an error;
// the status tells the caller whether to compute.
func (c *Cache) Get(ctx context.Context, category string, mode Mode, m *manifest.Manifest) (*Result, GetStatus) {
	if m == nil {
		c.opts.Logger.Warn("cache get without manifest, failing closed",
			"category", category, "mode", mode.String())
		c.stats.errors.Add(1)
		return nil, GetError
	}

	key := c.key(category, mode)
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		c.stats.misses.Add(1)
		return nil, GetMiss
	}
	if err != nil {
		c.opts.Logger.Warn("cache store read failed",
			"key", key, "error", err)
		c.stats.errors.Add(1)
		return nil, GetError
	}

	env, result, err := openEnvelope(data)
	if err != nil {
		// Unreadable entries are deleted so they cannot fail again.
		c.opts.Logger.Warn("corrupt cache entry dropped",
			"key", key, "error", err)
		_ = c.store.Delete(ctx, key)
		c.stats.corruptDropped.Add(1)
		c.stats.misses.Add(1)
		return nil, GetMiss
	}

	if env.Meta.Fingerprint != m.Fingerprint() {
		// The dataset collection changed; actively prune the stale entry.
		c.opts.Logger.Debug("stale cache entry invalidated",
			"key", key, "category", category)
		_ = c.store.Delete(ctx, key)
		c.stats.invalidated.Add(1)
		c.stats.misses.Add(1)
		return nil, GetMiss
	}

	c.touch(ctx, key, env)
	c.stats.hits.Add(1)
	return result, GetHit
}

// touch refreshes the entry's last-accessed timestamp, best-effort. The
// payload bytes are reused untouched; only the metadata is re-encoded.
func (c *Cache) touch(ctx context.Context, key string, env envelope) {
	env.Meta.LastAccess = c.opts.Clock()
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		c.opts.Logger.Debug("last-access refresh failed", "key", key, "error", err)
	}
}

// Put persists result for (category, mode) under the manifest's fingerprint.
//
// Best-effort by contract: on quota rejection it evicts the least recently
// accessed entries and retries once; if a Bayesian payload still does not
// fit, it is degraded to summary statistics only; if even that fails the
// write is dropped with a warning. Put never returns an error.
func (c *Cache) Put(ctx context.Context, category string, mode Mode, m *manifest.Manifest, result *Result) PutStatus {
	if m == nil || !result.valid() || result.Mode != mode {
		c.opts.Logger.Warn("cache put rejected",
			"category", category, "mode", mode.String(),
			"reason", "nil manifest or malformed result")
		c.stats.dropped.Add(1)
		return PutDropped
	}

	key := c.key(category, mode)
	now := c.opts.Clock()
	meta := Meta{
		Category:    category,
		Mode:        mode,
		Fingerprint: m.Fingerprint(),
		CreatedAt:   now,
		LastAccess:  now,
	}

	stored := result
	if result.Mode == ModeBayesian && result.Bayesian != nil {
		stored, meta.OriginalSampleCount = downsampleResult(result, c.opts.StoredSampleCount)
	}

	data, err := sealEnvelope(meta, stored, c.opts.Codec, c.opts.Compression)
	if err != nil {
		c.opts.Logger.Warn("cache entry encode failed", "key", key, "error", err)
		c.stats.dropped.Add(1)
		return PutDropped
	}

	err = c.store.Put(ctx, key, data)
	if errors.Is(err, kvstore.ErrQuotaExceeded) {
		c.evict(ctx, key, int(float64(len(data))*c.opts.EvictionHeadroom))
		err = c.store.Put(ctx, key, data)
	}
	if err == nil {
		c.stats.stores.Add(1)
		return PutStored
	}

	if errors.Is(err, kvstore.ErrQuotaExceeded) && stored.Mode == ModeBayesian {
		// Degrade: keep weights, summary, and diagnostics; drop raw samples.
		meta.Degraded = true
		data, encErr := sealEnvelope(meta, stripSamples(stored), c.opts.Codec, c.opts.Compression)
		if encErr == nil {
			if putErr := c.store.Put(ctx, key, data); putErr == nil {
				c.opts.Logger.Warn("cache entry degraded to summary statistics",
					"key", key, "category", category)
				c.stats.degraded.Add(1)
				return PutDegraded
			}
		}
	}

	c.opts.Logger.Warn("cache write abandoned", "key", key, "error", err)
	c.stats.dropped.Add(1)
	return PutDropped
}

// evict deletes entries oldest-last-accessed-first until roughly wantBytes
// of stored payload have been freed. The entry being replaced is skipped so
// its own bytes are not double counted. Runs only inline with a failed Put;
// there is no background eviction.
func (c *Cache) evict(ctx context.Context, pendingKey string, wantBytes int) {
	keys, err := c.store.List(ctx, c.opts.Namespace+"/")
	if err != nil {
		c.opts.Logger.Warn("eviction scan failed", "error", err)
		return
	}

	type candidate struct {
		key  string
		meta Meta
		size int
	}
	candidates := make([]candidate, 0, len(keys))
	for _, key := range keys {
		if key == pendingKey {
			continue
		}
		data, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		meta, err := openMeta(data)
		if err != nil {
			// Corrupt entries are the cheapest eviction victims.
			_ = c.store.Delete(ctx, key)
			c.stats.corruptDropped.Add(1)
			continue
		}
		candidates = append(candidates, candidate{key: key, meta: meta, size: len(data)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].meta.LastAccess.Before(candidates[j].meta.LastAccess)
	})

	freed := 0
	for _, cand := range candidates {
		if freed >= wantBytes {
			break
		}
		if err := c.store.Delete(ctx, cand.key); err != nil {
			continue
		}
		freed += cand.size
		c.stats.evictions.Add(1)
		c.stats.evictedBytes.Add(int64(cand.size))
	}
	c.opts.Logger.Info("cache eviction completed",
		"wanted_bytes", wantBytes, "freed_bytes", freed)
}

// Remove deletes the entry for (category, mode).
func (c *Cache) Remove(ctx context.Context, category string, mode Mode) error {
	return c.store.Delete(ctx, c.key(category, mode))
}

// RemoveCategory deletes all entries for a category across modes.
func (c *Cache) RemoveCategory(ctx context.Context, category string) error {
	keys, err := c.store.List(ctx, fmt.Sprintf("%s/%s/", c.opts.Namespace, category))
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes every entry in the cache's namespace.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.store.List(ctx, c.opts.Namespace+"/")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a snapshot of cache activity counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot()
}

// downsampleResult returns a copy of r with every posterior sample list
// reduced to at most target draws, plus the original draw count. r itself is
// never mutated; the caller's in-memory result keeps its full samples.
func downsampleResult(r *Result, target int) (*Result, int) {
	samples, original := downsampleAll(r.Bayesian.PosteriorSamples, target)
	if original == 0 || len(samples) == 0 {
		return r, original
	}

	b := *r.Bayesian
	b.PosteriorSamples = samples
	return &Result{Mode: r.Mode, Bayesian: &b}, original
}

// stripSamples returns a copy of r without raw posterior samples.
func stripSamples(r *Result) *Result {
	b := *r.Bayesian
	b.PosteriorSamples = nil
	return &Result{Mode: r.Mode, Bayesian: &b}
}
