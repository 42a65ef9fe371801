// Package resource enforces byte quotas and IO throughput limits for the
// key-value stores backing the result cache.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds store resource limits.
type Config struct {
	// QuotaBytes is the hard limit for stored bytes.
	// If 0, no limit is enforced (only tracking).
	QuotaBytes int64

	// IOLimitBytesPerSec is the maximum IO throughput for store reads and
	// writes. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller tracks byte usage against a quota and meters IO.
// A nil *Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	// Quota
	quotaSem *semaphore.Weighted // nil if unlimited
	used     atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.QuotaBytes > 0 {
		c.quotaSem = semaphore.NewWeighted(cfg.QuotaBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// TryReserve reserves n bytes against the quota without blocking.
// Returns false if the reservation would exceed the limit.
func (c *Controller) TryReserve(n int64) bool {
	if c == nil || n <= 0 {
		return true
	}

	if c.quotaSem != nil {
		if !c.quotaSem.TryAcquire(n) {
			return false
		}
	}

	c.used.Add(n)
	return true
}

// Release returns n bytes to the quota.
func (c *Controller) Release(n int64) {
	if c == nil || n <= 0 {
		return
	}

	if c.quotaSem != nil {
		c.quotaSem.Release(n)
	}
	c.used.Add(-n)
}

// Used reports the bytes currently reserved.
func (c *Controller) Used() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// Quota reports the configured byte limit, 0 meaning unlimited.
func (c *Controller) Quota() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.QuotaBytes
}

// WaitIO blocks until the IO budget allows n bytes or ctx is done.
// Requests larger than the limiter's burst are granted in burst-sized
// installments rather than rejected.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
