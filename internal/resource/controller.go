package resource

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for accounted memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocRateBytesPerSec caps the sustained allocation throughput.
	// If 0, unlimited.
	AllocRateBytesPerSec int64

	// AllocBurstBytes is the token bucket size of the rate limiter.
	// Values below AllocRateBytesPerSec are raised to it.
	AllocBurstBytes int64
}

// Controller manages memory and allocation-rate budgets.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
	memPeak atomic.Int64

	// Rate
	limiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg: cfg,
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.AllocRateBytesPerSec > 0 {
		burst := max(cfg.AllocBurstBytes, cfg.AllocRateBytesPerSec)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.AllocRateBytesPerSec), int(burst))
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	used := c.memUsed.Add(bytes)
	for {
		peak := c.memPeak.Load()
		if used <= peak || c.memPeak.CompareAndSwap(peak, used) {
			break
		}
	}
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// PeakMemoryUsage returns the highest memory usage observed so far.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memPeak.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AllowRate reports whether bytes may be allocated now, consuming tokens if so.
func (c *Controller) AllowRate(bytes int) bool {
	if c == nil || c.limiter == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}
	return c.limiter.AllowN(time.Now(), bytes)
}

// ReserveRate takes tokens for bytes like AllowRate and also returns a cancel
// func that gives them back, for callers that may still refuse the request.
func (c *Controller) ReserveRate(bytes int) (cancel func(), ok bool) {
	if c == nil || c.limiter == nil || bytes <= 0 {
		return func() {}, true
	}
	now := time.Now()
	r := c.limiter.ReserveN(now, bytes)
	if !r.OK() {
		return nil, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	// CancelAt only restores tokens at or before the time the reservation acts.
	return func() { r.CancelAt(now) }, true
}
