package alloc

import (
	"fmt"

	"github.com/hupe1980/stdkit/internal/resource"
)

// ErrMemoryLimitExceeded is wrapped by Budget when the memory limit would be exceeded.
var ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

// BudgetConfig holds the limits of a Budget allocator.
type BudgetConfig struct {
	// MemoryLimitBytes is the hard limit for reserved bytes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocRateBytesPerSec caps sustained allocation throughput.
	// If 0, unlimited.
	AllocRateBytesPerSec int64

	// AllocBurstBytes is the largest single burst the rate limiter admits.
	// Values below AllocRateBytesPerSec are raised to it.
	AllocBurstBytes int64
}

// Budget is an allocator with a hard memory limit and an optional
// allocation-rate limit. Requests that exceed either fail immediately.
type Budget struct {
	counters
	rc *resource.Controller
}

// NewBudget creates a Budget allocator.
func NewBudget(cfg BudgetConfig) *Budget {
	return &Budget{
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:     cfg.MemoryLimitBytes,
			AllocRateBytesPerSec: cfg.AllocRateBytesPerSec,
			AllocBurstBytes:      cfg.AllocBurstBytes,
		}),
	}
}

// Allocate implements Allocator.
func (b *Budget) Allocate(size int) error {
	if size < 0 {
		b.failures.Add(1)
		return fmt.Errorf("%w: negative size %d", ErrAllocationFailed, size)
	}
	cancelRate, ok := b.rc.ReserveRate(size)
	if !ok {
		b.failures.Add(1)
		return fmt.Errorf("%w: %w (%d bytes)", ErrAllocationFailed, ErrRateLimited, size)
	}
	if err := b.rc.AcquireMemory(int64(size)); err != nil {
		cancelRate()
		b.failures.Add(1)
		return fmt.Errorf("%w: %w (%d bytes requested, %d of %d in use)",
			ErrAllocationFailed, err, size, b.rc.MemoryUsage(), b.rc.MemoryLimit())
	}
	b.recordAlloc(size)
	return nil
}

// Deallocate implements Allocator.
func (b *Budget) Deallocate(size int) {
	if size <= 0 {
		return
	}
	b.rc.ReleaseMemory(int64(size))
	b.recordFree(size)
}

// MemoryUsage returns the bytes currently reserved.
func (b *Budget) MemoryUsage() int64 {
	return b.rc.MemoryUsage()
}

// MemoryLimit returns the configured limit (0 if unlimited).
func (b *Budget) MemoryLimit() int64 {
	return b.rc.MemoryLimit()
}

// Stats returns a snapshot of the allocator counters.
func (b *Budget) Stats() Stats {
	return b.snapshot()
}
