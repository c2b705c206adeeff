package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrAllocationFailed is returned (wrapped) whenever an allocator refuses a request.
	ErrAllocationFailed = errors.New("alloc: allocation failed")
	// ErrRateLimited is returned (wrapped) when the allocation rate budget is exhausted.
	ErrRateLimited = errors.New("alloc: allocation rate exceeded")
)

// Allocator reserves and releases accounted memory.
//
// Allocate must either reserve size bytes and return nil, or return an error
// wrapping ErrAllocationFailed and reserve nothing. Deallocate releases bytes
// previously reserved with Allocate. Implementations must be safe for
// concurrent use.
type Allocator interface {
	Allocate(size int) error
	Deallocate(size int)
}

// Stats is a snapshot of allocator counters.
type Stats struct {
	Allocs     uint64 // Historical: successful Allocate calls
	Frees      uint64 // Historical: Deallocate calls
	Failures   uint64 // Historical: refused Allocate calls
	BytesInUse int64  // Current: reserved and not yet released
	PeakBytes  int64  // Historical: highest BytesInUse
}

// counters is embedded by the allocators in this package.
type counters struct {
	allocs   atomic.Uint64
	frees    atomic.Uint64
	failures atomic.Uint64
	inUse    atomic.Int64
	peak     atomic.Int64
}

func (c *counters) recordAlloc(size int) {
	c.allocs.Add(1)
	used := c.inUse.Add(int64(size))
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			return
		}
	}
}

func (c *counters) recordFree(size int) {
	c.frees.Add(1)
	c.inUse.Add(-int64(size))
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocs:     c.allocs.Load(),
		Frees:      c.frees.Load(),
		Failures:   c.failures.Load(),
		BytesInUse: c.inUse.Load(),
		PeakBytes:  c.peak.Load(),
	}
}

// Heap is an unlimited allocator that only counts.
type Heap struct {
	counters
}

// NewHeap returns a new Heap allocator.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate implements Allocator. Only negative sizes are refused.
func (h *Heap) Allocate(size int) error {
	if size < 0 {
		h.failures.Add(1)
		return fmt.Errorf("%w: negative size %d", ErrAllocationFailed, size)
	}
	h.recordAlloc(size)
	return nil
}

// Deallocate implements Allocator.
func (h *Heap) Deallocate(size int) {
	if size <= 0 {
		return
	}
	h.recordFree(size)
}

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats {
	return h.snapshot()
}

var defaultHeap = NewHeap()

// Default returns the process-wide Heap allocator used when none is configured.
func Default() Allocator {
	return defaultHeap
}

// DefaultStats returns the counters of the process-wide Heap allocator.
func DefaultStats() Stats {
	return defaultHeap.Stats()
}

// OrDefault returns a, or the default allocator when a is nil.
func OrDefault(a Allocator) Allocator {
	if a == nil {
		return defaultHeap
	}
	return a
}
