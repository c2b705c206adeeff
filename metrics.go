package stdkit

import (
	"sync/atomic"

	"github.com/hupe1980/stdkit/alloc"
)

// MetricsCollector defines an interface for collecting allocation and
// container metrics. Implement this interface to integrate with monitoring
// systems; prommetrics provides a Prometheus implementation.
//
// A MetricsCollector is also an alloc.Observer, so it sees every allocator
// call made by containers built through a Toolkit.
type MetricsCollector interface {
	// RecordAllocate is called after each allocation request.
	// size is in bytes, err is nil if the request was granted.
	RecordAllocate(size int, err error)

	// RecordDeallocate is called after each release.
	RecordDeallocate(size int)

	// RecordCreate is called after a Toolkit builds a container.
	// kind is "bitvec", "sparseset" or "ordmap".
	RecordCreate(kind string, err error)
}

var _ alloc.Observer = MetricsCollector(nil)

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, error)  {}
func (NoopMetricsCollector) RecordDeallocate(int)       {}
func (NoopMetricsCollector) RecordCreate(string, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount   atomic.Int64
	AllocErrors  atomic.Int64
	AllocBytes   atomic.Int64
	DeallocCount atomic.Int64
	DeallocBytes atomic.Int64
	CreateCount  atomic.Int64
	CreateErrors atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(size int, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(int64(size))
}

// RecordDeallocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeallocate(size int) {
	b.DeallocCount.Add(1)
	b.DeallocBytes.Add(int64(size))
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(_ string, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	allocBytes := b.AllocBytes.Load()
	deallocBytes := b.DeallocBytes.Load()
	return BasicMetricsStats{
		AllocCount:   b.AllocCount.Load(),
		AllocErrors:  b.AllocErrors.Load(),
		AllocBytes:   allocBytes,
		DeallocCount: b.DeallocCount.Load(),
		DeallocBytes: deallocBytes,
		BytesInUse:   allocBytes - deallocBytes,
		CreateCount:  b.CreateCount.Load(),
		CreateErrors: b.CreateErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount   int64
	AllocErrors  int64
	AllocBytes   int64
	DeallocCount int64
	DeallocBytes int64
	BytesInUse   int64
	CreateCount  int64
	CreateErrors int64
}
