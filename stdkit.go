package stdkit

import (
	"cmp"
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/bitvec"
	"github.com/hupe1980/stdkit/ordmap"
	"github.com/hupe1980/stdkit/sparseset"
)

// Container kinds reported to loggers and metrics collectors.
const (
	KindBitVector  = "bitvec"
	KindSparseSet  = "sparseset"
	KindOrderedMap = "ordmap"
)

// Toolkit builds containers that share one allocator, logger and metrics
// collector. A Toolkit is safe for concurrent use; the containers it builds
// are not.
type Toolkit struct {
	base      alloc.Allocator // allocator before observation
	allocator alloc.Allocator // allocator handed to containers
	budget    *alloc.Budget   // nil unless a limit or rate is configured
	heap      *alloc.Heap     // nil when a caller allocator is used

	logger  *Logger
	metrics MetricsCollector

	pressureRatio float64
	pressured     atomic.Bool
}

// New creates a Toolkit.
//
// Without options the Toolkit allocates from its own alloc.Heap, logs
// nothing and collects no metrics.
func New(opts ...Option) *Toolkit {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	tk := &Toolkit{
		logger:        o.logger,
		metrics:       o.metricsCollector,
		pressureRatio: o.pressureRatio,
	}
	if tk.metrics == nil {
		tk.metrics = NoopMetricsCollector{}
	}

	switch {
	case o.budget.MemoryLimitBytes > 0 || o.budget.AllocRateBytesPerSec > 0:
		tk.budget = alloc.NewBudget(o.budget)
		tk.base = tk.budget
	case o.allocator != nil:
		tk.base = o.allocator
	default:
		tk.heap = alloc.NewHeap()
		tk.base = tk.heap
	}

	tk.allocator = alloc.Observe(tk.base, (*toolkitObserver)(tk))
	return tk
}

// Allocator returns the allocator shared by the Toolkit's containers.
// Containers built directly from the subpackages can be charged to the
// Toolkit by passing it to their WithAllocator option.
func (tk *Toolkit) Allocator() alloc.Allocator {
	return tk.allocator
}

// Logger returns the configured logger, or nil when logging is disabled.
func (tk *Toolkit) Logger() *Logger {
	return tk.logger
}

// MemoryUsage returns the bytes currently held by the Toolkit's containers.
// It returns -1 when a caller-supplied allocator does not expose its usage.
func (tk *Toolkit) MemoryUsage() int64 {
	switch {
	case tk.budget != nil:
		return tk.budget.MemoryUsage()
	case tk.heap != nil:
		return tk.heap.Stats().BytesInUse
	}
	if s, ok := tk.base.(interface{ Stats() alloc.Stats }); ok {
		return s.Stats().BytesInUse
	}
	return -1
}

// MemoryLimit returns the configured memory limit, or 0 if unlimited.
func (tk *Toolkit) MemoryLimit() int64 {
	if tk.budget == nil {
		return 0
	}
	return tk.budget.MemoryLimit()
}

// Stats returns the allocator counters, if the allocator keeps any.
func (tk *Toolkit) Stats() (alloc.Stats, bool) {
	s, ok := tk.base.(interface{ Stats() alloc.Stats })
	if !ok {
		return alloc.Stats{}, false
	}
	return s.Stats(), true
}

// NewBitVector creates a bit vector of size bits charged to the Toolkit.
func (tk *Toolkit) NewBitVector(size uint32) (*bitvec.BitVector, error) {
	opts := []bitvec.Option{bitvec.WithAllocator(tk.allocator)}
	if l := tk.containerLogger(KindBitVector); l != nil {
		opts = append(opts, bitvec.WithLogger(l))
	}
	bv, err := bitvec.New(size, opts...)
	tk.created(KindBitVector, size, err)
	if err != nil {
		return nil, translateError(KindBitVector, "new", err)
	}
	return bv, nil
}

// NewSparseSet creates an unordered sparse set over [0, capacity).
func (tk *Toolkit) NewSparseSet(capacity uint32) (*sparseset.Set, error) {
	return tk.newSparseSet(capacity, sparseset.New)
}

// NewOrderedSparseSet creates a sparse set whose Members are kept ascending.
func (tk *Toolkit) NewOrderedSparseSet(capacity uint32) (*sparseset.Set, error) {
	return tk.newSparseSet(capacity, sparseset.NewOrdered)
}

func (tk *Toolkit) newSparseSet(capacity uint32, ctor func(uint32, ...sparseset.Option) (*sparseset.Set, error)) (*sparseset.Set, error) {
	opts := []sparseset.Option{sparseset.WithAllocator(tk.allocator)}
	if l := tk.containerLogger(KindSparseSet); l != nil {
		opts = append(opts, sparseset.WithLogger(l))
	}
	s, err := ctor(capacity, opts...)
	tk.created(KindSparseSet, capacity, err)
	if err != nil {
		return nil, translateError(KindSparseSet, "new", err)
	}
	return s, nil
}

// NewOrderedMap creates an ordered map charged to tk.
// It is a function rather than a method because methods cannot have type
// parameters.
func NewOrderedMap[K cmp.Ordered, V comparable](tk *Toolkit) *ordmap.Map[K, V] {
	m := ordmap.New[K, V](tk.mapOptions()...)
	tk.created(KindOrderedMap, 0, nil)
	return m
}

// NewOrderedMapFunc creates an ordered map with caller-supplied key ordering
// and value equality, charged to tk.
func NewOrderedMapFunc[K, V any](tk *Toolkit, less func(a, b K) bool, equal func(a, b V) bool) *ordmap.Map[K, V] {
	m := ordmap.NewFunc(less, equal, tk.mapOptions()...)
	tk.created(KindOrderedMap, 0, nil)
	return m
}

func (tk *Toolkit) mapOptions() []ordmap.Option {
	opts := []ordmap.Option{ordmap.WithAllocator(tk.allocator)}
	if l := tk.containerLogger(KindOrderedMap); l != nil {
		opts = append(opts, ordmap.WithLogger(l))
	}
	return opts
}

func (tk *Toolkit) containerLogger(kind string) *slog.Logger {
	if tk.logger == nil {
		return nil
	}
	return tk.logger.WithContainer(kind).Logger
}

func (tk *Toolkit) created(kind string, size uint32, err error) {
	tk.metrics.RecordCreate(kind, err)
	if tk.logger != nil {
		tk.logger.LogCreate(context.Background(), kind, size, err)
	}
}

// toolkitObserver forwards allocator traffic to the metrics collector and
// raises the memory pressure warning.
type toolkitObserver Toolkit

func (o *toolkitObserver) RecordAllocate(size int, err error) {
	o.metrics.RecordAllocate(size, err)
	if err != nil || o.budget == nil || o.logger == nil || o.pressureRatio <= 0 || o.pressureRatio > 1 {
		return
	}
	limit := o.budget.MemoryLimit()
	if limit <= 0 {
		return
	}
	used := o.budget.MemoryUsage()
	if float64(used) >= o.pressureRatio*float64(limit) {
		// Warn once per crossing.
		if o.pressured.CompareAndSwap(false, true) {
			o.logger.LogMemoryPressure(context.Background(), used, limit)
		}
	}
}

func (o *toolkitObserver) RecordDeallocate(size int) {
	o.metrics.RecordDeallocate(size)
	if o.budget == nil || o.pressureRatio <= 0 {
		return
	}
	limit := o.budget.MemoryLimit()
	if limit > 0 && float64(o.budget.MemoryUsage()) < o.pressureRatio*float64(limit) {
		o.pressured.Store(false)
	}
}
