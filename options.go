package stdkit

import (
	"github.com/hupe1980/stdkit/alloc"
)

type options struct {
	allocator        alloc.Allocator
	budget           alloc.BudgetConfig
	metricsCollector MetricsCollector
	logger           *Logger
	pressureRatio    float64
}

// Option configures a Toolkit.
type Option func(*options)

// WithAllocator sets the allocator that backs every container built by the
// Toolkit. It is ignored when a memory limit or allocation rate is configured,
// in which case the Toolkit owns an alloc.Budget.
//
// If nil is passed, the Toolkit uses its own alloc.Heap.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithMemoryLimit caps the bytes that containers built by the Toolkit may hold
// at once. Requests past the cap fail with ErrMemoryLimitExceeded.
//
// A limit of 0 disables the cap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.budget.MemoryLimitBytes = bytes
	}
}

// WithAllocRate limits the allocation throughput in bytes per second.
// burst bounds the largest single request; it is raised to bytesPerSec when
// smaller. Requests past the rate fail with ErrRateLimited.
func WithAllocRate(bytesPerSec, burst int64) Option {
	return func(o *options) {
		o.budget.AllocRateBytesPerSec = bytesPerSec
		o.budget.AllocBurstBytes = burst
	}
}

// WithMemoryPressureWarning logs a warning whenever a granted allocation
// leaves usage at or above ratio of the memory limit. ratio must be in (0, 1];
// other values disable the warning.
func WithMemoryPressureWarning(ratio float64) Option {
	return func(o *options) {
		o.pressureRatio = ratio
	}
}

// WithLogger sets a structured logger. Containers log through it with a
// container field attached.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsCollector sets the collector that observes allocator traffic
// and container construction.
//
// If nil is passed, a NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}
