// Package resource implements the Controller that backs budgeted allocators.
//
// The Controller governs two resource types:
//
//   - Memory: track and limit accounted bytes (non-blocking, fail-fast)
//   - Allocation rate: token bucket over allocated bytes per second
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides what to do
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Allocation Rate
//
// AllowRate consumes tokens without waiting. Containers never block, so there
// is no waiting variant. ReserveRate does the same but hands back a cancel
// func, so a request refused by the memory limit does not spend rate budget.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
