// Package alloc defines the allocator capability shared by the containers.
//
// Memory is always obtained from the Go runtime. An Allocator accounts for
// every byte a container reserves and may refuse a request, which lets callers
// cap memory per container or per group of containers and observe allocation
// failure as an ordinary error:
//
//	budget := alloc.NewBudget(alloc.BudgetConfig{MemoryLimitBytes: 1 << 20})
//	bv, err := bitvec.New(0, bitvec.WithAllocator(budget))
//	...
//	if err := bv.Set(1 << 30); errors.Is(err, alloc.ErrAllocationFailed) {
//	    // bv is unchanged
//	}
//
// Implementations:
//
//   - Heap: unlimited, counts bytes in use (the default)
//   - Budget: hard memory limit and optional allocation-rate limit
//   - Observe: wraps any Allocator and reports each call to an Observer
//
// The typed helpers Make, Free, New, Delete, Words and Uint32s compute sizes
// with overflow checks and pair every reservation with its release.
package alloc
