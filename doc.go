// Package stdkit provides allocator-aware in-memory containers for Go.
//
// The toolkit ships three containers that share one allocator capability:
//
//   - bitvec.BitVector: dense bit vector with inline storage for small sizes
//   - sparseset.Set: sparse index set with O(cardinality) clear
//   - ordmap.Map: unbalanced ordered map without parent pointers
//
// Each container package can be used on its own. The Toolkit in this package
// builds containers that charge one allocator, log through one Logger and
// report to one MetricsCollector.
//
// # Quick Start
//
//	tk := stdkit.New(
//	    stdkit.WithMemoryLimit(64<<20),
//	    stdkit.WithLogger(stdkit.NewTextLogger(slog.LevelInfo)),
//	)
//
//	bv, _ := tk.NewBitVector(0)
//	_ = bv.Set(100)
//
//	seen, _ := tk.NewOrderedSparseSet(1024)
//	seen.SetBit(7)
//
//	m := stdkit.NewOrderedMap[string, int](tk)
//	_ = m.Insert("a", 1)
//
// # Allocation Failure
//
// Every growth path can fail when the allocator refuses a request. Failures
// are returned as errors that match ErrAllocationFailed with errors.Is, and
// the container keeps its previous contents:
//
//	if err := bv.Set(1 << 30); errors.Is(err, stdkit.ErrAllocationFailed) {
//	    // bv is unchanged
//	}
//
// # Concurrency
//
// Containers are single-threaded by contract and do no locking. Build with
// the stdkitdebug tag to turn overlapping access into a panic:
//
//	go test -tags stdkitdebug ./...
//
// Allocators, the Logger and the metrics collectors are safe for concurrent
// use, so one Toolkit can serve containers owned by different goroutines.
package stdkit
