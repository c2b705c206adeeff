// Package alloctest provides deterministic allocators for tests.
//
// An Allocator tracks outstanding bytes so tests can assert that a container
// released everything it reserved, and it can be told to refuse requests
// after a fixed number of successes to exercise failure paths.
package alloctest

import (
	"fmt"
	"sync"

	"github.com/hupe1980/stdkit/alloc"
)

// Allocator is an alloc.Allocator for tests.
type Allocator struct {
	mu     sync.Mutex
	budget int // remaining successful Allocate calls; -1 means unlimited
	inUse  int64
	live   int
	allocs int
	fails  int
}

var _ alloc.Allocator = (*Allocator)(nil)

// New returns a tracking allocator that never fails.
func New() *Allocator {
	return &Allocator{budget: -1}
}

// FailAfter returns an allocator that grants n requests and refuses the rest.
func FailAfter(n int) *Allocator {
	return &Allocator{budget: n}
}

// Failing returns an allocator that refuses every request.
func Failing() *Allocator {
	return FailAfter(0)
}

// SetBudget resets the number of requests still granted; -1 means unlimited.
func (a *Allocator) SetBudget(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.budget = n
}

// Allocate implements alloc.Allocator.
func (a *Allocator) Allocate(size int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.budget == 0 {
		a.fails++
		return fmt.Errorf("%w: alloctest budget exhausted (%d bytes)", alloc.ErrAllocationFailed, size)
	}
	if a.budget > 0 {
		a.budget--
	}
	a.allocs++
	a.live++
	a.inUse += int64(size)
	return nil
}

// Deallocate implements alloc.Allocator. It panics when more bytes are
// released than were reserved.
func (a *Allocator) Deallocate(size int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.live--
	a.inUse -= int64(size)
	if a.inUse < 0 || a.live < 0 {
		panic(fmt.Sprintf("alloctest: released %d bytes that were never reserved", size))
	}
}

// InUse returns the outstanding reserved bytes.
func (a *Allocator) InUse() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Live returns the number of reservations not yet released.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Allocs returns the number of granted requests.
func (a *Allocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Fails returns the number of refused requests.
func (a *Allocator) Fails() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fails
}
