//go:build stdkitdebug

package guard

import (
	"fmt"
	"sync/atomic"
)

// Enabled reports whether access checks are compiled in.
const Enabled = true

// Guard detects overlapping access to a single-threaded value.
type Guard struct {
	readers atomic.Int32
	writing atomic.Bool
}

// Enter marks the start of a mutating operation.
func (g *Guard) Enter() {
	if !g.writing.CompareAndSwap(false, true) {
		panic("guard: concurrent write detected")
	}
	if g.readers.Load() != 0 {
		g.writing.Store(false)
		panic("guard: write overlaps read")
	}
}

// Exit marks the end of a mutating operation.
func (g *Guard) Exit() {
	g.writing.Store(false)
}

// EnterRead marks the start of a read-only operation.
func (g *Guard) EnterRead() {
	g.readers.Add(1)
	if g.writing.Load() {
		g.readers.Add(-1)
		panic("guard: read overlaps write")
	}
}

// ExitRead marks the end of a read-only operation.
func (g *Guard) ExitRead() {
	g.readers.Add(-1)
}

// Assert panics with the formatted message when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic("guard: " + fmt.Sprintf(format, args...))
	}
}
