//go:build stdkitdebug

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_DetectsOverlap(t *testing.T) {
	t.Run("write during write", func(t *testing.T) {
		var g Guard
		g.Enter()
		assert.PanicsWithValue(t, "guard: concurrent write detected", g.Enter)
		g.Exit()
	})

	t.Run("write during read", func(t *testing.T) {
		var g Guard
		g.EnterRead()
		assert.PanicsWithValue(t, "guard: write overlaps read", g.Enter)
		g.ExitRead()
		assert.NotPanics(t, func() { g.Enter(); g.Exit() })
	})

	t.Run("read during write", func(t *testing.T) {
		var g Guard
		g.Enter()
		assert.PanicsWithValue(t, "guard: read overlaps write", g.EnterRead)
		g.Exit()
		assert.NotPanics(t, func() { g.EnterRead(); g.ExitRead() })
	})
}

func TestAssert_Violated(t *testing.T) {
	assert.True(t, Enabled)
	assert.PanicsWithValue(t, "guard: index 9 out of range [0, 8)", func() {
		Assert(false, "index %d out of range [0, %d)", 9, 8)
	})
}
