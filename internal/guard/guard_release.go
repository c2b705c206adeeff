//go:build !stdkitdebug

package guard

// Enabled reports whether access checks are compiled in.
const Enabled = false

// Guard is empty in release builds.
type Guard struct{}

// Enter is a no-op.
func (*Guard) Enter() {}

// Exit is a no-op.
func (*Guard) Exit() {}

// EnterRead is a no-op.
func (*Guard) EnterRead() {}

// ExitRead is a no-op.
func (*Guard) ExitRead() {}

// Assert is a no-op.
func Assert(bool, string, ...any) {}
