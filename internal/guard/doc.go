// Package guard provides a debug-only exclusive-access check for
// single-threaded containers.
//
// A Guard performs no locking. With the stdkitdebug build tag it counts
// readers and writers with atomics and panics when a write overlaps any other
// access on the same instance. Without the tag it is an empty struct and every
// method is a no-op that the compiler inlines away.
//
//	go test -tags stdkitdebug ./...
//
// Assert follows the same switch: it panics on a violated precondition in
// debug builds and does nothing otherwise.
package guard
