// Package ordmap implements an ordered map as an unbalanced binary search
// tree without parent pointers.
//
// Nodes hold a key, a value and two child links. Successor search re-walks
// from the root and keeps the path on a stack that grows on demand, so there
// is no depth limit. Sorted insertion degrades the tree to a list; this is
// accepted, and Stats reports the deepest insertion seen so far.
//
// Insert is idempotent for an identical key/value pair and refuses a second
// value for an existing key with ErrDuplicateKey:
//
//	m := ordmap.New[int, string]()
//	_ = m.Insert(5, "e")
//	_ = m.Insert(5, "e")          // nil
//	err := m.Insert(5, "x")       // errors.Is(err, ordmap.ErrDuplicateKey)
//
// A Map is not safe for concurrent use. Build with the stdkitdebug tag to
// detect overlapping access.
package ordmap
