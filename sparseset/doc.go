// Package sparseset implements a sparse index set over a fixed [0, capacity)
// domain.
//
// Membership is kept in two arrays: membership[i] holds the position of i in
// members, and members lists the present indices. Removal writes a tombstone
// (the generation key, a value >= capacity) into membership and leaves a hole
// in members that a later compaction squeezes out. ClearBits touches only the
// current members, so clearing costs O(cardinality) rather than O(capacity).
//
// Two variants exist:
//
//   - New: Members returns indices in insertion order after compaction
//   - NewOrdered: Members returns indices in ascending order; sorting is lazy
//     and only covers the suffix that was appended out of order
//
// A Set is not safe for concurrent use. Build with the stdkitdebug tag to
// detect overlapping access.
package sparseset
