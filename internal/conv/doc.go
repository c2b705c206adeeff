// Package conv provides overflow-checked integer arithmetic and conversions.
//
// Allocation sizes are computed as element count times element size; these
// helpers turn an overflow into an error instead of a silently wrapped size
// that would under-account memory.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
