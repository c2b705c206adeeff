// Package bitvec implements a dynamic bit vector with small-size inline storage.
//
// A BitVector is a dense set over [0, Size()). Vectors of up to InlineBits
// bits keep their content in a single word inside the struct and never touch
// the allocator; larger vectors use a cache-line aligned slice of 64-bit words
// reserved through an alloc.Allocator. Resizing across the threshold migrates
// the content between the two modes.
//
// Writes past the end grow the vector:
//
//	bv, _ := bitvec.New(0)
//	_ = bv.Set(100)   // Size() is now 101
//	bv.IsSet(100)     // true
//	bv.IsSet(500)     // false, reads never grow
//
// Growth that the allocator refuses leaves the vector unchanged and returns an
// error wrapping alloc.ErrAllocationFailed.
//
// A BitVector is not safe for concurrent use. Build with the stdkitdebug tag
// to detect overlapping access.
package bitvec
