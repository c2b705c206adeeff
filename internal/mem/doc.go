// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Word slices backing bit vectors and sparse sets start on a 64-byte cache
// line so word scans never straddle a line boundary at the start.
package mem
