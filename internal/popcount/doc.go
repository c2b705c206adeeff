// Package popcount counts set bits in 64-bit words.
//
// Two kernels are available: a portable SWAR (SIMD within a register)
// reduction and the hardware instruction exposed through math/bits. The best
// kernel for the CPU is selected at init from golang.org/x/sys/cpu flags.
//
// # Override
//
// Set STDKIT_POPCOUNT to force a kernel:
//
//	STDKIT_POPCOUNT=swar go test ./...
//
// Unknown values and kernels the CPU lacks fall back to auto-detection.
package popcount
