// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the cache line size in bytes.
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// We need enough space to shift the start pointer up to Alignment-1 bytes
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedUint64 allocates a zeroed uint64 slice of the given length with 64-byte alignment.
func AllocAlignedUint64(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	byteSlice := AllocAligned(n * 8)
	ptr := unsafe.Pointer(&byteSlice[0])   //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*uint64)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}

// AllocAlignedUint32 allocates a zeroed uint32 slice of the given length with 64-byte alignment.
func AllocAlignedUint32(n int) []uint32 {
	if n <= 0 {
		return nil
	}
	byteSlice := AllocAligned(n * 4)
	ptr := unsafe.Pointer(&byteSlice[0])   //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*uint32)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}
