package alloc

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/stdkit/internal/conv"
	"github.com/hupe1980/stdkit/internal/mem"
)

// SizeOf returns the accounted size of n values of type T.
func SizeOf[T any](n int) (int, error) {
	var zero T
	size, err := conv.MulInt(n, int(unsafe.Sizeof(zero)))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return size, nil
}

// Make reserves and returns a zeroed slice of n values.
// A zero n returns a nil slice without touching the allocator.
func Make[T any](a Allocator, n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	size, err := SizeOf[T](n)
	if err != nil {
		return nil, err
	}
	if err := OrDefault(a).Allocate(size); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Free releases a slice obtained from Make, Words or Uint32s.
// The accounted size is derived from cap(s), so reslicing is allowed.
func Free[T any](a Allocator, s []T) {
	if cap(s) == 0 {
		return
	}
	var zero T
	OrDefault(a).Deallocate(cap(s) * int(unsafe.Sizeof(zero)))
}

// New reserves and returns a pointer to a zero value of T.
func New[T any](a Allocator) (*T, error) {
	var zero T
	if err := OrDefault(a).Allocate(int(unsafe.Sizeof(zero))); err != nil {
		return nil, err
	}
	return new(T), nil
}

// Delete releases a value obtained from New. A nil p is a no-op.
func Delete[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	OrDefault(a).Deallocate(int(unsafe.Sizeof(*p)))
}

// Words reserves and returns n zeroed, cache-line aligned 64-bit words.
func Words(a Allocator, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	size, err := SizeOf[uint64](n)
	if err != nil {
		return nil, err
	}
	if err := OrDefault(a).Allocate(size); err != nil {
		return nil, err
	}
	return mem.AllocAlignedUint64(n), nil
}

// Uint32s reserves and returns n zeroed, cache-line aligned 32-bit values.
func Uint32s(a Allocator, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	size, err := SizeOf[uint32](n)
	if err != nil {
		return nil, err
	}
	if err := OrDefault(a).Allocate(size); err != nil {
		return nil, err
	}
	return mem.AllocAlignedUint32(n), nil
}
