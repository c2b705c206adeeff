package popcount

import "math/bits"

const (
	m1  = 0x5555555555555555
	m2  = 0x3333333333333333
	m4  = 0x0f0f0f0f0f0f0f0f
	h01 = 0x0101010101010101
)

var kernelCount64 = SWAR64

// Count64 returns the number of set bits in x using the active kernel.
func Count64(x uint64) int {
	return kernelCount64(x)
}

// Words returns the number of set bits across all words.
func Words(words []uint64) int {
	n := 0
	for _, w := range words {
		n += kernelCount64(w)
	}
	return n
}

// SWAR64 counts set bits with pairwise sums inside the register.
func SWAR64(x uint64) int {
	x -= (x >> 1) & m1
	x = (x & m2) + ((x >> 2) & m2)
	x = (x + (x >> 4)) & m4
	return int((x * h01) >> 56)
}

func hardware64(x uint64) int {
	return bits.OnesCount64(x)
}
