package bitvec

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/bits"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/internal/guard"
)

const (
	// InlineBits is the largest size kept in the inline word (the machine word width).
	InlineBits = bits.UintSize

	wordBits = 64
	wordMask = wordBits - 1
	allOnes  = math.MaxUint64
)

// ErrIndexTooLarge is returned when a write would grow the vector past math.MaxUint32 bits.
var ErrIndexTooLarge = errors.New("bitvec: index exceeds maximum size")

// BitVector is a dense set of uint32 indices in [0, Size()).
type BitVector struct {
	guard guard.Guard

	size uint32

	// Exactly one of inline and words holds the content, chosen by inlined(size).
	inline [1]uint64
	words  []uint64

	alloc  alloc.Allocator
	logger *slog.Logger
}

// Option configures a BitVector.
type Option func(*BitVector)

// WithAllocator sets the allocator for heap words. Defaults to alloc.Default().
func WithAllocator(a alloc.Allocator) Option {
	return func(b *BitVector) {
		b.alloc = a
	}
}

// WithLogger sets the logger for growth failures and storage migrations.
func WithLogger(l *slog.Logger) Option {
	return func(b *BitVector) {
		b.logger = l
	}
}

// New creates a BitVector of the given size with every bit unset.
func New(size uint32, opts ...Option) (*BitVector, error) {
	b := &BitVector{}
	for _, opt := range opts {
		opt(b)
	}
	b.alloc = alloc.OrDefault(b.alloc)

	if err := b.resize(size); err != nil {
		return nil, err
	}
	return b, nil
}

// inlined reports whether a vector of the given size uses the inline word.
func inlined(size uint32) bool {
	return size <= InlineBits
}

func wordCount(size uint32) int {
	return int((uint64(size) + wordMask) / wordBits)
}

// lowMask returns a word with the low n bits set, for n in [0, 64].
func lowMask(n uint32) uint64 {
	if n >= wordBits {
		return allOnes
	}
	return (1 << n) - 1
}

// data returns the active storage. In inline mode it aliases the inline word.
func (b *BitVector) data() []uint64 {
	if inlined(b.size) {
		return b.inline[:]
	}
	return b.words
}

// clearTail zeroes the bits at positions >= size in the last word.
func (b *BitVector) clearTail() {
	d := b.data()
	if b.size == 0 {
		d[0] = 0
		return
	}
	last := (b.size - 1) / wordBits
	d[last] &= lowMask(b.size - last*wordBits)
}

func (b *BitVector) resize(n uint32) error {
	if n == b.size {
		return nil
	}

	from := b.size
	switch {
	case inlined(n) && inlined(from):
		b.size = n
		b.clearTail()
		return nil

	case inlined(n):
		w0 := b.words[0]
		alloc.Free(b.alloc, b.words)
		b.words = nil
		b.inline[0] = w0
		b.size = n
		b.clearTail()

	default:
		nw := wordCount(n)
		if !inlined(from) && nw == len(b.words) {
			b.size = n
			b.clearTail()
			return nil
		}

		words, err := alloc.Words(b.alloc, nw)
		if err != nil {
			if b.logger != nil {
				b.logger.Warn("bitvec: resize failed", "from", from, "to", n, "error", err)
			}
			return fmt.Errorf("bitvec: resize %d -> %d bits: %w", from, n, err)
		}
		copy(words, b.data())
		if inlined(from) {
			b.inline[0] = 0
		} else {
			alloc.Free(b.alloc, b.words)
		}
		b.words = words
		b.size = n
		b.clearTail()
	}

	if b.logger != nil && inlined(from) != inlined(n) {
		b.logger.Debug("bitvec: storage migrated", "from", from, "to", n, "inline", inlined(n))
	}
	return nil
}

// grow makes i addressable.
func (b *BitVector) grow(i uint32) error {
	if i < b.size {
		return nil
	}
	if i == math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrIndexTooLarge, i)
	}
	return b.resize(i + 1)
}

// Size returns the domain cardinality.
func (b *BitVector) Size() uint32 {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	return b.size
}

// Inline reports whether the content is stored in the inline word.
func (b *BitVector) Inline() bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	return inlined(b.size)
}

// Resize changes the domain to [0, n). Members below n are preserved.
func (b *BitVector) Resize(n uint32) error {
	b.guard.Enter()
	defer b.guard.Exit()

	return b.resize(n)
}

// Set adds i, growing the vector to i+1 bits if needed.
func (b *BitVector) Set(i uint32) error {
	b.guard.Enter()
	defer b.guard.Exit()

	if err := b.grow(i); err != nil {
		return err
	}
	b.data()[i/wordBits] |= 1 << (i & wordMask)
	return nil
}

// Unset removes i, growing the vector to i+1 bits if needed.
func (b *BitVector) Unset(i uint32) error {
	b.guard.Enter()
	defer b.guard.Exit()

	if err := b.grow(i); err != nil {
		return err
	}
	b.data()[i/wordBits] &^= 1 << (i & wordMask)
	return nil
}

// IsSet reports whether i is a member. Indices >= Size() are never members.
func (b *BitVector) IsSet(i uint32) bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	if i >= b.size {
		return false
	}
	return b.data()[i/wordBits]&(1<<(i&wordMask)) != 0
}

// Clear removes every member. The size is unchanged.
func (b *BitVector) Clear() {
	b.guard.Enter()
	defer b.guard.Exit()

	clear(b.data())
}

// SetAll adds every index in [0, Size()).
func (b *BitVector) SetAll() {
	b.guard.Enter()
	defer b.guard.Exit()

	d := b.data()
	for i := range d {
		d[i] = allOnes
	}
	b.clearTail()
}

// Invert complements membership over [0, Size()).
func (b *BitVector) Invert() {
	b.guard.Enter()
	defer b.guard.Exit()

	d := b.data()
	for i := range d {
		d[i] = ^d[i]
	}
	b.clearTail()
}

// IsEmpty reports whether there are no members.
func (b *BitVector) IsEmpty() bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	for _, w := range b.data() {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsEmptyRange reports whether [start, start+length) holds no members.
// The range must lie within [0, Size()); any part beyond it counts as empty.
func (b *BitVector) IsEmptyRange(start, length uint32) bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	end := uint64(start) + uint64(length)
	guard.Assert(end <= uint64(b.size), "range [%d, %d) exceeds size %d", start, end, b.size)
	if end > uint64(b.size) {
		end = uint64(b.size)
	}
	if uint64(start) >= end {
		return true
	}

	d := b.data()
	first := start / wordBits
	last := uint32((end - 1) / wordBits)
	for wi := first; wi <= last; wi++ {
		w := d[wi]
		if wi == first {
			w &= allOnes << (start & wordMask)
		}
		if wi == last {
			w &= lowMask(uint32(end-1)&wordMask + 1)
		}
		if w != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether b and other share a member.
func (b *BitVector) Intersects(other *BitVector) bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()
	if other != b {
		other.guard.EnterRead()
		defer other.guard.ExitRead()
	}

	if inlined(b.size) && inlined(other.size) {
		return b.inline[0]&other.inline[0] != 0
	}

	x, y := b.data(), other.data()
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		if x[i]&y[i] != 0 {
			return true
		}
	}
	return false
}

// NextMember returns the smallest member >= start, or Size() if there is none.
func (b *BitVector) NextMember(start uint32) uint32 {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	return b.nextMember(start)
}

func (b *BitVector) nextMember(start uint32) uint32 {
	if start >= b.size {
		return b.size
	}

	if inlined(b.size) {
		w := b.inline[0] & (allOnes << start)
		if w == 0 {
			return b.size
		}
		return uint32(bits.TrailingZeros64(w))
	}

	wi := int(start / wordBits)
	w := b.words[wi] & (allOnes << (start & wordMask))
	for {
		if w != 0 {
			return uint32(wi)*wordBits + uint32(bits.TrailingZeros64(w))
		}
		wi++
		if wi >= len(b.words) {
			return b.size
		}
		w = b.words[wi]
	}
}

// Min returns the smallest member.
func (b *BitVector) Min() (uint32, bool) {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	i := b.nextMember(0)
	return i, i < b.size
}

// Max returns the largest member.
func (b *BitVector) Max() (uint32, bool) {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	d := b.data()
	for wi := len(d) - 1; wi >= 0; wi-- {
		if w := d[wi]; w != 0 {
			return uint32(wi)*wordBits + uint32(wordBits-1-bits.LeadingZeros64(w)), true
		}
	}
	return 0, false
}

// Uint64 returns the low 64 bits of the vector.
func (b *BitVector) Uint64() uint64 {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	return b.data()[0]
}

// Equal reports whether b and other have the same size and members.
func (b *BitVector) Equal(other *BitVector) bool {
	b.guard.EnterRead()
	defer b.guard.ExitRead()
	if other == b {
		return true
	}
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	if b.size != other.size {
		return false
	}
	x, y := b.data(), other.data()
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Free releases heap storage and resets the vector to size 0.
func (b *BitVector) Free() {
	b.guard.Enter()
	defer b.guard.Exit()

	if b.words != nil {
		alloc.Free(b.alloc, b.words)
		b.words = nil
	}
	b.inline[0] = 0
	b.size = 0
}
