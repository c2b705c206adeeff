package bitvec

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/stdkit/internal/popcount"
)

// Count returns the number of members.
func (b *BitVector) Count() uint32 {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	return uint32(popcount.Words(b.data()))
}

// CountThrough returns the number of members in [0, limit].
// It scans bit by bit and is meant for short prefixes.
func (b *BitVector) CountThrough(limit uint32) uint32 {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	if b.size == 0 {
		return 0
	}
	limit = min(limit, b.size-1)

	d := b.data()
	var n uint32
	for i := uint32(0); ; i++ {
		if d[i/wordBits]&(1<<(i&wordMask)) != 0 {
			n++
		}
		if i == limit {
			return n
		}
	}
}

// Union adds every member of other. The vector grows to other's size if smaller.
func (b *BitVector) Union(other *BitVector) error {
	return b.combine(other, func(x, y uint64) uint64 { return x | y }, false)
}

// Intersect keeps only members also present in other. The vector grows to
// other's size if smaller; members beyond other's size are removed.
func (b *BitVector) Intersect(other *BitVector) error {
	return b.combine(other, func(x, y uint64) uint64 { return x & y }, true)
}

// Difference removes every member of other. The vector grows to other's size if smaller.
func (b *BitVector) Difference(other *BitVector) error {
	return b.combine(other, func(x, y uint64) uint64 { return x &^ y }, false)
}

// combine applies op word by word. When clearRest is set, words of b past
// the end of other are zeroed.
func (b *BitVector) combine(other *BitVector, op func(x, y uint64) uint64, clearRest bool) error {
	b.guard.Enter()
	defer b.guard.Exit()
	if other == b {
		d := b.data()
		for i := range d {
			d[i] = op(d[i], d[i])
		}
		return nil
	}
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	if other.size > b.size {
		if err := b.resize(other.size); err != nil {
			return err
		}
	}

	x, y := b.data(), other.data()
	for i := range y {
		x[i] = op(x[i], y[i])
	}
	if clearRest {
		clear(x[len(y):])
	}
	b.clearTail()
	return nil
}

// CopyFrom makes b an exact copy of other, size included.
// On allocation failure b is unchanged.
func (b *BitVector) CopyFrom(other *BitVector) error {
	b.guard.Enter()
	defer b.guard.Exit()
	if other == b {
		return nil
	}
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	if err := b.resize(other.size); err != nil {
		return err
	}
	copy(b.data(), other.data())
	return nil
}

// Clone returns a copy of b that uses the same allocator and logger.
func (b *BitVector) Clone() (*BitVector, error) {
	b.guard.EnterRead()
	defer b.guard.ExitRead()

	c, err := New(b.size, WithAllocator(b.alloc), WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	copy(c.data(), b.data())
	return c, nil
}

// All returns an iterator over the members in ascending order.
func (b *BitVector) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		b.guard.EnterRead()
		defer b.guard.ExitRead()

		for i := b.nextMember(0); i < b.size; i = b.nextMember(i + 1) {
			if !yield(i) {
				return
			}
		}
	}
}

// ToRoaring returns the members as a roaring bitmap.
func (b *BitVector) ToRoaring() *roaring.Bitmap {
	rb := roaring.New()
	for i := range b.All() {
		rb.Add(i)
	}
	return rb
}

// FromRoaring builds a BitVector sized to hold the largest member of rb.
func FromRoaring(rb *roaring.Bitmap, opts ...Option) (*BitVector, error) {
	var size uint32
	if !rb.IsEmpty() {
		maximum := rb.Maximum()
		if maximum == ^uint32(0) {
			return nil, fmt.Errorf("%w: %d", ErrIndexTooLarge, maximum)
		}
		size = maximum + 1
	}

	b, err := New(size, opts...)
	if err != nil {
		return nil, err
	}

	d := b.data()
	it := rb.Iterator()
	for it.HasNext() {
		i := it.Next()
		d[i/wordBits] |= 1 << (i & wordMask)
	}
	return b, nil
}

// String returns the members in set notation, e.g. "{0 2 5}".
func (b *BitVector) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := range b.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}
