package sparseset

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/internal/conv"
	"github.com/hupe1980/stdkit/internal/guard"
)

// Set is a subset of [0, Capacity()) with O(1) insert and remove and
// O(cardinality) clear.
type Set struct {
	guard guard.Guard

	capacity   uint32
	membership []uint32 // position in members, or a tombstone >= capacity
	members    []uint32 // present indices in [0, setSize), with holes
	setSize    uint32   // used prefix of members, holes included
	count      uint32   // live members
	genKey     uint32   // current tombstone, always >= capacity
	firstHole  uint32   // members[0:firstHole) has no holes

	ordered      bool
	unsortedFrom uint32 // members[0:unsortedFrom) is ascending, holes included

	alloc  alloc.Allocator
	logger *slog.Logger
}

// Option configures a Set.
type Option func(*Set)

// WithAllocator sets the allocator for the membership arrays. Defaults to alloc.Default().
func WithAllocator(a alloc.Allocator) Option {
	return func(s *Set) {
		s.alloc = a
	}
}

// WithLogger sets the logger for resize events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Set) {
		s.logger = l
	}
}

// New creates an empty Set whose Members are reported in insertion order.
func New(capacity uint32, opts ...Option) (*Set, error) {
	return newSet(capacity, false, opts)
}

// NewOrdered creates an empty Set whose Members are reported in ascending order.
func NewOrdered(capacity uint32, opts ...Option) (*Set, error) {
	return newSet(capacity, true, opts)
}

func newSet(capacity uint32, ordered bool, opts []Option) (*Set, error) {
	s := &Set{ordered: ordered}
	for _, opt := range opts {
		opt(s)
	}
	s.alloc = alloc.OrDefault(s.alloc)

	membership, members, err := s.allocArrays(capacity)
	if err != nil {
		return nil, err
	}
	s.membership = membership
	s.members = members
	s.capacity = capacity
	s.genKey = capacity
	for i := range s.membership {
		s.membership[i] = s.genKey
	}
	return s, nil
}

func (s *Set) allocArrays(capacity uint32) ([]uint32, []uint32, error) {
	n, err := conv.Uint32ToInt(capacity)
	if err != nil {
		return nil, nil, fmt.Errorf("sparseset: capacity %d: %w: %w", capacity, alloc.ErrAllocationFailed, err)
	}
	membership, err := alloc.Uint32s(s.alloc, n)
	if err != nil {
		return nil, nil, fmt.Errorf("sparseset: allocate capacity %d: %w", capacity, err)
	}
	members, err := alloc.Uint32s(s.alloc, n)
	if err != nil {
		alloc.Free(s.alloc, membership)
		return nil, nil, fmt.Errorf("sparseset: allocate capacity %d: %w", capacity, err)
	}
	return membership, members, nil
}

// nextGeneration advances the tombstone value, wrapping back to capacity.
func (s *Set) nextGeneration() {
	if s.genKey == math.MaxUint32 {
		s.genKey = s.capacity
		return
	}
	s.genKey++
}

func (s *Set) present(i uint32) bool {
	return i < s.capacity && s.membership[i] < s.capacity
}

// live reports whether members[p] is the current position of its index.
func (s *Set) live(p uint32) bool {
	return s.membership[s.members[p]] == p
}

// Capacity returns the size of the domain.
func (s *Set) Capacity() uint32 {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return s.capacity
}

// Ordered reports whether Members is sorted.
func (s *Set) Ordered() bool {
	return s.ordered
}

// Generation returns the current tombstone value. It changes on every ClearBits.
func (s *Set) Generation() uint32 {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return s.genKey
}

// Len returns the number of members.
func (s *Set) Len() int {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return int(s.count)
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return s.count == 0
}

// IsDirty reports whether the member list has holes or an unsorted suffix
// that the next Members call will fix up.
func (s *Set) IsDirty() bool {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return s.firstHole < s.setSize || (s.ordered && s.unsortedFrom < s.setSize)
}

// IsSet reports whether i is a member. Indices outside the domain are never members.
func (s *Set) IsSet(i uint32) bool {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	return s.present(i)
}

// SetBit adds i and reports whether it was newly added.
// i must be below Capacity().
func (s *Set) SetBit(i uint32) bool {
	s.guard.Enter()
	defer s.guard.Exit()

	return s.setBit(i)
}

func (s *Set) setBit(i uint32) bool {
	guard.Assert(i < s.capacity, "index %d out of range [0, %d)", i, s.capacity)
	if i >= s.capacity || s.membership[i] < s.capacity {
		return false
	}
	if s.setSize == s.capacity {
		s.compact()
	}

	pos := s.setSize
	s.members[pos] = i
	s.membership[i] = pos
	s.setSize++
	s.count++
	if s.firstHole == pos {
		s.firstHole = s.setSize
	}
	// Holes keep their stale index, so the slot before pos is an exact bound
	// for the ascending prefix.
	if s.unsortedFrom == pos && (pos == 0 || i > s.members[pos-1]) {
		s.unsortedFrom = s.setSize
	}
	return true
}

// SetBits adds every index in [start, start+count) that lies in the domain
// and returns how many were newly added.
func (s *Set) SetBits(start, count uint32) int {
	s.guard.Enter()
	defer s.guard.Exit()

	end := min(uint64(start)+uint64(count), uint64(s.capacity))
	added := 0
	for i := uint64(start); i < end; i++ {
		if s.setBit(uint32(i)) {
			added++
		}
	}
	return added
}

// UnsetBit removes i and reports whether it was a member.
func (s *Set) UnsetBit(i uint32) bool {
	s.guard.Enter()
	defer s.guard.Exit()

	return s.unsetBit(i)
}

func (s *Set) unsetBit(i uint32) bool {
	if !s.present(i) {
		return false
	}
	pos := s.membership[i]
	s.membership[i] = s.genKey
	s.count--

	if pos == s.setSize-1 {
		s.setSize--
		s.firstHole = min(s.firstHole, s.setSize)
		s.unsortedFrom = min(s.unsortedFrom, s.setSize)
		return true
	}
	s.firstHole = min(s.firstHole, pos)
	return true
}

// ClearBits removes every member in O(cardinality).
func (s *Set) ClearBits() {
	s.guard.Enter()
	defer s.guard.Exit()

	s.clearBits()
}

func (s *Set) clearBits() {
	s.nextGeneration()
	for p := uint32(0); p < s.setSize; p++ {
		if s.live(p) {
			s.membership[s.members[p]] = s.genKey
		}
	}
	s.setSize = 0
	s.count = 0
	s.firstHole = 0
	s.unsortedFrom = 0
}

// compact moves live entries down over holes, starting at the earliest hole.
func (s *Set) compact() {
	if s.firstHole >= s.setSize {
		return
	}

	unsortedFrom := s.unsortedFrom
	w := s.firstHole
	for r := s.firstHole; r < s.setSize; r++ {
		if r == s.unsortedFrom {
			unsortedFrom = w
		}
		if !s.live(r) {
			continue
		}
		i := s.members[r]
		s.members[w] = i
		s.membership[i] = w
		w++
	}
	if s.unsortedFrom >= s.setSize {
		unsortedFrom = w
	}

	s.setSize = w
	s.firstHole = w
	s.unsortedFrom = unsortedFrom
}

// sortSuffix insertion-sorts members from the earliest out-of-order position.
func (s *Set) sortSuffix() {
	s.compact()
	for j := max(s.unsortedFrom, 1); j < s.setSize; j++ {
		v := s.members[j]
		k := j
		for k > 0 && s.members[k-1] > v {
			s.members[k] = s.members[k-1]
			s.membership[s.members[k]] = k
			k--
		}
		s.members[k] = v
		s.membership[v] = k
	}
	s.unsortedFrom = s.setSize
}

func (s *Set) normalize() {
	if s.ordered {
		s.sortSuffix()
		return
	}
	s.compact()
}

// Members returns the current members: ascending for an ordered Set,
// insertion order otherwise. The slice aliases internal storage and is
// valid until the next mutation.
func (s *Set) Members() []uint32 {
	s.guard.Enter()
	defer s.guard.Exit()

	s.normalize()
	return s.members[:s.setSize:s.setSize]
}

// Resize changes the domain to [0, capacity). Members below the new capacity
// survive. On allocation failure the set is unchanged.
func (s *Set) Resize(capacity uint32) error {
	s.guard.Enter()
	defer s.guard.Exit()

	membership, members, err := s.allocArrays(capacity)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("sparseset: resize failed", "from", s.capacity, "to", capacity, "error", err)
		}
		return err
	}

	s.normalize()
	for i := range membership {
		membership[i] = capacity
	}
	var w uint32
	for _, i := range s.members[:s.setSize] {
		if i < capacity {
			members[w] = i
			membership[i] = w
			w++
		}
	}

	if s.logger != nil {
		s.logger.Debug("sparseset: resized", "from", s.capacity, "to", capacity, "kept", w, "dropped", s.count-w)
	}

	s.releaseArrays()
	s.membership = membership
	s.members = members
	s.capacity = capacity
	s.genKey = capacity
	s.setSize = w
	s.count = w
	s.firstHole = w
	s.unsortedFrom = w
	return nil
}

// Free releases both arrays and leaves an empty set of capacity 0.
func (s *Set) Free() {
	s.guard.Enter()
	defer s.guard.Exit()

	s.releaseArrays()
	s.capacity = 0
	s.genKey = 0
	s.setSize = 0
	s.count = 0
	s.firstHole = 0
	s.unsortedFrom = 0
}

func (s *Set) releaseArrays() {
	alloc.Free(s.alloc, s.membership)
	alloc.Free(s.alloc, s.members)
	s.membership = nil
	s.members = nil
}
