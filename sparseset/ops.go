package sparseset

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// All returns an iterator over the members in Members order.
func (s *Set) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		s.guard.Enter()
		s.normalize()
		s.guard.Exit()

		s.guard.EnterRead()
		defer s.guard.ExitRead()
		for _, i := range s.members[:s.setSize] {
			if !yield(i) {
				return
			}
		}
	}
}

// each calls fn for every live member without compacting.
func (s *Set) each(fn func(i uint32) bool) {
	for p := uint32(0); p < s.setSize; p++ {
		if s.live(p) && !fn(s.members[p]) {
			return
		}
	}
}

// Intersects reports whether s and other share a member.
func (s *Set) Intersects(other *Set) bool {
	s.guard.EnterRead()
	defer s.guard.ExitRead()
	if other != s {
		other.guard.EnterRead()
		defer other.guard.ExitRead()
	}

	small, large := s, other
	if other.count < s.count {
		small, large = other, s
	}
	found := false
	small.each(func(i uint32) bool {
		found = large.present(i)
		return !found
	})
	return found
}

// Union adds every member of other that lies within this set's domain.
func (s *Set) Union(other *Set) {
	if other == s {
		return
	}
	s.guard.Enter()
	defer s.guard.Exit()
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	other.each(func(i uint32) bool {
		if i < s.capacity {
			s.setBit(i)
		}
		return true
	})
}

// Intersect removes every member not present in other.
func (s *Set) Intersect(other *Set) {
	if other == s {
		return
	}
	s.guard.Enter()
	defer s.guard.Exit()
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	s.each(func(i uint32) bool {
		if !other.present(i) {
			s.unsetBit(i)
		}
		return true
	})
}

// Difference removes every member of other.
func (s *Set) Difference(other *Set) {
	s.guard.Enter()
	defer s.guard.Exit()
	if other == s {
		s.clearBits()
		return
	}
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	other.each(func(i uint32) bool {
		s.unsetBit(i)
		return true
	})
}

// Equal reports whether s and other hold the same members.
// Capacity and ordering are not compared.
func (s *Set) Equal(other *Set) bool {
	if other == s {
		return true
	}
	s.guard.EnterRead()
	defer s.guard.ExitRead()
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	if s.count != other.count {
		return false
	}
	equal := true
	s.each(func(i uint32) bool {
		equal = other.present(i)
		return equal
	})
	return equal
}

// CopyFrom replaces the contents of s with those of other, taking over its
// capacity. On allocation failure s is unchanged.
func (s *Set) CopyFrom(other *Set) error {
	if other == s {
		return nil
	}
	s.guard.Enter()
	defer s.guard.Exit()
	other.guard.EnterRead()
	defer other.guard.ExitRead()

	if other.capacity != s.capacity {
		membership, members, err := s.allocArrays(other.capacity)
		if err != nil {
			return err
		}
		s.releaseArrays()
		s.membership = membership
		s.members = members
		s.capacity = other.capacity
		s.genKey = other.capacity
		for i := range s.membership {
			s.membership[i] = s.genKey
		}
		s.setSize, s.count, s.firstHole, s.unsortedFrom = 0, 0, 0, 0
	} else {
		s.clearBits()
	}

	other.each(func(i uint32) bool {
		s.setBit(i)
		return true
	})
	return nil
}

// ToRoaring returns the members as a roaring bitmap.
func (s *Set) ToRoaring() *roaring.Bitmap {
	s.guard.EnterRead()
	defer s.guard.ExitRead()

	rb := roaring.New()
	s.each(func(i uint32) bool {
		rb.Add(i)
		return true
	})
	return rb
}
