package sparseset

import (
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const capacity = 64

// apply decodes step as a set, unset or clear and mirrors it in oracle.
func apply(s *Set, oracle *roaring.Bitmap, step uint32) {
	i := (step / 8) % capacity
	switch step % 8 {
	case 0, 1, 2, 3:
		s.SetBit(i)
		oracle.Add(i)
	case 4, 5, 6:
		s.UnsetBit(i)
		oracle.Remove(i)
	case 7:
		if step%64 == 7 {
			s.ClearBits()
			oracle.Clear()
		}
	}
}

func replay(s *Set, oracle *roaring.Bitmap, steps []uint32) {
	for _, step := range steps {
		apply(s, oracle, step)
	}
}

func ascending(members []uint32) bool {
	for k := 1; k < len(members); k++ {
		if members[k-1] >= members[k] {
			return false
		}
	}
	return true
}

func TestSet_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	steps := gen.SliceOf(gen.UInt32Range(0, 8*capacity*4))

	properties.Property("membership matches oracle", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := New(capacity)
			oracle := roaring.New()
			replay(s, oracle, steps)
			for i := uint32(0); i < capacity; i++ {
				if s.IsSet(i) != oracle.Contains(i) {
					return false
				}
			}
			return s.Len() == int(oracle.GetCardinality())
		},
		steps,
	))

	properties.Property("clear leaves nothing present", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := New(capacity)
			replay(s, roaring.New(), steps)
			s.ClearBits()
			if s.Len() != 0 || len(s.Members()) != 0 {
				return false
			}
			for i := uint32(0); i < capacity; i++ {
				if s.IsSet(i) {
					return false
				}
			}
			return true
		},
		steps,
	))

	properties.Property("ordered members are strictly ascending", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := NewOrdered(capacity)
			oracle := roaring.New()
			replay(s, oracle, steps)
			members := s.Members()
			return ascending(members) && slices.Equal(members, oracle.ToArray())
		},
		steps,
	))

	properties.Property("ordered members are ascending after every step", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := NewOrdered(capacity)
			oracle := roaring.New()
			for _, step := range steps {
				apply(s, oracle, step)
				if !slices.Equal(s.Members(), oracle.ToArray()) {
					return false
				}
			}
			return true
		},
		steps,
	))

	properties.Property("clean ordered set is already sorted", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := NewOrdered(capacity)
			oracle := roaring.New()
			for _, step := range steps {
				apply(s, oracle, step)
				if !s.IsDirty() && !slices.Equal(s.members[:s.setSize], oracle.ToArray()) {
					return false
				}
			}
			return true
		},
		steps,
	))

	properties.Property("unordered members match oracle as a set", prop.ForAll(
		func(steps []uint32) bool {
			s, _ := New(capacity)
			oracle := roaring.New()
			replay(s, oracle, steps)
			members := slices.Clone(s.Members())
			slices.Sort(members)
			if !slices.Equal(members, oracle.ToArray()) {
				return false
			}
			for p, i := range s.Members() {
				if s.membership[i] != uint32(p) {
					return false
				}
			}
			return !s.IsDirty()
		},
		steps,
	))

	properties.Property("resize keeps members below new capacity", prop.ForAll(
		func(steps []uint32, newCap uint32) bool {
			s, _ := NewOrdered(capacity)
			oracle := roaring.New()
			replay(s, oracle, steps)
			if s.Resize(newCap) != nil {
				return false
			}
			oracle.RemoveRange(uint64(newCap), capacity)
			return slices.Equal(s.Members(), oracle.ToArray())
		},
		steps,
		gen.UInt32Range(0, 2*capacity),
	))

	properties.TestingRun(t)
}
