package stdkit_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/stdkit"
)

// Example_bitVector demonstrates a growing bit vector.
func Example_bitVector() {
	tk := stdkit.New()

	bv, err := tk.NewBitVector(0)
	if err != nil {
		log.Fatal(err)
	}
	defer bv.Free()

	for _, i := range []uint32{3, 5, 64} {
		if err := bv.Set(i); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println(bv, bv.Count(), bv.Size())
	// Output: {3 5 64} 3 65
}

// Example_sparseSet demonstrates an ordered sparse set with cheap clearing.
func Example_sparseSet() {
	tk := stdkit.New()

	seen, err := tk.NewOrderedSparseSet(16)
	if err != nil {
		log.Fatal(err)
	}
	defer seen.Free()

	seen.SetBit(9)
	seen.SetBit(2)
	seen.SetBit(5)
	fmt.Println(seen.Members())

	seen.ClearBits()
	fmt.Println(seen.Len(), seen.IsSet(9))
	// Output:
	// [2 5 9]
	// 0 false
}

// Example_orderedMap demonstrates ordered iteration and successor lookup.
func Example_orderedMap() {
	tk := stdkit.New()

	m := stdkit.NewOrderedMap[string, int](tk)
	defer m.Free()

	for i, k := range []string{"c", "a", "b"} {
		if err := m.Insert(k, i); err != nil {
			log.Fatal(err)
		}
	}

	for k, v := range m.All() {
		fmt.Println(k, v)
	}

	k, _, _ := m.Next("a")
	fmt.Println("after a:", k)

	err := m.Insert("a", 42)
	fmt.Println(errors.Is(err, stdkit.ErrDuplicateKey))
	// Output:
	// a 1
	// b 2
	// c 0
	// after a: b
	// true
}

// Example_memoryLimit demonstrates a Toolkit with a hard memory budget.
func Example_memoryLimit() {
	tk := stdkit.New(stdkit.WithMemoryLimit(256))

	_, err := tk.NewSparseSet(64)
	fmt.Println(errors.Is(err, stdkit.ErrMemoryLimitExceeded), tk.MemoryUsage())

	s, err := tk.NewSparseSet(32)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tk.MemoryUsage())

	s.Free()
	fmt.Println(tk.MemoryUsage())
	// Output:
	// true 0
	// 256
	// 0
}

// Example_metrics demonstrates collecting allocator metrics.
func Example_metrics() {
	mc := &stdkit.BasicMetricsCollector{}
	tk := stdkit.New(stdkit.WithMetricsCollector(mc))

	m := stdkit.NewOrderedMap[int, int](tk)
	for i := range 10 {
		_ = m.Insert(i, i*i)
	}
	m.Free()

	stats := mc.GetStats()
	fmt.Println(stats.AllocCount, stats.DeallocCount, stats.BytesInUse)
	// Output: 10 10 0
}
