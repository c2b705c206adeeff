package ordmap

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/alloc/alloctest"
	"github.com/hupe1980/stdkit/internal/guard"
)

func mustInsert[K, V any](t *testing.T, m *Map[K, V], key K, value V) {
	t.Helper()
	require.NoError(t, m.Insert(key, value))
}

func keys[K, V any](m *Map[K, V]) []K {
	var out []K
	for k := range m.Keys() {
		out = append(out, k)
	}
	return out
}

func TestMap_MinNextRemoveMax(t *testing.T) {
	m := New[int, string]()
	for _, e := range []struct {
		k int
		v string
	}{{5, "e"}, {3, "c"}, {8, "h"}, {1, "a"}, {4, "d"}} {
		mustInsert(t, m, e.k, e.v)
	}

	k, v, ok := m.Min()
	require.True(t, ok)
	assert.Equal(t, 1, k)
	assert.Equal(t, "a", v)

	k, v, ok = m.Next(3)
	require.True(t, ok)
	assert.Equal(t, 4, k)
	assert.Equal(t, "d", v)

	v, ok = m.Remove(5)
	require.True(t, ok)
	assert.Equal(t, "e", v)

	k, v, ok = m.Max()
	require.True(t, ok)
	assert.Equal(t, 8, k)
	assert.Equal(t, "h", v)
	assert.Equal(t, 4, m.Len())
}

func TestMap_RemoveTwoChildren(t *testing.T) {
	m := New[int, int]()
	for _, k := range []int{5, 3, 8, 2, 4} {
		mustInsert(t, m, k, k*10)
	}

	_, ok := m.Remove(5)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 4, 8}, keys(m))

	v, ok := m.Get(4)
	require.True(t, ok)
	assert.Equal(t, 40, v)

	// The predecessor took the root's place.
	assert.Equal(t, 4, m.root.key)
	assert.Equal(t, 3, m.root.left.key)
	assert.Equal(t, 8, m.root.right.key)
}

func TestMap_RemoveShapes(t *testing.T) {
	tests := []struct {
		name   string
		insert []int
		remove int
		want   []int
	}{
		{name: "leaf", insert: []int{5, 3, 8}, remove: 3, want: []int{5, 8}},
		{name: "only left child", insert: []int{5, 3, 2}, remove: 3, want: []int{2, 5}},
		{name: "only right child", insert: []int{5, 3, 4}, remove: 3, want: []int{4, 5}},
		{name: "root with one child", insert: []int{5, 8}, remove: 5, want: []int{8}},
		{name: "predecessor has left child", insert: []int{10, 5, 15, 3, 8, 7}, remove: 10, want: []int{3, 5, 7, 8, 15}},
		{name: "missing", insert: []int{5, 3}, remove: 4, want: []int{3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New[int, int]()
			for _, k := range tt.insert {
				mustInsert(t, m, k, k)
			}
			m.Remove(tt.remove)
			assert.Equal(t, tt.want, keys(m))
			assert.Equal(t, len(tt.want), m.Len())
		})
	}
}

func TestMap_InsertIdempotentAndDuplicate(t *testing.T) {
	m := New[string, int]()
	mustInsert(t, m, "a", 1)
	mustInsert(t, m, "a", 1)
	assert.Equal(t, 1, m.Len())

	err := m.Insert("a", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError[string]
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Key)

	v, _ := m.Get("a")
	assert.Equal(t, 1, v)
	assert.Equal(t, uint64(1), m.Stats().Inserts)
}

func TestMap_Next(t *testing.T) {
	m := New[int, int]()
	for _, k := range []int{50, 30, 70, 20, 40, 60, 80, 35, 45} {
		mustInsert(t, m, k, k)
	}

	tests := []struct {
		key  int
		want int
		ok   bool
	}{
		{key: 20, want: 30, ok: true},
		{key: 30, want: 35, ok: true},
		{key: 45, want: 50, ok: true},
		{key: 50, want: 60, ok: true},
		{key: 80, ok: false},
		// absent keys
		{key: 0, want: 20, ok: true},
		{key: 36, want: 40, ok: true},
		{key: 46, want: 50, ok: true},
		{key: 65, want: 70, ok: true},
		{key: 99, ok: false},
	}
	for _, tt := range tests {
		k, _, ok := m.Next(tt.key)
		assert.Equal(t, tt.ok, ok, "key %d", tt.key)
		if tt.ok {
			assert.Equal(t, tt.want, k, "key %d", tt.key)
		}
	}

	_, _, ok := New[int, int]().Next(1)
	assert.False(t, ok)
}

func TestMap_DegenerateTree(t *testing.T) {
	const n = 5000
	m := New[int, int]()
	for i := 0; i < n; i++ {
		mustInsert(t, m, i, i)
	}
	assert.Equal(t, n, m.Height())
	assert.Equal(t, n, m.Stats().MaxDepth)

	count := 0
	for k, _, ok := m.Min(); ok; k, _, ok = m.Next(k) {
		assert.Equal(t, count, k)
		count++
	}
	assert.Equal(t, n, count)

	m.Clear()
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 0, m.Len())
}

func TestMap_RemoveMinMax(t *testing.T) {
	m := New[int, string]()
	_, _, ok := m.RemoveMin()
	assert.False(t, ok)
	_, _, ok = m.RemoveMax()
	assert.False(t, ok)

	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		mustInsert(t, m, k, "v")
	}

	k, _, ok := m.RemoveMin()
	require.True(t, ok)
	assert.Equal(t, 1, k)

	k, _, ok = m.RemoveMax()
	require.True(t, ok)
	assert.Equal(t, 7, k)

	// Root removal through RemoveMin promotes the right subtree.
	m2 := New[int, string]()
	mustInsert(t, m2, 1, "a")
	mustInsert(t, m2, 3, "c")
	mustInsert(t, m2, 2, "b")
	k, _, _ = m2.RemoveMin()
	assert.Equal(t, 1, k)
	assert.Equal(t, []int{2, 3}, keys(m2))

	assert.Equal(t, []int{2, 3, 4, 5, 6}, keys(m))
	assert.Equal(t, 5, m.Len())
}

func TestMap_EmptyAccessors(t *testing.T) {
	m := New[int, int]()
	assert.True(t, m.IsEmpty())
	_, _, ok := m.Min()
	assert.False(t, ok)
	_, _, ok = m.Max()
	assert.False(t, ok)
	_, ok = m.Get(1)
	assert.False(t, ok)
	_, ok = m.Remove(1)
	assert.False(t, ok)
	assert.False(t, m.Contains(1))
	assert.Equal(t, 0, m.Height())
}

func TestMap_NewFunc(t *testing.T) {
	// Case-insensitive keys, values compared by length.
	m := NewFunc[string, []byte](
		func(a, b string) bool { return strings.ToLower(a) < strings.ToLower(b) },
		func(a, b []byte) bool { return bytes.Equal(a, b) },
	)
	mustInsert(t, m, "Beta", []byte("b"))
	mustInsert(t, m, "alpha", []byte("a"))
	mustInsert(t, m, "BETA", []byte("b"))
	assert.ErrorIs(t, m.Insert("beta", []byte("x")), ErrDuplicateKey)

	assert.Equal(t, []string{"alpha", "Beta"}, keys(m))
	assert.True(t, m.Contains("ALPHA"))
}

func TestMap_AllocationFailure(t *testing.T) {
	a := alloctest.FailAfter(2)
	m := New[int, int](WithAllocator(a))
	mustInsert(t, m, 1, 1)
	mustInsert(t, m, 2, 2)

	err := m.Insert(3, 3)
	assert.ErrorIs(t, err, alloc.ErrAllocationFailed)
	assert.Equal(t, 2, m.Len())
	assert.False(t, m.Contains(3))
	assert.Equal(t, []int{1, 2}, keys(m))
}

func TestMap_ReleasesNodes(t *testing.T) {
	a := alloctest.New()
	m := New[int, string](WithAllocator(a))
	for _, k := range []int{5, 1, 9, 3, 7} {
		mustInsert(t, m, k, "x")
	}
	assert.Equal(t, 5, a.Live())

	m.Remove(5)
	m.RemoveMin()
	assert.Equal(t, 3, a.Live())

	m.Free()
	assert.Equal(t, 0, a.Live())
	assert.Equal(t, int64(0), a.InUse())
	assert.Equal(t, uint64(5), m.Stats().Removes)
}

func TestMap_AllStopsEarly(t *testing.T) {
	m := New[int, int]()
	for _, k := range []int{3, 1, 2} {
		mustInsert(t, m, k, k*k)
	}
	var got []int
	for k, v := range m.All() {
		got = append(got, v)
		if k == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 4}, got)
}

func TestMap_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := New[int, string](WithLogger(logger), WithAllocator(alloctest.FailAfter(2)))
	mustInsert(t, m, 2, "b")
	mustInsert(t, m, 1, "a")

	assert.Error(t, m.Insert(2, "z"))
	assert.Contains(t, buf.String(), "duplicate key")

	assert.Error(t, m.Insert(3, "c"))
	assert.Contains(t, buf.String(), "insert failed")

	buf.Reset()
	m.Dump(nil)
	out := buf.String()
	assert.Contains(t, out, "ordmap: dump")
	assert.Contains(t, out, "key=1")
	assert.Contains(t, out, "depth=2")
	assert.Less(t, strings.Index(out, "key=1"), strings.Index(out, "key=2"))
}

func TestMap_AccessorsCheckOverlappingWrite(t *testing.T) {
	if !guard.Enabled {
		t.Skip("access checks need the stdkitdebug tag")
	}
	m := New[int, int]()
	mustInsert(t, m, 1, 1)

	m.guard.Enter()
	defer m.guard.Exit()

	reads := map[string]func(){
		"Len":     func() { m.Len() },
		"IsEmpty": func() { m.IsEmpty() },
		"Stats":   func() { m.Stats() },
	}
	for name, read := range reads {
		assert.PanicsWithValue(t, "guard: read overlaps write", read, name)
	}
}
