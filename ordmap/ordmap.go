package ordmap

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/internal/guard"
)

// ErrDuplicateKey is returned when a key is inserted again with a different value.
var ErrDuplicateKey = errors.New("ordmap: duplicate key")

// DuplicateKeyError reports the conflicting key. It unwraps to ErrDuplicateKey.
type DuplicateKeyError[K any] struct {
	Key K
}

func (e *DuplicateKeyError[K]) Error() string {
	return fmt.Sprintf("ordmap: duplicate key %v", e.Key)
}

func (e *DuplicateKeyError[K]) Unwrap() error { return ErrDuplicateKey }

type node[K, V any] struct {
	key         K
	value       V
	left, right *node[K, V]
}

// Stats holds lifetime counters of a Map.
type Stats struct {
	Inserts  uint64 // nodes added
	Removes  uint64 // nodes removed, including by Clear
	MaxDepth int    // deepest insertion observed (root is depth 1)
}

// Map is an ordered map from K to V.
type Map[K, V any] struct {
	guard guard.Guard

	root  *node[K, V]
	len   int
	less  func(a, b K) bool
	equal func(a, b V) bool
	stats Stats

	alloc  alloc.Allocator
	logger *slog.Logger
}

type options struct {
	alloc  alloc.Allocator
	logger *slog.Logger
}

// Option configures a Map.
type Option func(*options)

// WithAllocator sets the allocator charged for every node. Defaults to alloc.Default().
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithLogger sets the logger for insert conflicts and allocation failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an empty Map ordered by cmp.Less.
func New[K cmp.Ordered, V comparable](opts ...Option) *Map[K, V] {
	return NewFunc[K, V](cmp.Less[K], func(a, b V) bool { return a == b }, opts...)
}

// NewFunc creates an empty Map with a strict weak order on keys and an
// equality on values.
func NewFunc[K, V any](less func(a, b K) bool, equal func(a, b V) bool, opts ...Option) *Map[K, V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Map[K, V]{
		less:   less,
		equal:  equal,
		alloc:  alloc.OrDefault(o.alloc),
		logger: o.logger,
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	return m.len
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	return m.root == nil
}

// Stats returns the lifetime counters.
func (m *Map[K, V]) Stats() Stats {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	return m.stats
}

// Insert adds key with value. Inserting an existing key with an equal value
// is a no-op; with a different value it fails with ErrDuplicateKey and the
// map is unchanged.
func (m *Map[K, V]) Insert(key K, value V) error {
	m.guard.Enter()
	defer m.guard.Exit()

	link := &m.root
	depth := 1
	for n := *link; n != nil; n = *link {
		switch {
		case m.less(key, n.key):
			link = &n.left
		case m.less(n.key, key):
			link = &n.right
		default:
			if m.equal(n.value, value) {
				return nil
			}
			if m.logger != nil {
				m.logger.Debug("ordmap: duplicate key", "key", key)
			}
			return &DuplicateKeyError[K]{Key: key}
		}
		depth++
	}

	n, err := alloc.New[node[K, V]](m.alloc)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("ordmap: insert failed", "key", key, "error", err)
		}
		return fmt.Errorf("ordmap: insert: %w", err)
	}
	n.key = key
	n.value = value
	*link = n

	m.len++
	m.stats.Inserts++
	m.stats.MaxDepth = max(m.stats.MaxDepth, depth)
	return nil
}

func (m *Map[K, V]) find(key K) *node[K, V] {
	n := m.root
	for n != nil {
		switch {
		case m.less(key, n.key):
			n = n.left
		case m.less(n.key, key):
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	if n := m.find(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	return m.find(key) != nil
}

func leftmost[K, V any](n *node[K, V]) *node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func rightmost[K, V any](n *node[K, V]) *node[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}

// Min returns the entry with the smallest key.
func (m *Map[K, V]) Min() (K, V, bool) {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	if m.root == nil {
		return zeroEntry[K, V]()
	}
	n := leftmost(m.root)
	return n.key, n.value, true
}

// Max returns the entry with the largest key.
func (m *Map[K, V]) Max() (K, V, bool) {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	if m.root == nil {
		return zeroEntry[K, V]()
	}
	n := rightmost(m.root)
	return n.key, n.value, true
}

// Next returns the entry with the smallest key strictly greater than key.
// key itself need not be present.
func (m *Map[K, V]) Next(key K) (K, V, bool) {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	if n := m.successor(key); n != nil {
		return n.key, n.value, true
	}
	return zeroEntry[K, V]()
}

// successor walks from the root, keeping the path on a stack.
func (m *Map[K, V]) successor(key K) *node[K, V] {
	var buf [32]*node[K, V]
	path := buf[:0]

	n := m.root
	for n != nil {
		switch {
		case m.less(key, n.key):
			path = append(path, n)
			n = n.left
		case m.less(n.key, key):
			path = append(path, n)
			n = n.right
		default:
			if n.right != nil {
				return leftmost(n.right)
			}
			return popToLeftEdge(path, n)
		}
	}

	// key is absent: n fell off below the last node on the path.
	if len(path) == 0 {
		return nil
	}
	last := path[len(path)-1]
	if m.less(key, last.key) {
		return last
	}
	return popToLeftEdge(path[:len(path)-1], last)
}

// popToLeftEdge pops ancestors while cur is their right child and returns
// the first ancestor reached through its left edge.
func popToLeftEdge[K, V any](path []*node[K, V], cur *node[K, V]) *node[K, V] {
	for len(path) > 0 {
		parent := path[len(path)-1]
		path = path[:len(path)-1]
		if parent.right != cur {
			return parent
		}
		cur = parent
	}
	return nil
}

// Remove deletes key and returns its value.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	m.guard.Enter()
	defer m.guard.Exit()

	link := &m.root
	for n := *link; n != nil; n = *link {
		switch {
		case m.less(key, n.key):
			link = &n.left
		case m.less(n.key, key):
			link = &n.right
		default:
			switch {
			case n.left == nil:
				*link = n.right
			case n.right == nil:
				*link = n.left
			default:
				pred := removeMax(&n.left)
				pred.left = n.left
				pred.right = n.right
				*link = pred
			}
			value := n.value
			m.release(n)
			return value, true
		}
	}
	var zero V
	return zero, false
}

// removeMax unlinks the rightmost node below link and promotes its left child.
func removeMax[K, V any](link **node[K, V]) *node[K, V] {
	for (*link).right != nil {
		link = &(*link).right
	}
	n := *link
	*link = n.left
	n.left = nil
	return n
}

// removeMin unlinks the leftmost node below link and promotes its right child.
func removeMin[K, V any](link **node[K, V]) *node[K, V] {
	for (*link).left != nil {
		link = &(*link).left
	}
	n := *link
	*link = n.right
	n.right = nil
	return n
}

// RemoveMin deletes and returns the entry with the smallest key.
func (m *Map[K, V]) RemoveMin() (K, V, bool) {
	m.guard.Enter()
	defer m.guard.Exit()

	if m.root == nil {
		return zeroEntry[K, V]()
	}
	n := removeMin(&m.root)
	key, value := n.key, n.value
	m.release(n)
	return key, value, true
}

// RemoveMax deletes and returns the entry with the largest key.
func (m *Map[K, V]) RemoveMax() (K, V, bool) {
	m.guard.Enter()
	defer m.guard.Exit()

	if m.root == nil {
		return zeroEntry[K, V]()
	}
	n := removeMax(&m.root)
	key, value := n.key, n.value
	m.release(n)
	return key, value, true
}

// Clear removes every entry by repeatedly detaching the minimum node.
func (m *Map[K, V]) Clear() {
	m.guard.Enter()
	defer m.guard.Exit()

	for m.root != nil {
		m.release(removeMin(&m.root))
	}
}

// Free removes every entry. It is the same as Clear.
func (m *Map[K, V]) Free() {
	m.Clear()
}

func (m *Map[K, V]) release(n *node[K, V]) {
	*n = node[K, V]{}
	alloc.Delete(m.alloc, n)
	m.len--
	m.stats.Removes++
}

func zeroEntry[K, V any]() (K, V, bool) {
	var (
		k K
		v V
	)
	return k, v, false
}
