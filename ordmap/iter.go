package ordmap

import (
	"context"
	"iter"
	"log/slog"
)

// All returns an iterator over the entries in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.guard.EnterRead()
		defer m.guard.ExitRead()

		var buf [32]*node[K, V]
		stack := buf[:0]
		n := m.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.key, n.value) {
				return
			}
			n = n.right
		}
	}
}

// Keys returns an iterator over the keys in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (m *Map[K, V]) Height() int {
	m.guard.EnterRead()
	defer m.guard.ExitRead()

	type frame struct {
		n     *node[K, V]
		depth int
	}
	if m.root == nil {
		return 0
	}
	height := 0
	stack := []frame{{m.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, f.depth)
		if f.n.left != nil {
			stack = append(stack, frame{f.n.left, f.depth + 1})
		}
		if f.n.right != nil {
			stack = append(stack, frame{f.n.right, f.depth + 1})
		}
	}
	return height
}

// Dump logs every entry with its depth at debug level, in key order.
// A nil logger falls back to the one configured with WithLogger.
func (m *Map[K, V]) Dump(logger *slog.Logger) {
	if logger == nil {
		logger = m.logger
	}
	if logger == nil {
		return
	}

	m.guard.EnterRead()
	defer m.guard.ExitRead()

	ctx := context.Background()
	logger.DebugContext(ctx, "ordmap: dump",
		"len", m.len,
		"inserts", m.stats.Inserts,
		"removes", m.stats.Removes,
		"max_depth", m.stats.MaxDepth,
	)
	m.walk(m.root, 1, func(n *node[K, V], depth int) {
		logger.DebugContext(ctx, "ordmap: entry", "key", n.key, "value", n.value, "depth", depth)
	})
}

// walk visits nodes in order with an explicit stack.
func (m *Map[K, V]) walk(root *node[K, V], depth int, fn func(n *node[K, V], depth int)) {
	type frame struct {
		n     *node[K, V]
		depth int
	}
	var stack []frame
	n, d := root, depth
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, frame{n, d})
			n, d = n.left, d+1
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.n, f.depth)
		n, d = f.n.right, f.depth+1
	}
}
