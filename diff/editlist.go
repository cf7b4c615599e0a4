package diff

import "github.com/cloudcmds/refit/ast"

// The dynamic-programming table holds an edit script and a node mapping in
// every cell. Both are represented as persistent singly linked lists so
// that extending a cell shares the predecessor's tail instead of copying
// it.

// editList is a persistent list of operations. head is the most recently
// appended operation; chronological order is reconstructed by slice().
type editList struct {
	op   Operation
	prev *editList
	size int
}

func (l *editList) push(op Operation) *editList {
	size := 1
	if l != nil {
		size = l.size + 1
	}
	return &editList{op: op, prev: l, size: size}
}

func (l *editList) len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// slice returns the operations in chronological (append) order.
func (l *editList) slice() []Operation {
	if l == nil {
		return nil
	}
	out := make([]Operation, l.size)
	for i := l.size - 1; l != nil; i, l = i-1, l.prev {
		out[i] = l.op
	}
	return out
}

// concat returns a list holding l's operations followed by other's. The
// shared structure of l is reused; other's entries are re-pushed.
func (l *editList) concat(other *editList) *editList {
	out := l
	for _, op := range other.slice() {
		out = out.push(op)
	}
	return out
}

// mapList is a persistent association list from after-tree nodes to
// before-tree nodes. The head is the most recent entry and wins when the
// list is materialized.
type mapList struct {
	from *ast.Node // after-tree node
	to   *ast.Node // before-tree node
	prev *mapList
}

func (m *mapList) push(from, to *ast.Node) *mapList {
	return &mapList{from: from, to: to, prev: m}
}

// merge combines an outer mapping with the mapping of an inner subtree
// match. The inner mapping's entries are placed in front so that, on
// conflict by key or by value, the inner subtree wins.
func (m *mapList) merge(inner *mapList) *mapList {
	// Collect inner entries newest-first, then re-push them oldest-first
	// so their relative recency is preserved on top of m.
	var entries []*mapList
	for e := inner; e != nil; e = e.prev {
		entries = append(entries, e)
	}
	out := m
	for i := len(entries) - 1; i >= 0; i-- {
		out = out.push(entries[i].from, entries[i].to)
	}
	return out
}

// materialize resolves the association list into a partial bijection:
// walking from the most recent entry, an entry is kept only if neither its
// key nor its value has been claimed by a more recent entry.
func (m *mapList) materialize() map[*ast.Node]*ast.Node {
	out := map[*ast.Node]*ast.Node{}
	usedValues := map[*ast.Node]bool{}
	for e := m; e != nil; e = e.prev {
		if _, ok := out[e.from]; ok {
			continue
		}
		if usedValues[e.to] {
			continue
		}
		out[e.from] = e.to
		usedValues[e.to] = true
	}
	return out
}
