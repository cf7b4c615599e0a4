// Package diff computes the Zhang-Shasha tree edit distance between two
// ASTs, producing a minimal edit script of insert, delete, and update
// operations together with a node mapping from the after-tree to the
// before-tree.
package diff

import (
	"fmt"

	"github.com/cloudcmds/refit/ast"
)

// OpKind identifies the kind of an edit operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpDelete
	OpUpdate
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	case OpUpdate:
		return "Update"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Operation is one entry of an edit script.
//
// For an insert, Node is the after-tree node being introduced, Parent is
// its after-tree parent, and Index is its position among the parent's
// children. For a delete, Node is the removed before-tree node and Parent
// is its before-tree parent. For an update, Node is the after-tree node
// carrying the new kind and value, and Old is the replaced before-tree
// node.
type Operation struct {
	Kind   OpKind
	Node   *ast.Node
	Old    *ast.Node
	Parent *ast.Node
	Index  int
}

// Target returns the operation's locus: the old node for updates and the
// removed node for deletes, both before-tree nodes, and Parent for
// inserts. For inserts produced by Distance, Parent is the after-tree
// parent; Target does not map it back to the before tree.
func (o Operation) Target() *ast.Node {
	switch o.Kind {
	case OpUpdate:
		return o.Old
	case OpDelete:
		return o.Node
	case OpInsert:
		return o.Parent
	}
	return nil
}

// Equivalent reports whether two operations describe the same rewrite:
// the same kind of edit introducing (or removing) structurally similar
// material at the same child position.
func (o Operation) Equivalent(other Operation) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case OpUpdate:
		return deepSimilar(o.Node, other.Node)
	case OpInsert:
		return o.Index == other.Index && deepSimilar(o.Node, other.Node)
	case OpDelete:
		return deepSimilar(o.Node, other.Node)
	}
	return false
}

func deepSimilar(a, b *ast.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Similar(b) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !deepSimilar(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Run applies the operation at the given locus node of the tree rooted at
// root, returning a freshly wrapped copy. The locus must belong to root's
// tree. The input tree is not modified.
func (o Operation) Run(root, locus *ast.Node) (*ast.Node, error) {
	if root == nil || locus == nil {
		return nil, fmt.Errorf("diff: cannot apply %s to a nil tree or locus", o.Kind)
	}
	clone := root.Clone()
	target := ast.FindByID(clone, locus.ID)
	if target == nil {
		return nil, fmt.Errorf("diff: locus %d not found in tree", locus.ID)
	}
	switch o.Kind {
	case OpUpdate:
		target.Kind = o.Node.Kind
		target.Value = o.Node.Value
		target.Abstract = false
	case OpInsert:
		inserted := o.Node.Clone()
		index := o.Index
		if index < 0 {
			index = 0
		}
		if index > len(target.Children) {
			index = len(target.Children)
		}
		children := make([]*ast.Node, 0, len(target.Children)+1)
		children = append(children, target.Children[:index]...)
		children = append(children, inserted)
		children = append(children, target.Children[index:]...)
		target.Children = children
	case OpDelete:
		parent := ast.Find(clone, func(n *ast.Node) bool {
			for _, c := range n.Children {
				if c == target {
					return true
				}
			}
			return false
		})
		if parent == nil {
			return nil, fmt.Errorf("diff: cannot delete the tree root")
		}
		children := make([]*ast.Node, 0, len(parent.Children)-1)
		for _, c := range parent.Children {
			if c != target {
				children = append(children, c)
			}
		}
		parent.Children = children
	default:
		return nil, fmt.Errorf("diff: unknown operation kind %d", int(o.Kind))
	}
	return ast.Wrap(clone), nil
}

func (o Operation) String() string {
	switch o.Kind {
	case OpUpdate:
		return fmt.Sprintf("Update(%s %q -> %s %q)",
			o.Old.Kind, o.Old.Value, o.Node.Kind, o.Node.Value)
	case OpInsert:
		parentKind := ast.Kind("?")
		if o.Parent != nil {
			parentKind = o.Parent.Kind
		}
		return fmt.Sprintf("Insert(%s %q into %s at %d)",
			o.Node.Kind, o.Node.Value, parentKind, o.Index)
	case OpDelete:
		return fmt.Sprintf("Delete(%s %q)", o.Node.Kind, o.Node.Value)
	}
	return "Operation(?)"
}
