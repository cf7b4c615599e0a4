package synth

import (
	"fmt"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/diff"
)

// Witness functions invert the DSL operators against one example,
// producing specifications for their subterms:
//
//   - Apply is witnessed on its edit parameter by diffing the example's
//     before and after trees and taking the first operation of the
//     minimal script.
//   - Patch passes the operation through, and is witnessed on its context
//     parameter by the operation's target node in the before tree.
//   - Match is witnessed on its template parameter by four candidate
//     templates built around the target node.

// witnessEdit diffs one example and returns the first operation of the
// minimal edit script along with the full distance result.
func witnessEdit(before, after *ast.Node) (diff.Operation, diff.EditDistance, error) {
	d := diff.Distance(before, after)
	if d.Cost == 0 {
		return diff.Operation{}, d, diff.ErrEmptyDiff
	}
	op, ok := d.First()
	if !ok {
		return diff.Operation{}, d, diff.ErrEmptyDiff
	}
	return op, d, nil
}

// witnessContext resolves the operation's target to a node of the before
// tree, normalizing the operation along the way. Updates and deletes
// carry before-tree nodes already. An insert may name a node deep inside
// newly introduced material, so it is widened to the topmost inserted
// subtree, and its after-tree parent is mapped back through the diff's
// node correspondence.
func witnessContext(op diff.Operation, d diff.EditDistance) (diff.Operation, *ast.Node, error) {
	if op.Kind == diff.OpInsert {
		node := op.Node
		for node.Parent != nil && d.Correspondence(node.Parent) == nil {
			node = node.Parent
		}
		if node.Parent == nil {
			return op, nil, fmt.Errorf("synth: the entire after tree is new material")
		}
		mapped := d.Correspondence(node.Parent)
		normalized := diff.Operation{
			Kind:   diff.OpInsert,
			Node:   node,
			Parent: node.Parent,
			Index:  ast.ChildIndex(node),
		}
		return normalized, mapped, nil
	}
	target := op.Target()
	if target == nil {
		return op, nil, fmt.Errorf("synth: operation %s has no target", op)
	}
	return op, target, nil
}

// witnessTemplates builds the four candidate templates around a witnessed
// context node: the node's parent, an abstract copy of the parent, the
// node itself, and an abstract copy of the node. The witnessed position is
// tagged with EditID 1 where it exists in the fragment; the locus path
// carries the position through the abstract variants.
func witnessTemplates(target *ast.Node) []Template {
	var out []Template
	if parent := target.Parent; parent != nil {
		idx := ast.ChildIndex(target)
		if idx >= 0 {
			concrete := parent.Clone()
			concrete.Children[idx].EditID = 1
			out = append(out,
				Template{Root: concrete, Path: []int{idx}, parentContext: true},
				Template{Root: parent.AbstractCopy(), Path: []int{idx}, parentContext: true},
			)
		}
	}
	concrete := target.Clone()
	concrete.EditID = 1
	abstract := target.AbstractCopy()
	abstract.EditID = 1
	out = append(out,
		Template{Root: concrete},
		Template{Root: abstract},
	)
	return out
}
