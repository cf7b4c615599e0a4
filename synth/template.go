// Package synth learns tree transformations from before/after example
// pairs. A transformation is a program in a small DSL,
//
//	Apply(ast, Patch(op, Match(ast, template)))
//
// whose meaning is: at every node of the input AST where the template
// matches, apply the patched edit operation, yielding one rewritten AST
// per match. Witness functions invert each DSL operator against the
// examples, and a top-k enumerator ranks the surviving programs.
package synth

import (
	"fmt"
	"strings"

	"github.com/cloudcmds/refit/ast"
)

// Template is a structural pattern: an AST fragment, possibly containing
// abstract nodes, matched against subtrees of a target AST. Path holds the
// child indexes leading from the template root to the edit locus; when a
// subtree matches, the locus is resolved by walking the same path in the
// matched subtree. An empty path means the matched node itself is the
// locus.
type Template struct {
	Root *ast.Node
	Path []int

	// parentContext records whether the template includes the edit
	// locus's parent, which makes it more specific. Ranking reads this.
	parentContext bool
}

// HasParentContext reports whether the template matches on the locus's
// parent rather than the locus alone.
func (t Template) HasParentContext() bool {
	return t.parentContext
}

// Matches returns the edit loci for every subtree of root that the
// template matches, in pre-order. A match whose locus path leads out of
// the matched subtree is discarded.
func (t Template) Matches(root *ast.Node) []*ast.Node {
	var loci []*ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		if !n.Match(t.Root) {
			return true
		}
		locus := n
		for _, idx := range t.Path {
			if idx < 0 || idx >= len(locus.Children) {
				return true
			}
			locus = locus.Children[idx]
		}
		loci = append(loci, locus)
		return true
	})
	return loci
}

// Equal reports structural equality of two templates, including abstract
// flags and locus paths.
func (t Template) Equal(other Template) bool {
	if len(t.Path) != len(other.Path) {
		return false
	}
	for i := range t.Path {
		if t.Path[i] != other.Path[i] {
			return false
		}
	}
	return nodesEqual(t.Root, other.Root)
}

func nodesEqual(a, b *ast.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Value != b.Value || a.Abstract != b.Abstract {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !nodesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes in the template fragment.
func (t Template) Size() int {
	return ast.Size(t.Root)
}

// AbstractCount returns the number of abstract nodes in the template
// fragment.
func (t Template) AbstractCount() int {
	count := 0
	ast.Walk(t.Root, func(n *ast.Node) bool {
		if n.Abstract {
			count++
		}
		return true
	})
	return count
}

func (t Template) String() string {
	var sb strings.Builder
	writeTemplateNode(&sb, t.Root)
	if len(t.Path) > 0 {
		fmt.Fprintf(&sb, "@%v", t.Path)
	}
	return sb.String()
}

func writeTemplateNode(sb *strings.Builder, n *ast.Node) {
	if n == nil {
		return
	}
	sb.WriteString(string(n.Kind))
	if n.Abstract {
		sb.WriteString("?")
	} else if n.Value != "" {
		fmt.Fprintf(sb, "(%s)", n.Value)
	}
	if n.EditID != 0 {
		sb.WriteString("*")
	}
	if len(n.Children) > 0 {
		sb.WriteString("[")
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(" ")
			}
			writeTemplateNode(sb, c)
		}
		sb.WriteString("]")
	}
}
