package diff

import (
	"errors"

	"github.com/cloudcmds/refit/ast"
)

// ErrEmptyDiff indicates that the before and after trees are already
// similar, so there is nothing to learn from the pair.
var ErrEmptyDiff = errors.New("diff: before and after trees are identical")

// EditDistance is the result of a tree diff: the total cost, the minimal
// edit script, and the node mapping from after-tree nodes to before-tree
// nodes.
type EditDistance struct {
	Cost    int
	edits   *editList
	mapping *mapList
	matches *mapList
}

// Edits returns the edit script in order. The first operation is the one
// used to witness a transformation's edit.
func (d EditDistance) Edits() []Operation {
	return d.edits.slice()
}

// First returns the first operation of the edit script. The second return
// value is false for an empty script.
func (d EditDistance) First() (Operation, bool) {
	ops := d.edits.slice()
	if len(ops) == 0 {
		return Operation{}, false
	}
	return ops[0], true
}

// Mapping materializes the node mapping as a partial bijection from
// after-tree nodes to before-tree nodes. Only updates of dissimilar nodes
// contribute entries.
func (d EditDistance) Mapping() map[*ast.Node]*ast.Node {
	return d.mapping.materialize()
}

// Correspondence returns the before-tree node aligned with the given
// after-tree node, whether the pair was rewritten or matched unchanged.
// It returns nil when the node was inserted.
func (d EditDistance) Correspondence(after *ast.Node) *ast.Node {
	return d.matches.materialize()[after]
}

// Distance computes the Zhang-Shasha edit distance between the before and
// after trees. Cost is 1 per insert and delete, and 1 per update of
// dissimilar nodes; matching similar nodes is free.
func Distance(before, after *ast.Node) EditDistance {
	a := ast.PostOrder(before)
	b := ast.PostOrder(after)
	z := &zhangShasha{
		a:  a,
		b:  b,
		l1: leftmostIndexes(a),
		l2: leftmostIndexes(b),
	}
	z.treedists = make([][]EditDistance, len(a)+1)
	for i := range z.treedists {
		z.treedists[i] = make([]EditDistance, len(b)+1)
	}
	for _, x := range keyroots(z.l1) {
		for _, y := range keyroots(z.l2) {
			z.forestDist(x, y)
		}
	}
	return z.treedists[len(a)][len(b)]
}

// zhangShasha carries the state of one distance computation.
type zhangShasha struct {
	a, b      []*ast.Node // postorder node lists
	l1, l2    []int       // 1-based leftmost-leaf postorder indexes
	treedists [][]EditDistance
}

// leftmostIndexes returns, for each 1-based postorder index i, the 1-based
// postorder index of the leftmost leaf descendant of node i. Index 0 is
// unused.
func leftmostIndexes(nodes []*ast.Node) []int {
	position := make(map[*ast.Node]int, len(nodes))
	for i, n := range nodes {
		position[n] = i + 1
	}
	out := make([]int, len(nodes)+1)
	for i, n := range nodes {
		out[i+1] = position[ast.LeftmostDescendant(n)]
	}
	return out
}

// keyroots returns the postorder indexes with no later index sharing their
// leftmost leaf, in ascending order.
func keyroots(l []int) []int {
	var out []int
	for i := 1; i < len(l); i++ {
		isKeyroot := true
		for j := i + 1; j < len(l); j++ {
			if l[j] == l[i] {
				isKeyroot = false
				break
			}
		}
		if isKeyroot {
			out = append(out, i)
		}
	}
	return out
}

// forestDist fills the forest-distance table anchored at keyroots i and j,
// writing subtree results into treedists as they are discovered.
func (z *zhangShasha) forestDist(i, j int) {
	m := i - z.l1[i] + 2
	n := j - z.l2[j] + 2
	ioff := z.l1[i] - 1
	joff := z.l2[j] - 1

	fd := make([][]EditDistance, m)
	for x := range fd {
		fd[x] = make([]EditDistance, n)
	}

	for x := 1; x < m; x++ {
		node := z.a[x+ioff-1]
		fd[x][0] = EditDistance{
			Cost:    fd[x-1][0].Cost + 1,
			edits:   fd[x-1][0].edits.push(deleteOp(node)),
			mapping: fd[x-1][0].mapping,
			matches: fd[x-1][0].matches,
		}
	}
	for y := 1; y < n; y++ {
		node := z.b[y+joff-1]
		fd[0][y] = EditDistance{
			Cost:    fd[0][y-1].Cost + 1,
			edits:   fd[0][y-1].edits.push(insertOp(node)),
			mapping: fd[0][y-1].mapping,
			matches: fd[0][y-1].matches,
		}
	}

	for x := 1; x < m; x++ {
		for y := 1; y < n; y++ {
			aNode := z.a[x+ioff-1]
			bNode := z.b[y+joff-1]
			if z.l1[i] == z.l1[x+ioff] && z.l2[j] == z.l2[y+joff] {
				// Both prefixes are whole subtrees rooted at the
				// current nodes.
				updateCost := costUpdate(aNode, bNode)
				best := EditDistance{
					Cost:    fd[x-1][y-1].Cost + updateCost,
					edits:   fd[x-1][y-1].edits,
					mapping: fd[x-1][y-1].mapping,
					matches: fd[x-1][y-1].matches.push(bNode, aNode),
				}
				if updateCost == 1 {
					best.edits = best.edits.push(updateOp(bNode, aNode))
					best.mapping = best.mapping.push(bNode, aNode)
				}
				if cost := fd[x-1][y].Cost + 1; cost < best.Cost {
					best = EditDistance{
						Cost:    cost,
						edits:   fd[x-1][y].edits.push(deleteOp(aNode)),
						mapping: fd[x-1][y].mapping,
						matches: fd[x-1][y].matches,
					}
				}
				if cost := fd[x][y-1].Cost + 1; cost < best.Cost {
					best = EditDistance{
						Cost:    cost,
						edits:   fd[x][y-1].edits.push(insertOp(bNode)),
						mapping: fd[x][y-1].mapping,
						matches: fd[x][y-1].matches,
					}
				}
				fd[x][y] = best
				z.treedists[x+ioff][y+joff] = best
			} else {
				p := z.l1[x+ioff] - 1 - ioff
				q := z.l2[y+joff] - 1 - joff
				sub := z.treedists[x+ioff][y+joff]
				best := EditDistance{
					Cost:    fd[p][q].Cost + sub.Cost,
					edits:   fd[p][q].edits.concat(sub.edits),
					mapping: fd[p][q].mapping.merge(sub.mapping),
					matches: fd[p][q].matches.merge(sub.matches),
				}
				if cost := fd[x-1][y].Cost + 1; cost < best.Cost {
					best = EditDistance{
						Cost:    cost,
						edits:   fd[x-1][y].edits.push(deleteOp(aNode)),
						mapping: fd[x-1][y].mapping,
						matches: fd[x-1][y].matches,
					}
				}
				if cost := fd[x][y-1].Cost + 1; cost < best.Cost {
					best = EditDistance{
						Cost:    cost,
						edits:   fd[x][y-1].edits.push(insertOp(bNode)),
						mapping: fd[x][y-1].mapping,
						matches: fd[x][y-1].matches,
					}
				}
				fd[x][y] = best
			}
		}
	}
}

// costUpdate is 0 for similar nodes and 1 otherwise.
func costUpdate(a, b *ast.Node) int {
	if a.Similar(b) {
		return 0
	}
	return 1
}

func deleteOp(n *ast.Node) Operation {
	return Operation{Kind: OpDelete, Node: n, Parent: n.Parent}
}

func insertOp(n *ast.Node) Operation {
	return Operation{Kind: OpInsert, Node: n, Parent: n.Parent, Index: ast.ChildIndex(n)}
}

func updateOp(newNode, oldNode *ast.Node) Operation {
	return Operation{Kind: OpUpdate, Node: newNode, Old: oldNode}
}
