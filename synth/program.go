package synth

import (
	"fmt"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/diff"
)

// Edit is the DSL's Patch operator: an edit operation bound for
// application at template-matched loci.
type Edit struct {
	Op diff.Operation
}

// Run applies the edit at the given locus of the tree rooted at root,
// returning a freshly wrapped rewrite.
func (e Edit) Run(root, locus *ast.Node) (*ast.Node, error) {
	return e.Op.Run(root, locus)
}

func (e Edit) String() string {
	return e.Op.String()
}

// Program is a learned transformation: the DSL term
// Apply(ast, Patch(op, Match(ast, template))).
type Program struct {
	Edit     Edit
	Template Template

	// Score is the ranking score the learner assigned to this program.
	Score int
}

// Apply invokes the program on the given AST, producing one rewritten AST
// per template match, in match order. Candidates whose application fails
// are skipped.
func (p Program) Apply(root *ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, locus := range p.Template.Matches(root) {
		rewritten, err := p.Edit.Run(root, locus)
		if err != nil {
			continue
		}
		out = append(out, rewritten)
	}
	return out
}

func (p Program) String() string {
	return fmt.Sprintf("Apply(Patch(%s, Match(%s)))", p.Edit, p.Template)
}
