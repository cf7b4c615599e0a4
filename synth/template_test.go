package synth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/refit/ast"
)

func TestTemplatePathResolvesLocus(t *testing.T) {
	tree := parse(t, "x = 0\n")
	pattern := ast.NewNode(ast.Assign, "").AbstractCopy()
	template := Template{Root: pattern, Path: []int{1}, parentContext: true}

	loci := template.Matches(tree)
	require.Len(t, loci, 1)
	require.Equal(t, ast.Constant, loci[0].Kind)
	require.Equal(t, "0", loci[0].Value)
}

func TestTemplatePathOutOfRange(t *testing.T) {
	tree := parse(t, "return\n")
	pattern := ast.NewNode(ast.Return, "").AbstractCopy()
	template := Template{Root: pattern, Path: []int{0}}
	require.Empty(t, template.Matches(tree))
}

func TestTemplateEqual(t *testing.T) {
	a := Template{Root: ast.NewNode(ast.Constant, "0")}
	b := Template{Root: ast.NewNode(ast.Constant, "0")}
	c := Template{Root: ast.NewNode(ast.Constant, "1")}
	d := Template{Root: ast.NewNode(ast.Constant, "0"), Path: []int{0}}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))

	abstract := Template{Root: ast.NewNode(ast.Constant, "0").AbstractCopy()}
	require.False(t, a.Equal(abstract))
}

func TestTemplateSizeAndAbstractCount(t *testing.T) {
	concrete := Template{Root: ast.NewNode(ast.Assign, "",
		ast.NewNode(ast.Name, "x"),
		ast.NewNode(ast.Constant, "0"),
	)}
	require.Equal(t, 3, concrete.Size())
	require.Equal(t, 0, concrete.AbstractCount())

	abstract := Template{Root: ast.NewNode(ast.Assign, "").AbstractCopy()}
	require.Equal(t, 1, abstract.Size())
	require.Equal(t, 1, abstract.AbstractCount())
}

func TestRankingModes(t *testing.T) {
	withParent := Template{
		Root:          ast.NewNode(ast.Assign, "", ast.NewNode(ast.Name, "x"), ast.NewNode(ast.Constant, "0")),
		Path:          []int{1},
		parentContext: true,
	}
	nodeOnly := Template{Root: ast.NewNode(ast.Constant, "0")}

	specific := SpecificRanking()
	require.Greater(t, specific.Score(withParent), specific.Score(nodeOnly))

	general := GeneralRanking()
	require.Greater(t, general.Score(nodeOnly), general.Score(withParent))
}

func TestRankingPrefersConcrete(t *testing.T) {
	concrete := Template{Root: ast.NewNode(ast.BinaryOp, "-",
		ast.NewNode(ast.Name, "a"),
		ast.NewNode(ast.Name, "b"),
	)}
	abstract := Template{Root: concrete.Root.AbstractCopy()}

	general := GeneralRanking()
	require.Greater(t, general.Score(concrete), general.Score(abstract))
}
