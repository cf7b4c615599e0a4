package fix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/parser"
)

func parse(t *testing.T, input string) *ast.Node {
	t.Helper()
	root, err := parser.Parse(context.Background(), input)
	require.NoError(t, err)
	return root
}

func TestStaticTestsMissingFunction(t *testing.T) {
	s := StaticTests{FunctionName: "factorial"}
	require.False(t, s.Check(parse(t, "def other(n):\n    return n\n")))
	require.True(t, s.Check(parse(t, "def factorial(n):\n    return n\n")))
}

func TestStaticTestsRecursion(t *testing.T) {
	s := StaticTests{FunctionName: "factorial", Forbidden: []string{FeatureRecursion}}
	recursive := "def factorial(n):\n    if n <= 1:\n        return 1\n    return n * factorial(n - 1)\n"
	iterative := "def factorial(n):\n    total = 1\n    while n > 1:\n        total = total * n\n        n = n - 1\n    return total\n"
	require.False(t, s.Check(parse(t, recursive)))
	require.True(t, s.Check(parse(t, iterative)))
}

func TestStaticTestsLoops(t *testing.T) {
	forLoop := "def f(n):\n    for i in range(n):\n        pass\n    return n\n"
	whileLoop := "def f(n):\n    while n:\n        pass\n    return n\n"

	noFor := StaticTests{FunctionName: "f", Forbidden: []string{FeatureFor}}
	require.False(t, noFor.Check(parse(t, forLoop)))
	require.True(t, noFor.Check(parse(t, whileLoop)))

	noWhile := StaticTests{FunctionName: "f", Forbidden: []string{FeatureWhile}}
	require.True(t, noWhile.Check(parse(t, forLoop)))
	require.False(t, noWhile.Check(parse(t, whileLoop)))
}

func TestStaticTestsAssignments(t *testing.T) {
	assign := "def f(n):\n    x = n\n    return x\n"
	augAssign := "def f(n):\n    n += 1\n    return n\n"

	noAssign := StaticTests{FunctionName: "f", Forbidden: []string{FeatureAssign}}
	require.False(t, noAssign.Check(parse(t, assign)))
	require.True(t, noAssign.Check(parse(t, augAssign)))

	noAug := StaticTests{FunctionName: "f", Forbidden: []string{FeatureAugAssign}}
	require.True(t, noAug.Check(parse(t, assign)))
	require.False(t, noAug.Check(parse(t, augAssign)))
}

func TestStaticTestsMultipleFeatures(t *testing.T) {
	s := StaticTests{FunctionName: "f", Forbidden: []string{FeatureFor, FeatureWhile}}
	require.True(t, s.Check(parse(t, "def f(n):\n    return n\n")))
	require.False(t, s.Check(parse(t, "def f(n):\n    for i in n:\n        pass\n    return n\n")))
}
