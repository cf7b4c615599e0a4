package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringAssign(t *testing.T) {
	root := Wrap(NewNode(Module, "",
		NewNode(Assign, "",
			NewNode(Name, "x"),
			NewNode(Constant, "0"),
		),
	))
	require.Equal(t, "x = 0", root.String())
}

func TestStringFunctionDef(t *testing.T) {
	root := Wrap(NewNode(Module, "",
		NewNode(FunctionDef, "add",
			NewNode(Parameter, "a"),
			NewNode(Parameter, "b"),
			NewNode(Suite, "",
				NewNode(Return, "",
					NewNode(BinaryOp, "+",
						NewNode(Name, "a"),
						NewNode(Name, "b"),
					),
				),
			),
		),
	))
	require.Equal(t, "def add(a, b):\n    return a + b", root.String())
}

func TestStringIfElse(t *testing.T) {
	root := Wrap(NewNode(Module, "",
		NewNode(If, "",
			NewNode(IfTest, "",
				NewNode(Compare, "<", NewNode(Name, "a"), NewNode(Constant, "0")),
			),
			NewNode(Suite, "", NewNode(Return, "", NewNode(Constant, "0"))),
			NewNode(Suite, "", NewNode(Return, "", NewNode(Name, "a"))),
		),
	))
	require.Equal(t, "if a < 0:\n    return 0\nelse:\n    return a", root.String())
}

func TestStringCallAndAttribute(t *testing.T) {
	expr := NewNode(Call, "",
		NewNode(Attribute, "append", NewNode(Name, "xs")),
		NewNode(Arg, "", NewNode(Constant, "1")),
	)
	root := Wrap(NewNode(Module, "", NewNode(ExpressionStatement, "", expr)))
	require.Equal(t, "xs.append(1)", root.String())
}

func TestStringAbstractNode(t *testing.T) {
	n := NewNode(BinaryOp, "-").AbstractCopy()
	require.Equal(t, "<BinaryOp>", n.String())
}

func TestStringWhileAugAssign(t *testing.T) {
	root := Wrap(NewNode(Module, "",
		NewNode(While, "",
			NewNode(IfTest, "",
				NewNode(Compare, ">", NewNode(Name, "n"), NewNode(Constant, "0")),
			),
			NewNode(Suite, "",
				NewNode(AugAssign, "-=", NewNode(Name, "n"), NewNode(Constant, "1")),
			),
		),
	))
	require.Equal(t, "while n > 0:\n    n -= 1", root.String())
}
