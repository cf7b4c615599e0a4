package fix

import (
	"github.com/cloudcmds/refit/ast"
)

// Static feature tags accepted in StaticTests.Forbidden.
const (
	FeatureRecursion = "recursion"
	FeatureFor       = "for"
	FeatureWhile     = "while"
	FeatureAssign    = "Assign"
	FeatureAugAssign = "AugAssign"
)

// StaticTests names a function that must exist in every candidate and the
// syntactic features its body may not use. Candidates are rejected before
// the test oracle ever runs.
type StaticTests struct {
	FunctionName string   `yaml:"function"`
	Forbidden    []string `yaml:"forbidden"`
}

// Check reports whether the candidate tree passes: the named function
// must be present and its body free of every forbidden feature.
func (s StaticTests) Check(root *ast.Node) bool {
	fn := ast.Find(root, func(n *ast.Node) bool {
		return n.Kind == ast.FunctionDef && n.Value == s.FunctionName
	})
	if fn == nil {
		return false
	}
	for _, feature := range s.Forbidden {
		if s.bodyContains(fn, feature) {
			return false
		}
	}
	return true
}

func (s StaticTests) bodyContains(fn *ast.Node, feature string) bool {
	found := false
	ast.Walk(fn, func(n *ast.Node) bool {
		switch feature {
		case FeatureRecursion:
			if n.Kind == ast.Call && len(n.Children) > 0 {
				callee := n.Children[0]
				if callee.Kind == ast.Name && callee.Value == s.FunctionName {
					found = true
				}
			}
		case FeatureFor:
			if n.Kind == ast.For {
				found = true
			}
		case FeatureWhile:
			if n.Kind == ast.While {
				found = true
			}
		case FeatureAssign:
			if n.Kind == ast.Assign {
				found = true
			}
		case FeatureAugAssign:
			if n.Kind == ast.AugAssign {
				found = true
			}
		}
		return !found
	})
	return found
}
