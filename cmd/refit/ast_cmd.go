package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/parser"
)

func newASTCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast FILE",
		Short: "Print the wrapped AST of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			tree, err := parser.Parse(cmd.Context(), source, parser.WithFilename(args[0]))
			if err != nil {
				return err
			}
			var sb strings.Builder
			writeTree(&sb, tree, 0)
			fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return nil
		},
	}
	return cmd
}

func writeTree(sb *strings.Builder, n *ast.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "%d: %s", n.ID, n.Kind)
	if n.Value != "" {
		fmt.Fprintf(sb, " %q", n.Value)
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		writeTree(sb, c, depth+1)
	}
}
