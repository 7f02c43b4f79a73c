package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the node tree of a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, root := range scene.Roots() {
				printNode(w, root, 0)
			}
			return nil
		},
	}
}

// printNode writes n and its subtree, one node per line:
//
//	ship [hull]
//	  LeftWing (inactive) [gun(disabled)]
func printNode(w io.Writer, n *grove.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Name)
	if !n.Active {
		b.WriteString(" (inactive)")
	}
	kinds := make([]string, 0, n.NumComponents())
	for _, c := range n.Components() {
		t, ok := c.(*tag)
		if !ok {
			continue
		}
		k := t.Kind
		if !t.Enabled() {
			k += "(disabled)"
		}
		kinds = append(kinds, k)
	}
	if len(kinds) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(kinds, ", "))
	}
	fmt.Fprintln(w, b.String())
	for _, child := range n.Children() {
		printNode(w, child, depth+1)
	}
}
