package main

import (
	"fmt"
	"regexp"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

type queryFlags struct {
	from          string
	relation      string
	relations     string
	algorithm     string
	kind          string
	name          string
	contains      string
	pattern       string
	includeHidden bool
	halt          bool
	count         bool
}

func newQueryCmd(a *app) *cobra.Command {
	f := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query FILE",
		Short: "List the components a query visits, in traversal order",
		Example: `  grove query ship.yaml --from ship --relation descendant --kind gun
  grove query ship.yaml --from ship/hull --algorithm dfs --contains left`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			q, err := f.build(scene)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if f.count {
				fmt.Fprintln(w, q.Count())
				return nil
			}
			for t := range q.All() {
				printTag(w, t)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "path of the origin node")
	fs.StringVar(&f.relation, "relation", "descendant", "relation to search")
	fs.StringVar(&f.relations, "relations", "", `ordered relation set, e.g. "parent|child"`)
	fs.StringVar(&f.algorithm, "algorithm", "", "explicit traversal algorithm, e.g. bfs, dfs, ancestors")
	fs.StringVar(&f.kind, "kind", "", "component kind")
	fs.StringVar(&f.name, "name", "", "exact node name")
	fs.StringVar(&f.contains, "contains", "", "case-insensitive node name substring")
	fs.StringVar(&f.pattern, "pattern", "", "regular expression the node name must match")
	fs.BoolVar(&f.includeHidden, "include-hidden", false, "include inactive nodes and disabled components")
	fs.BoolVar(&f.halt, "halt", false, "do not descend below inactive nodes or disabled components")
	fs.BoolVar(&f.count, "count", false, "print only the number of matches")
	cmd.MarkFlagsMutuallyExclusive("relations", "algorithm")
	cmd.MarkFlagsMutuallyExclusive("include-hidden", "halt")
	return cmd
}

func (f *queryFlags) build(scene *grove.Scene) (*grove.Query[*tag], error) {
	origin, err := findNode(scene, f.from)
	if err != nil {
		return nil, err
	}
	q := grove.NewQuery[*tag](origin, grove.None)
	switch {
	case f.algorithm != "":
		algo, err := grove.ParseAlgorithm(f.algorithm)
		if err != nil {
			return nil, err
		}
		q.Using(algo)
	case f.relations != "":
		flags, err := grove.ParseRelationFlags(f.relations)
		if err != nil {
			return nil, err
		}
		q.Relations(flags)
	default:
		rel, err := grove.ParseRelation(f.relation)
		if err != nil {
			return nil, err
		}
		q.Relation(rel)
	}

	q.Named(f.name).Containing(f.contains)
	if f.pattern != "" {
		re, err := regexp.Compile(f.pattern)
		if err != nil {
			return nil, fmt.Errorf("--pattern: %w", err)
		}
		q.Matching(re)
	}
	if f.kind != "" {
		q.Where(whereKind(f.kind))
	}
	switch {
	case f.includeHidden:
		q.Visibility(grove.IncludeHidden)
	case f.halt:
		q.Visibility(grove.HaltInactive | grove.HaltDisabled)
	}
	return q, nil
}
