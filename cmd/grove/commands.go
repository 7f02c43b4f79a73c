package main

import (
	"fmt"
	"io"

	"github.com/phanxgames/grove"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	verbose  bool
	metrics  bool
	registry *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "grove",
		Short: "Inspect and query grove component trees",
		Long: `grove loads a YAML scene file (nodes, their components and children)
and runs the same queries and dependency resolution a game would run at
runtime. Resolution failures are logged to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.metrics || a.registry == nil {
				return nil
			}
			return a.writeMetrics(cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "also log successful resolutions")
	root.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "print resolution metrics after the command")

	root.AddCommand(
		newTreeCmd(a),
		newQueryCmd(a),
		newResolveCmd(a),
		newWaitCmd(a),
	)
	return root
}

// openScene loads the scene file at path with logging and metrics wired to
// the command.
func (a *app) openScene(cmd *cobra.Command, path string) (*grove.Scene, error) {
	logger := log.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	scene := grove.NewScene()
	scene.SetLogger(logger)
	scene.SetDebugMode(a.verbose)

	a.registry = prometheus.NewRegistry()
	scene.SetMetrics(grove.NewMetrics(a.registry))

	if err := loadScene(path, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// findNode returns the node at path or an error naming it.
func findNode(scene *grove.Scene, path string) (*grove.Node, error) {
	if path == "" {
		return nil, fmt.Errorf("--from is required")
	}
	n := scene.Find(path)
	if n == nil {
		return nil, fmt.Errorf("no node at %q", path)
	}
	return n, nil
}

func whereKind(kind string) func(*tag) bool {
	return func(t *tag) bool { return t.Kind == kind }
}

func printTag(w io.Writer, t *tag) {
	fmt.Fprintf(w, "%s\t%s\n", t.Node().Path(), t.Kind)
}

// --- Resolve flags ---

// resolveFlags binds the ResolveOptions fields to command-line flags.
type resolveFlags struct {
	relation       string
	relations      string
	name           string
	contains       string
	order          string
	sided          bool
	excludeSibling bool
	includeHidden  bool
	optional       bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.relation, "relation", "descendant", "relation to search")
	fs.StringVar(&f.relations, "relations", "", `ordered relation set, e.g. "parent|child" (overrides --relation)`)
	fs.StringVar(&f.name, "name", "", "exact node name")
	fs.StringVar(&f.contains, "contains", "", "case-insensitive node name substring")
	fs.StringVar(&f.order, "order", "none", "how several candidates are handled: none, unspecified, closest, farthest")
	fs.BoolVar(&f.sided, "sided", false, "only match candidates on the searcher's left/right side")
	fs.BoolVar(&f.excludeSibling, "exclude-sibling", false, "skip components on the origin node")
	fs.BoolVar(&f.includeHidden, "include-hidden", false, "include inactive nodes and disabled components")
	fs.BoolVar(&f.optional, "optional", false, "treat a missing dependency as success")
}

func (f *resolveFlags) options() (grove.ResolveOptions, error) {
	opts := grove.ResolveOptions{
		Name:           f.name,
		Contains:       f.contains,
		Sided:          f.sided,
		ExcludeSibling: f.excludeSibling,
		IncludeHidden:  f.includeHidden,
		Optional:       f.optional,
	}
	var err error
	if opts.Relation, err = grove.ParseRelation(f.relation); err != nil {
		return opts, err
	}
	if f.relations != "" {
		if opts.Relations, err = grove.ParseRelationFlags(f.relations); err != nil {
			return opts, err
		}
	}
	if err := opts.Order.UnmarshalText([]byte(f.order)); err != nil {
		return opts, err
	}
	return opts, nil
}
