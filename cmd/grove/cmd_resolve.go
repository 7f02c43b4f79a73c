package main

import (
	"fmt"
	"io"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

// dependencyFlags selects the origin, the kind and the resolve options, either
// inline or from a named manifest entry.
type dependencyFlags struct {
	resolveFlags
	from     string
	kind     string
	manifest string
	dep      string
}

func (f *dependencyFlags) register(cmd *cobra.Command) {
	f.resolveFlags.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "path of the searching node")
	fs.StringVar(&f.kind, "kind", "", "component kind to resolve")
	fs.StringVar(&f.manifest, "manifest", "", "YAML dependency manifest")
	fs.StringVar(&f.dep, "dep", "", "dependency name in the manifest")
	cmd.MarkFlagsRequiredTogether("manifest", "dep")
}

// query returns the query and options the flags describe.
func (f *dependencyFlags) query(scene *grove.Scene) (*grove.Query[*tag], grove.ResolveOptions, error) {
	origin, err := findNode(scene, f.from)
	if err != nil {
		return nil, grove.ResolveOptions{}, err
	}
	var opts grove.ResolveOptions
	if f.manifest != "" {
		m, err := grove.LoadManifest(f.manifest)
		if err != nil {
			return nil, opts, err
		}
		if opts, err = m.Lookup(f.dep); err != nil {
			return nil, opts, err
		}
	} else if opts, err = f.options(); err != nil {
		return nil, opts, err
	}
	q := grove.QueryFor[*tag](origin, opts)
	if f.kind != "" {
		q.Where(whereKind(f.kind))
	}
	return q, opts, nil
}

func newResolveCmd(a *app) *cobra.Command {
	f := &dependencyFlags{}
	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Resolve one dependency and print where it was found",
		Example: `  grove resolve ship.yaml --from ship/turret --kind tracker --relation parent
  grove resolve ship.yaml --from ship/turret --manifest deps.yaml --dep weapon`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			q, opts, err := f.query(scene)
			if err != nil {
				return err
			}
			t, err := grove.ResolveQuery(q, opts)
			if t != nil || err == nil {
				printResult(cmd.OutOrStdout(), t)
			}
			return err
		},
	}
	f.register(cmd)
	return cmd
}

// printResult writes the resolved tag, or "(none)" for a missing optional one.
func printResult(w io.Writer, t *tag) {
	if t == nil {
		fmt.Fprintln(w, "(none)")
		return
	}
	printTag(w, t)
}
