package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

type waitFlags struct {
	dependencyFlags
	script   string
	timeout  time.Duration
	tps      int
	maxTicks int
}

func newWaitCmd(a *app) *cobra.Command {
	f := &waitFlags{}
	cmd := &cobra.Command{
		Use:   "wait FILE",
		Short: "Tick a scene until a dependency appears or the wait times out",
		Long: `wait polls for a dependency once per simulated tick. A script file can
mutate the scene between ticks (create nodes, attach components, toggle or
dispose them) to check how a component waiting on its dependencies reacts.`,
		Example: `  grove wait ship.yaml --from ship --kind dock --relation child --script arrive.yaml --timeout 2s`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.tps <= 0 {
				return fmt.Errorf("--tps must be positive")
			}
			scene, err := a.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			if f.script != "" {
				data, err := os.ReadFile(f.script)
				if err != nil {
					return fmt.Errorf("load script: %w", err)
				}
				script, err := grove.ParseScript(data, newTag)
				if err != nil {
					return err
				}
				scene.SetScript(script)
			}
			q, opts, err := f.query(scene)
			if err != nil {
				return err
			}

			p := grove.WaitForQuery(q, opts, f.timeout)
			dt := time.Second / time.Duration(f.tps)
			ticks := 0
			for !p.Done() && ticks < f.maxTicks {
				scene.Tick(dt)
				ticks++
			}
			if !p.Done() {
				p.Cancel()
			}

			t, err := p.Result()
			w := cmd.OutOrStdout()
			if t != nil || err == nil {
				printResult(w, t)
			}
			fmt.Fprintf(w, "ticks: %d\n", ticks)
			return err
		},
	}
	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.script, "script", "", "YAML script of scene changes, one step per tick")
	fs.DurationVar(&f.timeout, "timeout", time.Second, "how long to wait")
	fs.IntVar(&f.tps, "tps", 60, "simulated ticks per second")
	fs.IntVar(&f.maxTicks, "max-ticks", 10000, "stop after this many ticks")
	return cmd
}
