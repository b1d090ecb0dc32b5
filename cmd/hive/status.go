package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hive/internal/config"
	"hive/internal/socketdir"
	"hive/internal/tasks"
	"hive/internal/workspace"
)

// newStatusCmd builds `hive status <name>`: running/stopped plus each
// lane's backlog/in_progress/done counts, read directly from tasks.yaml so
// it works whether or not the server is up. Grounded on the teacher's
// status.go JSON-status shape, adapted to print human-readable per-lane
// lines since hive's "status" is a task queue snapshot, not a single
// agent's state.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <name>",
		Short: "Show a workspace's running state and task queue counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0])
		},
	}
}

func runStatus(cmd *cobra.Command, name string) error {
	cfg, err := config.Load(socketdir.Dir(name))
	if err != nil {
		return fmt.Errorf("load workspace config: %w", err)
	}

	running := socketdir.IsRunning(name)
	state := "stopped"
	if running {
		state = "running"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, state)

	f, err := tasks.Load(socketdir.Tasks(name))
	if err != nil {
		return fmt.Errorf("load tasks.yaml: %w", err)
	}

	plan := workspace.Resolve(cfg, socketdir.Dir(name))
	seen := make(map[string]bool, len(plan.Workers))
	for _, w := range plan.Workers {
		if seen[w.Lane] {
			continue
		}
		seen[w.Lane] = true
		c := tasks.CountsForLane(f, w.Lane)
		fmt.Fprintf(cmd.OutOrStdout(), "  %-20s backlog=%-3d in_progress=%-3d done=%d\n",
			w.Lane, c.Backlog, c.InProgress, c.Done)
	}
	return nil
}
