package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hive/internal/socketdir"
)

// newListCmd builds `hive list`, grounded on the teacher's ls.go (a green
// dot for live, a red X for unresponsive — adapted here to workspaces
// instead of agents: hive has no "idle" state worth distinguishing since a
// workspace's panes always have a live or exited process, not a single
// agent-wide state).
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List known workspaces and whether they're running",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	names, err := socketdir.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No workspaces.")
		return nil
	}
	for _, name := range names {
		if socketdir.IsRunning(name) {
			fmt.Fprintf(cmd.OutOrStdout(), "  \033[32m●\033[0m %s\n", name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  \033[2m○ %s (stopped)\033[0m\n", name)
		}
	}
	return nil
}
