package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDetachCmd builds `hive detach`. Detaching only makes sense from
// inside an attached session (Ctrl+q, handled by tui.App's global chord
// dispatch) since the server keeps no notion of who is attached that a
// separate process could address; this subcommand exists for CLI-surface
// completeness and points the operator at the in-session keybinding.
func newDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach",
		Short: "Detach from an attached session (use Ctrl+q while attached)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "press Ctrl+q while attached to detach; the server keeps running")
			return nil
		},
	}
}
