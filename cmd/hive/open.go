package main

import (
	"github.com/spf13/cobra"
)

// newOpenCmd is `hive open <name>`: identical to `up`, phrased for the
// case where the workspace is expected to already be running (open a door
// that may already be open) rather than freshly started. Mirrors the
// teacher's ls/list alias pattern (cmd/ls.go's newLsAlias) — one
// implementation, two names users reach for.
func newOpenCmd() *cobra.Command {
	var daemon bool
	var architectCmdStr string
	var workerCmdStr string

	cmd := &cobra.Command{
		Use:   "open <name>",
		Short: "Start (if needed) and attach to a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return startAndMaybeAttach(args[0], daemon, architectCmdStr, workerCmdStr)
		},
	}

	cmd.Flags().BoolVar(&daemon, "daemon", false, "start the server without attaching")
	cmd.Flags().StringVar(&architectCmdStr, "architect-cmd", "", "override the architect's launch command (shell-quoted)")
	cmd.Flags().StringVar(&workerCmdStr, "worker-cmd", "", "override workers' launch command (shell-quoted)")
	return cmd
}
