package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hive/internal/socketdir"
	"hive/internal/tui"
	"hive/internal/wire"
)

// newDownCmd builds `hive down <name>` (aliased as `stop`): ask a running
// server to shut down cleanly over the socket rather than killing its pid,
// so panes get a chance to persist UI state (see hiveserver.Server.shutdown).
func newDownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "down <name>",
		Aliases: []string{"stop"},
		Short:   "Stop a workspace's server",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(args[0])
		},
	}
	return cmd
}

func runDown(name string) error {
	if !socketdir.IsRunning(name) {
		return fmt.Errorf("workspace %q is not running", name)
	}
	client, err := tui.Dial(socketdir.Socket(name), tui.Hooks{
		OnState:      func(wire.StateMsg) {},
		OnOutput:     func(wire.OutputMsg) {},
		OnPaneExited: func(wire.PaneExitedMsg) {},
		OnError:      func(wire.ErrorMsg) {},
		OnDisconnect: func(error) {},
	})
	if err != nil {
		return fmt.Errorf("connect to %q: %w", name, err)
	}
	defer client.Close()
	if err := client.Send(wire.KindShutdown, wire.ShutdownMsg{}); err != nil {
		return fmt.Errorf("send shutdown: %w", err)
	}
	fmt.Printf("workspace %q stopped\n", name)
	return nil
}
