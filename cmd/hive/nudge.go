package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hive/internal/config"
	"hive/internal/hiveserver"
	"hive/internal/socketdir"
	"hive/internal/tasks"
	"hive/internal/tui"
	"hive/internal/wire"
	"hive/internal/workspace"
)

// newNudgeCmd builds `hive nudge <name> [worker]`: ask a running server to
// run the nudge algorithm (spec §4.5), either broadcast (no worker given,
// same as the task watcher's automatic trigger) or targeted at one pane or
// lane (bypassing the in_progress gate). Per spec §6, when the server
// isn't up there is no PTY to write into, so the CLI instead prints the
// rendered message for each lane that satisfies the manual-nudge
// predicate (backlog > 0) directly to stdout.
func newNudgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nudge <name> [worker]",
		Short: "Nudge a worker (or every eligible worker) to check the task queue",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			worker := ""
			if len(args) == 2 {
				worker = args[1]
			}
			return runNudge(cmd, args[0], worker)
		},
	}
}

func runNudge(cmd *cobra.Command, name, worker string) error {
	if socketdir.IsRunning(name) {
		return sendNudge(name, worker)
	}
	return printOfflineNudge(cmd, name, worker)
}

func sendNudge(name, worker string) error {
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
	if err := client.Send(wire.KindNudge, wire.NudgeMsg{Worker: worker}); err != nil {
		return fmt.Errorf("send nudge: %w", err)
	}
	return nil
}

// printOfflineNudge mirrors runNudge's manual-nudge predicate (spec §4.5's
// "Manual nudge: nudge iff counts.backlog > 0") without a PTY to write
// into: it prints what would have been typed for each matching lane.
func printOfflineNudge(cmd *cobra.Command, name, worker string) error {
	cfg, err := config.Load(socketdir.Dir(name))
	if err != nil {
		return fmt.Errorf("load workspace config: %w", err)
	}
	f, err := tasks.Load(socketdir.Tasks(name))
	if err != nil {
		return fmt.Errorf("load tasks.yaml: %w", err)
	}

	plan := workspace.Resolve(cfg, socketdir.Dir(name))
	template := cfg.Nudge.EffectiveTemplate()

	seen := make(map[string]bool, len(plan.Workers))
	printed := 0
	for _, w := range plan.Workers {
		if seen[w.Lane] {
			continue
		}
		seen[w.Lane] = true
		if worker != "" && w.ID != worker && w.Lane != worker {
			continue
		}
		counts := tasks.CountsForLane(f, w.Lane)
		if !hiveserver.ShouldNudge(counts, true) {
			continue
		}
		message := hiveserver.RenderNudge(template, w.Lane, counts.Backlog)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w.Lane, message)
		printed++
	}
	if printed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no lanes with pending backlog\n")
	}
	return nil
}
