package main

import (
	"fmt"
	"os"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"hive/internal/socketdir"
)

// newUpCmd builds `hive up <name>`: start the workspace's server (forking
// it into the background) and, unless --daemon was given, attach to it.
// Grounded on the teacher's run.go (fork, then auto-attach unless
// --detach), generalized to a named, pre-configured workspace instead of
// an ad hoc command line.
func newUpCmd() *cobra.Command {
	var daemon bool
	var architectCmdStr string
	var workerCmdStr string

	cmd := &cobra.Command{
		Use:   "up <name>",
		Short: "Start a workspace's server",
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

func startAndMaybeAttach(name string, daemon bool, architectCmdStr, workerCmdStr string) error {
	if socketdir.IsRunning(name) {
		if daemon {
			fmt.Fprintf(os.Stderr, "workspace %q is already running\n", name)
			return nil
		}
		return runAttach(name)
	}

	var architectCmd, workerCmd []string
	if architectCmdStr != "" {
		argv, err := shlex.Split(architectCmdStr)
		if err != nil {
			return fmt.Errorf("--architect-cmd: %w", err)
		}
		architectCmd = argv
	}
	if workerCmdStr != "" {
		argv, err := shlex.Split(workerCmdStr)
		if err != nil {
			return fmt.Errorf("--worker-cmd: %w", err)
		}
		workerCmd = argv
	}

	if err := forkServe(name, architectCmd, workerCmd); err != nil {
		return err
	}

	if daemon {
		fmt.Fprintf(os.Stderr, "workspace %q started. Attach with: hive attach %s\n", name, name)
		return nil
	}
	return runAttach(name)
}
