package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// dirFlag backs the persistent -C/--dir flag. Per spec, external-
// collaborator surfaces (doctor, role, deinit, layout, and changing the
// resolution directory with -C) are named in the CLI surface for --help
// completeness but are not implemented in this build.
var dirFlag string

// NewRootCmd builds the root cobra command and registers every subcommand,
// grounded on the teacher's internal/cmd/root.go (PersistentPreRunE gating
// workspace resolution behind an allowlist of commands that don't need it).
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hive",
		Short: "Supervise an architect + worker fleet of coding agents",
		Long: `hive runs an architect agent and a fleet of worker agents, each in its
own PTY and (for multi-lane projects) its own git worktree, coordinated
through a shared tasks.yaml and rendered by a reconnecting tiling TUI
client.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dirFlag != "" {
				return fmt.Errorf("-C is not implemented in this build")
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "run as if started in <dir> (not implemented in this build)")

	rootCmd.AddCommand(
		newUpCmd(),
		newDownCmd(),
		newServeCmd(),
		newAttachCmd(),
		newDetachCmd(),
		newStatusCmd(),
		newListCmd(),
		newOpenCmd(),
		newNudgeCmd(),
		newDoctorCmd(),
		newRoleCmd(),
		newDeinitCmd(),
		newLayoutCmd(),
	)

	return rootCmd
}

// notImplemented is the shared stub body for the external-collaborator
// commands spec §6 lists but scopes out of this build (doctor, role,
// deinit, layout internals, the setup wizard).
func notImplemented(name string) error {
	fmt.Fprintf(os.Stderr, "hive %s: not implemented in this build\n", name)
	return fmt.Errorf("%s: not implemented in this build", name)
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose a workspace's configuration and git state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notImplemented("doctor")
		},
	}
}

func newRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role",
		Short: "Manage architect/worker role files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notImplemented("role")
		},
	}
}

func newDeinitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deinit <name>",
		Short: "Tear down a workspace's worktrees and state directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return notImplemented("deinit")
		},
	}
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Manage saved window layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return notImplemented("layout")
		},
	}
}
