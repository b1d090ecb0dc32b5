// Command hive supervises an architect + worker fleet of PTY-hosted coding
// agents across one or more git repos/worktrees, rendered via a tiling TUI
// over a reconnecting Unix socket client (see root.go for the subcommand
// surface). Grounded on h2's cmd/h2 entrypoint shape: a cobra root command
// built in internal/cmd and executed from a one-line main.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hive:", err)
		os.Exit(1)
	}
}
