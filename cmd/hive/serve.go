package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"hive/internal/activitylog"
	"hive/internal/config"
	"hive/internal/hiveerr"
	"hive/internal/hiveserver"
	"hive/internal/socketdir"
	"hive/internal/tasks"
)

// newServeCmd builds the hidden foreground server command `up`/`open` fork
// into. It is the only command that actually constructs a
// hiveserver.Server; every other command talks to one over the socket.
func newServeCmd() *cobra.Command {
	var architectCmdStr string
	var workerCmdStr string

	cmd := &cobra.Command{
		Use:    "serve <name>",
		Short:  "Run a workspace's server in the foreground",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0], architectCmdStr, workerCmdStr)
		},
	}

	cmd.Flags().StringVar(&architectCmdStr, "architect-cmd", "", "override the architect's launch command (shell-quoted)")
	cmd.Flags().StringVar(&workerCmdStr, "worker-cmd", "", "override workers' launch command (shell-quoted)")
	return cmd
}

func runServe(name, architectCmdStr, workerCmdStr string) error {
	workspaceDir := socketdir.Dir(name)
	cfg, err := config.Load(workspaceDir)
	if err != nil {
		return hiveerr.New(hiveerr.ConfigInvalid, "load workspace config", err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	lk, err := socketdir.Lock(name)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	logger := activitylog.New(true, socketdir.Log(name), name)
	defer logger.Close()

	srv := hiveserver.New(name, workspaceDir, cfg)

	if architectCmdStr != "" {
		argv, err := shlex.Split(architectCmdStr)
		if err != nil {
			return fmt.Errorf("--architect-cmd: %w", err)
		}
		srv.ArchitectCmd = argv
	}
	if workerCmdStr != "" {
		argv, err := shlex.Split(workerCmdStr)
		if err != nil {
			return fmt.Errorf("--worker-cmd: %w", err)
		}
		srv.WorkerCmd = argv
	}

	if err := srv.Start(logger); err != nil {
		return err
	}

	watcher, err := tasks.New(socketdir.Tasks(name), tasks.DefaultDebounce, tasks.DefaultSettle)
	if err != nil {
		return hiveerr.New(hiveerr.IoPath, "start task watcher", err)
	}
	defer watcher.Stop()
	go forwardNudges(watcher, srv)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		srv.Shutdown()
	}()

	return srv.Run()
}

// forwardNudges relays a tasks.Watcher's channels into the server's, so
// hiveserver never imports fsnotify directly (spec §4.5's watcher-to-
// server wiring is cmd/hive's job, not the server's).
func forwardNudges(w *tasks.Watcher, srv *hiveserver.Server) {
	nudgeAll := srv.NudgeAll()
	parseErrors := srv.ParseErrors()
	for {
		select {
		case <-w.NudgeAll:
			select {
			case nudgeAll <- struct{}{}:
			default:
			}
		case err, ok := <-w.ParseError:
			if !ok {
				return
			}
			select {
			case parseErrors <- err:
			default:
			}
		}
	}
}
