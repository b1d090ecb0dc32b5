// Package socketdir resolves the filesystem layout of a hive workspace:
// ~/.hive/workspaces/<name>/ holding the config, task file, role files,
// socket, pid file, and logs described in spec §6.
package socketdir

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
)

// Root returns ~/.hive/workspaces, falling back to a relative path if HOME
// can't be resolved (mirrors the teacher's ConfigDir fallback).
func Root() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".hive", "workspaces")
	}
	return filepath.Join(home, ".hive", "workspaces")
}

// Dir returns the workspace directory for name.
func Dir(name string) string {
	return filepath.Join(Root(), name)
}

// Config, Tasks, Socket, Pid, Log, ServerLog, ClientLog, UIState, and
// Worktrees return the well-known paths inside a workspace directory.
func Config(name string) string       { return filepath.Join(Dir(name), "workspace.yaml") }
func Tasks(name string) string        { return filepath.Join(Dir(name), "tasks.yaml") }
func Socket(name string) string       { return filepath.Join(Dir(name), "hive.sock") }
func Pid(name string) string          { return filepath.Join(Dir(name), "hive.pid") }
func Log(name string) string          { return filepath.Join(Dir(name), "hive.log") }
func ServerLog(name string) string    { return filepath.Join(Dir(name), "server.log") }
func ClientLog(name string) string    { return filepath.Join(Dir(name), "client.log") }
func UIState(name string) string      { return filepath.Join(Dir(name), "ui-state.json") }
func Worktrees(name string) string    { return filepath.Join(Dir(name), "worktrees") }
func ArchitectMD(name string) string  { return filepath.Join(Dir(name), "ARCHITECT.md") }
func LaneWorkerMD(name, lane string) string {
	return filepath.Join(Dir(name), "lanes", lane, "WORKER.md")
}

// ProbeSocket checks whether sockPath belongs to a live server. If a
// connection succeeds, it returns an error describing the conflict (the
// caller should abort). If the path exists but nothing answers, it is a
// stale socket from a crashed previous run and is removed so the caller can
// bind fresh, per spec §5 ("existing socket files are removed on startup").
func ProbeSocket(sockPath, desc string) error {
	if _, err := os.Stat(sockPath); err != nil {
		return nil
	}
	conn, err := net.DialTimeout("unix", sockPath, 300*time.Millisecond)
	if err == nil {
		conn.Close()
		return fmt.Errorf("%s is already running (socket %s is live)", desc, sockPath)
	}
	// Stale socket from a crashed previous run.
	return os.Remove(sockPath)
}

// Lock returns a filesystem advisory lock over a workspace's start-up
// sequence. Two `hive up`/`hive open` invocations racing to start the same
// workspace both pass ProbeSocket's liveness check before either has bound
// the socket; TryLock closes that window by making the second invocation's
// lock attempt fail immediately instead of fighting the first for the
// listener. Callers must Unlock (and typically Close) once Start has either
// bound the socket or failed.
func Lock(name string) (*flock.Flock, error) {
	if err := os.MkdirAll(Dir(name), 0o755); err != nil {
		return nil, err
	}
	lk := flock.New(filepath.Join(Dir(name), ".lock"))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("workspace %s is already starting up", name)
	}
	return lk, nil
}

// WritePid writes the current process id to the workspace's pid file.
func WritePid(name string) error {
	return os.WriteFile(Pid(name), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// ReadPid reads the pid recorded for a workspace.
func ReadPid(name string) (int, error) {
	data, err := os.ReadFile(Pid(name))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(data))
}

// IsRunning reports whether a workspace's socket currently has a live
// listener behind it.
func IsRunning(name string) bool {
	conn, err := net.DialTimeout("unix", Socket(name), 300*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// List returns the names of all workspaces under Root(), sorted by name
// (os.ReadDir's order).
func List() ([]string, error) {
	entries, err := os.ReadDir(Root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
