package hiveserver

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hive/internal/activitylog"
	"hive/internal/config"
	"hive/internal/hiveerr"
	"hive/internal/ptysup"
	"hive/internal/socketdir"
	"hive/internal/tasks"
	"hive/internal/termbuf"
	"hive/internal/wire"
	"hive/internal/workspace"
)

const (
	defaultScrollbackDepth = 10000
	tickInterval           = 2 * time.Second
)

// Server holds hive's authoritative state (spec §4.5): the pane vector,
// layout toggles, task counts, and connected clients. Exactly one
// goroutine — Run's event loop — ever mutates this struct; every other
// goroutine (pane readers, the accept loop, per-client readers/writers,
// the task watcher) only posts onto a channel it owns one end of.
type Server struct {
	ProjectName  string
	WorkspaceDir string
	Cfg          *config.Workspace

	Panes         []*Pane
	Windows       []wire.WindowInfo
	LayoutMode    string
	ArchitectLeft bool
	TaskCounts    map[string]tasks.Counts

	// ArchitectCmd/WorkerCmd override the default backend invocation
	// (see backendCommand) when non-empty. cmd/hive populates these from
	// the `--architect-cmd`/`--worker-cmd` flags, pre-split into argv by
	// shlex so operators can pass a quoted command line on one flag the
	// way the teacher's bridge/exec.go accepts one for a hook command.
	ArchitectCmd []string
	WorkerCmd    []string

	logger    *activitylog.Logger
	tasksPath string

	paneEvents   chan ptysup.Event
	clientEvents chan clientEvent
	nudgeAll     chan struct{}
	parseErrors  chan error

	listener net.Listener
	clients  map[string]*clientHandle
	stop     chan struct{}
}

// New constructs a Server for an already-resolved plan. It does not spawn
// anything; call Start to bring panes and the socket up.
func New(projectName, workspaceDir string, cfg *config.Workspace) *Server {
	return &Server{
		ProjectName:  projectName,
		WorkspaceDir: workspaceDir,
		Cfg:          cfg,
		LayoutMode:   "grid",
		TaskCounts:   map[string]tasks.Counts{},
		tasksPath:    filepath.Join(workspaceDir, "tasks.yaml"),
		paneEvents:   make(chan ptysup.Event, 256),
		clientEvents: make(chan clientEvent, 256),
		nudgeAll:     make(chan struct{}, 1),
		parseErrors:  make(chan error, 1),
		clients:      map[string]*clientHandle{},
		stop:         make(chan struct{}),
	}
}

// Start brings the server up per spec §4.5's Lifecycle: validates and
// prepares the state dir, builds and spawns the runtime workers, applies
// persisted UI state, and binds the socket. It does not start the task
// watcher; the caller wires one to NudgeAll/ParseErrors.
// Returns a hiveerr.Error classified per §7 on any fatal startup failure.
func (s *Server) Start(logger *activitylog.Logger) error {
	s.logger = logger
	if logger == nil {
		s.logger = activitylog.New(false, "", s.ProjectName)
	}

	if err := os.MkdirAll(s.WorkspaceDir, 0o755); err != nil {
		return hiveerr.New(hiveerr.IoPath, "prepare workspace dir", err)
	}

	for _, project := range s.Cfg.Projects {
		workspace.ExcludeScratchDirs(project.Path)
	}

	plan := workspace.Resolve(s.Cfg, s.WorkspaceDir)
	if err := workspace.EnsureWorktrees(plan, s.Cfg, s.WorkspaceDir); err != nil {
		return err
	}

	if plan.Architect != nil {
		pane, err := s.spawnPane(PaneArchitect, *plan.Architect)
		if err != nil {
			return err
		}
		s.Panes = append(s.Panes, pane)
	}
	for _, w := range plan.Workers {
		pane, err := s.spawnPane(PaneWorker, w)
		if err != nil {
			return err
		}
		s.Panes = append(s.Panes, pane)
	}

	if st, err := LoadUIState(socketdir.UIState(s.ProjectName)); err == nil {
		s.Panes = st.Apply(s.Panes)
		s.ArchitectLeft = st.ArchitectLeft
		if st.LayoutMode != "" {
			s.LayoutMode = st.LayoutMode
		}
	}

	sockPath := socketdir.Socket(s.ProjectName)
	if err := socketdir.ProbeSocket(sockPath, "hive workspace "+s.ProjectName); err != nil {
		return hiveerr.New(hiveerr.SocketBind, "probe stale socket", err)
	}
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return hiveerr.New(hiveerr.SocketBind, "bind socket", err)
	}
	s.listener = ln

	if err := socketdir.WritePid(s.ProjectName); err != nil {
		return hiveerr.New(hiveerr.IoPath, "write pid file", err)
	}

	s.refreshTaskCounts()
	return nil
}

func (s *Server) spawnPane(typ PaneType, w workspace.Worker) (*Pane, error) {
	pane := NewPane(w.ID, typ, w, ptysup.DefaultRows, ptysup.DefaultCols)

	backendCmd, args := backendCommand(w.Backend)
	if override := s.commandOverride(typ); len(override) > 0 {
		backendCmd, args = override[0], override[1:]
	}
	h, err := ptysup.Spawn(backendCmd, w.WorkingDir, ptysup.Options{
		Args: args,
		Rows: ptysup.DefaultRows,
		Cols: ptysup.DefaultCols,
	})
	if err != nil {
		return nil, hiveerr.New(hiveerr.PtySpawn, "spawn pane "+w.ID, err)
	}

	pane.PTY = h
	pane.Buffer = termbuf.New(ptysup.DefaultRows, ptysup.DefaultCols, defaultScrollbackDepth)
	pane.RawHistory = termbuf.NewRawHistory(termbuf.DefaultRawHistoryBytes)
	pane.StartNudgeDelivery()

	ptysup.SpawnReader(pane.ID, h, s.paneEvents)
	s.logger.PaneSpawned(pane.ID, pane.Lane)
	return pane, nil
}

// backendCommand resolves a config.Backend to the CLI invocation used to
// start it. The exact arguments a backend needs are an external
// collaborator's concern per spec §1 ("the specific command-line
// arguments used to invoke backend agents"); this is the minimal,
// argument-free invocation that interface implies.
func backendCommand(b config.Backend) (string, []string) {
	switch b {
	case config.BackendCodex:
		return "codex", nil
	default:
		return "claude", nil
	}
}

// commandOverride returns the operator-supplied argv for typ, if any.
func (s *Server) commandOverride(typ PaneType) []string {
	if typ == PaneArchitect {
		return s.ArchitectCmd
	}
	return s.WorkerCmd
}

// Run executes the event loop until Shutdown or the listener is closed.
// It is the sole mutator of Server state (spec §5).
func (s *Server) Run() error {
	go s.acceptLoop()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return s.shutdown()

		case ev := <-s.paneEvents:
			s.handlePaneEvent(ev)

		case ce := <-s.clientEvents:
			s.handleClientEvent(ce)

		case <-s.nudgeAll:
			s.runNudge("")

		case err := <-s.parseErrors:
			s.logger.WatcherParseError(err.Error())

		case <-ticker.C:
			// Housekeeping tick; currently a no-op placeholder for future
			// periodic work (idle detection, health checks).
		}
	}
}

// NudgeAll exposes the channel the task watcher posts to, so callers
// (cmd/hive's serve command) can connect a tasks.Watcher without
// hiveserver importing fsnotify directly.
func (s *Server) NudgeAll() chan<- struct{} { return s.nudgeAll }

// ParseErrors exposes the channel watcher parse failures are posted to.
func (s *Server) ParseErrors() chan<- error { return s.parseErrors }

func (s *Server) shutdown() error {
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(socketdir.Socket(s.ProjectName))
	s.persistUIState()
	return nil
}

// Shutdown requests the event loop exit cleanly (spec §4.5 command table:
// Shutdown "exit the event loop cleanly").
func (s *Server) Shutdown() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *Server) persistUIState() {
	st := Capture(s.Panes, s.ArchitectLeft, s.LayoutMode)
	st.Save(socketdir.UIState(s.ProjectName))
}

func (s *Server) refreshTaskCounts() {
	f, err := tasks.Load(s.tasksPath)
	if err != nil {
		s.logger.WatcherParseError(err.Error())
		return
	}
	counts := map[string]tasks.Counts{}
	for _, p := range s.Panes {
		if p.Type != PaneWorker || p.Lane == "" {
			continue
		}
		counts[p.Lane] = tasks.CountsForLane(f, p.Lane)
	}
	s.TaskCounts = counts
}

func newClientID() string { return uuid.New().String() }

func (s *Server) stateMsg() wire.StateMsg {
	panes := make([]wire.PaneInfo, len(s.Panes))
	for i, p := range s.Panes {
		panes[i] = p.Info()
	}
	counts := make(map[string]wire.TaskCounts, len(s.TaskCounts))
	for lane, c := range s.TaskCounts {
		counts[lane] = wire.TaskCounts{Backlog: c.Backlog, InProgress: c.InProgress, Done: c.Done}
	}
	backend := ""
	if len(s.Panes) > 0 {
		backend = string(s.Panes[0].Backend)
	}
	return wire.StateMsg{
		ProjectName:   s.ProjectName,
		Backend:       backend,
		LayoutMode:    s.LayoutMode,
		Panes:         panes,
		Windows:       s.Windows,
		TaskCounts:    counts,
		ArchitectLeft: s.ArchitectLeft,
		MinPaneWidth:  s.Cfg.Layout.EffectiveMinPaneWidth(),
		MinPaneHeight: s.Cfg.Layout.EffectiveMinPaneHeight(),
	}
}

func (s *Server) findPane(id string) *Pane {
	for _, p := range s.Panes {
		if p.ID == id {
			return p
		}
	}
	return nil
}
