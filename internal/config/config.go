// Package config loads and validates a workspace's workspace.yaml: the
// projects it spans, how many workers and lanes each project gets, and
// which agent backend drives the architect and worker panes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Backend selects the coding-agent CLI a pane runs.
type Backend string

const (
	BackendClaude Backend = "claude"
	BackendCodex  Backend = "codex"
)

func (b Backend) valid() bool {
	switch b {
	case BackendClaude, BackendCodex:
		return true
	default:
		return false
	}
}

// Workspace is the root of workspace.yaml.
type Workspace struct {
	Name      string          `yaml:"name"`
	Root      string          `yaml:"root,omitempty"`
	Projects  []Project       `yaml:"projects"`
	Architect ArchitectConfig `yaml:"architect"`
	Workers   WorkersConfig   `yaml:"workers"`
	Layout    LayoutConfig    `yaml:"layout,omitempty"`
	Nudge     NudgeConfig     `yaml:"nudge,omitempty"`
}

// NudgeConfig controls the message injected into a worker's stdin by the
// nudge algorithm (spec §4.5) and the byte-by-byte delivery pacing (spec
// §9: "whether the nudge message's inter-byte delay is load-bearing on
// platforms other than the two tested backends" is left configurable
// rather than resolved).
type NudgeConfig struct {
	// Template is rendered with {lane} and {backlog_count} substituted.
	Template string `yaml:"template,omitempty"`
	// InterByteDelayMS paces stdin writes; ~2ms mimics human typing well
	// enough that raw-mode line editors don't drop or coalesce keystrokes.
	InterByteDelayMS int `yaml:"inter_byte_delay_ms,omitempty"`
}

const (
	DefaultNudgeTemplate = "You have {backlog_count} task(s) waiting in {lane}. Please check the task file and pick one up."
	DefaultInterByteDelayMS = 2
)

// EffectiveTemplate returns the configured nudge template, or the package
// default when unset.
func (n NudgeConfig) EffectiveTemplate() string {
	if n.Template == "" {
		return DefaultNudgeTemplate
	}
	return n.Template
}

// EffectiveInterByteDelayMS returns the configured pacing delay, or the
// package default when unset.
func (n NudgeConfig) EffectiveInterByteDelayMS() int {
	if n.InterByteDelayMS == 0 {
		return DefaultInterByteDelayMS
	}
	return n.InterByteDelayMS
}

// Project is a single git repository folded into the workspace, with one
// worker lane per entry in Lanes. Workers of 1 means the original checkout
// is used directly; 2 or more means additional git worktrees are created.
type Project struct {
	Path    string   `yaml:"path"`
	Workers int      `yaml:"workers,omitempty"`
	Lanes   []string `yaml:"lanes"`
}

type ArchitectConfig struct {
	Backend Backend `yaml:"backend"`
}

type WorkersConfig struct {
	Backend         Backend  `yaml:"backend"`
	SkipPermissions bool     `yaml:"skip_permissions,omitempty"`
	Setup           []string `yaml:"setup,omitempty"`
	Symlink         []string `yaml:"symlink,omitempty"`
}

// LayoutConfig sets the tiling engine's pane-size floor; panes shrink to
// fit the terminal but never below these dimensions, paginating instead.
type LayoutConfig struct {
	MinPaneWidth  int `yaml:"min_pane_width,omitempty"`
	MinPaneHeight int `yaml:"min_pane_height,omitempty"`
}

const (
	DefaultMinPaneWidth  = 40
	DefaultMinPaneHeight = 10
)

// EffectiveMinPaneWidth returns the configured floor, or the package
// default when unset.
func (l LayoutConfig) EffectiveMinPaneWidth() int {
	if l.MinPaneWidth == 0 {
		return DefaultMinPaneWidth
	}
	return l.MinPaneWidth
}

// EffectiveMinPaneHeight returns the configured floor, or the package
// default when unset.
func (l LayoutConfig) EffectiveMinPaneHeight() int {
	if l.MinPaneHeight == 0 {
		return DefaultMinPaneHeight
	}
	return l.MinPaneHeight
}

const defaultWorkersPerProject = 1

// Load reads workspace.yaml from dir. If the file does not exist, it
// returns an empty Workspace with no error, so callers creating a new
// workspace can Load-then-populate-then-Save.
func Load(dir string) (*Workspace, error) {
	return LoadFrom(filepath.Join(dir, "workspace.yaml"))
}

// LoadFrom reads and validates the workspace config at path.
func LoadFrom(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Workspace{}, nil
		}
		return nil, err
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, err
	}
	for i := range ws.Projects {
		if ws.Projects[i].Workers == 0 {
			ws.Projects[i].Workers = defaultWorkersPerProject
		}
	}
	if err := ws.validate(); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Save writes the workspace config to dir/workspace.yaml.
func (ws *Workspace) Save(dir string) error {
	data, err := yaml.Marshal(ws)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "workspace.yaml"), data, 0o644)
}

func (ws *Workspace) validate() error {
	if ws.Name == "" {
		return fmt.Errorf("workspace.yaml: name is required")
	}
	if len(ws.Projects) == 0 {
		return fmt.Errorf("workspace.yaml: at least one project is required")
	}
	if !ws.Architect.Backend.valid() {
		return fmt.Errorf("workspace.yaml: architect.backend %q must be one of claude, codex", ws.Architect.Backend)
	}
	if !ws.Workers.Backend.valid() {
		return fmt.Errorf("workspace.yaml: workers.backend %q must be one of claude, codex", ws.Workers.Backend)
	}
	for i, p := range ws.Projects {
		if p.Path == "" {
			return fmt.Errorf("workspace.yaml: projects[%d].path is required", i)
		}
		if p.Workers < 1 {
			return fmt.Errorf("workspace.yaml: projects[%d].workers must be >= 1", i)
		}
		if len(p.Lanes) != p.Workers {
			return fmt.Errorf("workspace.yaml: projects[%d] has %d workers but %d lanes", i, p.Workers, len(p.Lanes))
		}
	}
	return nil
}

// AllLanes returns the sorted, deduplicated set of lane names across every
// project in the workspace.
func (ws *Workspace) AllLanes() []string {
	seen := make(map[string]bool)
	var lanes []string
	for _, p := range ws.Projects {
		for _, lane := range p.Lanes {
			if !seen[lane] {
				seen[lane] = true
				lanes = append(lanes, lane)
			}
		}
	}
	sort.Strings(lanes)
	return lanes
}

// TotalWorkers returns the sum of Workers across all projects.
func (ws *Workspace) TotalWorkers() int {
	total := 0
	for _, p := range ws.Projects {
		total += p.Workers
	}
	return total
}
