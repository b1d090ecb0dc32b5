// Package workspace resolves a workspace's config (projects, lanes,
// backends) into the concrete ordered list of runtime workers the server
// spawns, and manages the git worktrees those lanes need. Grounded on
// original_source/src/workspace/worktree.rs for the worker/lane numbering
// and worktree-path rules, and on the teacher's internal/config accessor
// style (defaulted methods like ResolveProjectDir) for the Go idiom.
package workspace

import (
	"path/filepath"
	"regexp"
	"strings"

	"hive/internal/config"
)

// Role distinguishes the Architect pane from Worker panes.
type Role int

const (
	RoleArchitect Role = iota
	RoleWorker
)

// Branch is the local/remote branch-naming convention assigned to a lane's
// worktree, per spec §3's Pane.branch field.
type Branch struct {
	Local  string
	Remote string
}

// Worker is one resolved runtime pane: where it runs, what lane it serves,
// and how it's grouped in the sidebar. Matches spec §4.3's per-worker
// assignment rules exactly.
type Worker struct {
	ID         string
	Role       Role
	Backend    config.Backend
	WorkingDir string
	Lane       string // canonical "project/lane" or "lane"
	Branch     *Branch
	Group      string // project name, only set when the project has >=2 workers
	ProjectIdx int
}

// Plan is the resolved set of runtime workers for a workspace, in spawn
// order: Architect first (when configured), then Workers project by
// project, lane by lane.
type Plan struct {
	Architect *Worker
	Workers   []Worker
}

var slugRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// slugFromPath derives a filesystem-and-branch-safe slug from a project's
// checkout path, mirroring original_source's slug_from_path (base name,
// non-alphanumerics collapsed to a dash).
func slugFromPath(path string) string {
	base := filepath.Base(filepath.Clean(path))
	slug := slugRe.ReplaceAllString(base, "-")
	return strings.Trim(strings.ToLower(slug), "-")
}

// projectName is the human-facing project name used in lane keys and
// sidebar groups: workspace.yaml has no separate "name" field for a
// project (§6 schema is just {path, workers, lanes}), so it's derived
// from the checkout's directory name.
func projectName(path string) string {
	return filepath.Base(filepath.Clean(path))
}

// Resolve builds the runtime Plan from a loaded workspace config, without
// touching the filesystem: worktree creation is a separate step
// (EnsureWorktrees) so callers can resolve a dry-run plan for "status"
// and similar read-only commands.
func Resolve(cfg *config.Workspace, workspaceDir string) Plan {
	var plan Plan
	nextID := 1

	if cfg.Architect.Backend != "" {
		plan.Architect = &Worker{
			ID:         "pane-" + itoa(nextID),
			Role:       RoleArchitect,
			Backend:    cfg.Architect.Backend,
			WorkingDir: architectWorkingDir(cfg, workspaceDir),
		}
		nextID++
	}

	for pi, project := range cfg.Projects {
		lanes := project.Lanes
		if len(lanes) == 0 {
			lanes = []string{"default"}
		}
		slug := slugFromPath(project.Path)
		multiProject := len(lanes) > 1

		for li, lane := range lanes {
			w := Worker{
				ID:         "pane-" + itoa(nextID),
				Role:       RoleWorker,
				Backend:    cfg.Workers.Backend,
				ProjectIdx: pi,
			}
			nextID++

			name := projectName(project.Path)
			if multiProject {
				w.Lane = name + "/" + lane
			} else {
				w.Lane = lane
			}

			if li == 0 {
				w.WorkingDir = project.Path
			} else {
				w.WorkingDir = filepath.Join(workspaceDir, "worktrees", slug+"-"+lane)
			}

			w.Branch = &Branch{
				Local:  slug + "-" + lane + "/" + lane,
				Remote: lane,
			}

			if len(lanes) > 1 {
				w.Group = name
			}

			plan.Workers = append(plan.Workers, w)
		}
	}

	return plan
}

// architectWorkingDir picks where the architect pane runs: the workspace's
// declared root, falling back to its first project's checkout, falling
// back to the workspace state directory itself (a workspace with zero
// projects never resolves, so this last case is only reachable in tests).
func architectWorkingDir(cfg *config.Workspace, workspaceDir string) string {
	if cfg.Root != "" {
		return cfg.Root
	}
	if len(cfg.Projects) > 0 {
		return cfg.Projects[0].Path
	}
	return workspaceDir
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
