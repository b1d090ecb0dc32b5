package workspace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"hive/internal/config"
	"hive/internal/hiveerr"
)

// EnsureWorktrees creates a git worktree for every worker beyond the first
// lane of each project, per spec §4.3: "any additional lanes get a
// dedicated git worktree created under <workspace>/worktrees/<slug>-<lane>/
// on a fresh branch hive/<slug>-<lane>". Workers whose WorkingDir is the
// project's original checkout (the first lane) are skipped. Existing
// worktrees are left alone.
func EnsureWorktrees(plan Plan, cfg *config.Workspace, workspaceDir string) error {
	worktreesDir := filepath.Join(workspaceDir, "worktrees")
	if err := os.MkdirAll(worktreesDir, 0o755); err != nil {
		return hiveerr.New(hiveerr.GitWorktree, "create worktrees dir", err)
	}

	for i := range plan.Workers {
		w := &plan.Workers[i]
		if w.ProjectIdx >= len(cfg.Projects) {
			continue
		}
		project := cfg.Projects[w.ProjectIdx]
		if w.WorkingDir == project.Path {
			continue // first lane reuses the original checkout
		}
		if _, err := os.Stat(w.WorkingDir); err == nil {
			continue // worktree already exists
		}

		branch := "hive/" + w.Branch.Local[:strings.LastIndex(w.Branch.Local, "/")]
		if err := gitCreateWorktree(project.Path, w.WorkingDir, branch); err != nil {
			return hiveerr.New(hiveerr.GitWorktree, fmt.Sprintf("create worktree for %s", w.Lane), err)
		}
	}
	return nil
}

func gitCreateWorktree(repo, dest, branch string) error {
	cmd := exec.Command("git", "-C", repo, "worktree", "add", "-b", branch, dest)
	if out, err := cmd.CombinedOutput(); err != nil {
		// The branch may already exist from a previous run; retry without -b.
		cmd2 := exec.Command("git", "-C", repo, "worktree", "add", dest, branch)
		if out2, err2 := cmd2.CombinedOutput(); err2 != nil {
			return fmt.Errorf("git worktree add: %s / %s", strings.TrimSpace(string(out)), strings.TrimSpace(string(out2)))
		}
	}
	return nil
}

// TeardownWorktrees removes every worktree under <workspaceDir>/worktrees,
// attempting the git-native remove first and falling back to a directory
// delete, per spec §4.3.
func TeardownWorktrees(cfg *config.Workspace, workspaceDir string) error {
	worktreesDir := filepath.Join(workspaceDir, "worktrees")
	entries, err := os.ReadDir(worktreesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return hiveerr.New(hiveerr.GitWorktree, "list worktrees dir", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(worktreesDir, e.Name())
		if repo, ok := repoForWorktree(path); ok {
			gitRemoveWorktree(repo, path)
		}
		if _, statErr := os.Stat(path); statErr == nil {
			os.RemoveAll(path)
		}
	}
	return nil
}

func gitRemoveWorktree(repo, worktree string) error {
	cmd := exec.Command("git", "-C", repo, "worktree", "remove", "--force", worktree)
	return cmd.Run()
}

// repoForWorktree reads <worktree>/.git (a file, not a directory, for a
// worktree checkout) to find the origin repo root, mirroring
// original_source's parse_gitdir_path: "gitdir: /repo/.git/worktrees/name"
// walks up three levels to the repo root.
func repoForWorktree(worktree string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(worktree, ".git"))
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	gitdir, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", false
	}
	repo := filepath.Dir(filepath.Dir(filepath.Dir(strings.TrimSpace(gitdir))))
	if repo == "" || repo == "." {
		return "", false
	}
	return repo, true
}

// ExcludeScratchDirs appends the workspace's worktrees/ and .hive* patterns
// to a project's .git/info/exclude so they never show up as untracked in
// `git status`, per spec §4.5 lifecycle step 1. Idempotent: existing lines
// are left as-is.
func ExcludeScratchDirs(projectPath string) error {
	excludePath := filepath.Join(projectPath, ".git", "info", "exclude")
	if _, err := os.Stat(filepath.Dir(excludePath)); err != nil {
		return nil // not a git repo (or no .git/info yet); nothing to do
	}

	existing, _ := os.ReadFile(excludePath)
	lines := strings.Split(string(existing), "\n")
	has := func(pattern string) bool {
		for _, l := range lines {
			if strings.TrimSpace(l) == pattern {
				return true
			}
		}
		return false
	}

	var add []string
	for _, pattern := range []string{"/worktrees/", "/.hive*"} {
		if !has(pattern) {
			add = append(add, pattern)
		}
	}
	if len(add) == 0 {
		return nil
	}

	f, err := os.OpenFile(excludePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return hiveerr.New(hiveerr.GitWorktree, "update git exclude", err)
	}
	defer f.Close()
	for _, pattern := range add {
		if _, err := f.WriteString(pattern + "\n"); err != nil {
			return hiveerr.New(hiveerr.GitWorktree, "update git exclude", err)
		}
	}
	return nil
}
