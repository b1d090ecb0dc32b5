package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive/internal/config"
)

func TestResolveArchitectFirst(t *testing.T) {
	cfg := &config.Workspace{
		Architect: config.ArchitectConfig{Backend: config.BackendClaude},
		Workers:   config.WorkersConfig{Backend: config.BackendCodex},
		Projects: []config.Project{
			{Path: "/code/repo", Workers: 1, Lanes: []string{"default"}},
		},
	}
	plan := Resolve(cfg, "/home/.hive/workspaces/test")
	require.NotNil(t, plan.Architect)
	assert.Equal(t, RoleArchitect, plan.Architect.Role)
	require.Len(t, plan.Workers, 1)
	assert.Equal(t, "default", plan.Workers[0].Lane)
	assert.Equal(t, "/code/repo", plan.Workers[0].WorkingDir)
	assert.Empty(t, plan.Workers[0].Group)
}

func TestResolveMultiLaneGetsWorktreePathAndGroup(t *testing.T) {
	cfg := &config.Workspace{
		Workers: config.WorkersConfig{Backend: config.BackendClaude},
		Projects: []config.Project{
			{Path: "/code/repo", Workers: 2, Lanes: []string{"api", "ui"}},
		},
	}
	plan := Resolve(cfg, "/ws")
	require.Len(t, plan.Workers, 2)

	first, second := plan.Workers[0], plan.Workers[1]
	assert.Equal(t, "/code/repo", first.WorkingDir)
	assert.Equal(t, "repo/api", first.Lane)
	assert.Equal(t, "repo", first.Group)

	assert.Contains(t, second.WorkingDir, "worktrees")
	assert.Contains(t, second.WorkingDir, "repo-ui")
	assert.Equal(t, "repo/ui", second.Lane)
	assert.Equal(t, "repo-ui/ui", second.Branch.Local)
	assert.Equal(t, "ui", second.Branch.Remote)
}

func TestResolveSingletonProjectNoGroup(t *testing.T) {
	cfg := &config.Workspace{
		Workers: config.WorkersConfig{Backend: config.BackendClaude},
		Projects: []config.Project{
			{Path: "/code/a", Workers: 1, Lanes: []string{"dev"}},
			{Path: "/code/b", Workers: 1, Lanes: []string{"dev"}},
		},
	}
	plan := Resolve(cfg, "/ws")
	require.Len(t, plan.Workers, 2)
	assert.Empty(t, plan.Workers[0].Group)
	assert.Empty(t, plan.Workers[1].Group)
	assert.Equal(t, "dev", plan.Workers[0].Lane)
}

func TestSlugFromPath(t *testing.T) {
	assert.Equal(t, "my-repo", slugFromPath("/code/My Repo"))
	assert.Equal(t, "repo", slugFromPath("/code/repo/"))
}
