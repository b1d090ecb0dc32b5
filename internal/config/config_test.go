package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWorkspaceYAML(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "workspace.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	ws, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.Name != "" || len(ws.Projects) != 0 {
		t.Errorf("expected empty workspace, got %+v", ws)
	}
}

func TestLoadValid(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceYAML(t, dir, `
name: demo
projects:
  - path: /repos/api
    workers: 2
    lanes: [backend, infra]
architect:
  backend: claude
workers:
  backend: codex
  skip_permissions: true
  setup: ["npm install"]
`)

	ws, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.Name != "demo" {
		t.Errorf("Name = %q", ws.Name)
	}
	if ws.Architect.Backend != BackendClaude {
		t.Errorf("Architect.Backend = %q", ws.Architect.Backend)
	}
	if !ws.Workers.SkipPermissions {
		t.Error("expected SkipPermissions true")
	}
	if ws.TotalWorkers() != 2 {
		t.Errorf("TotalWorkers = %d", ws.TotalWorkers())
	}
	if got := ws.AllLanes(); len(got) != 2 || got[0] != "backend" || got[1] != "infra" {
		t.Errorf("AllLanes = %v", got)
	}
}

func TestLoadDefaultsWorkersToOne(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceYAML(t, dir, `
name: demo
projects:
  - path: /repos/api
    lanes: [solo]
architect:
  backend: claude
workers:
  backend: claude
`)
	ws, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ws.Projects[0].Workers != 1 {
		t.Errorf("Workers = %d, want 1", ws.Projects[0].Workers)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceYAML(t, dir, `
name: demo
projects:
  - path: /repos/api
    lanes: [solo]
architect:
  backend: gpt4
workers:
  backend: claude
`)
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for an invalid backend")
	}
}

func TestLoadRejectsLaneCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceYAML(t, dir, `
name: demo
projects:
  - path: /repos/api
    workers: 2
    lanes: [solo]
architect:
  backend: claude
workers:
  backend: claude
`)
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a workers/lanes mismatch")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ws := &Workspace{
		Name: "demo",
		Projects: []Project{
			{Path: "/repos/api", Workers: 1, Lanes: []string{"solo"}},
		},
		Architect: ArchitectConfig{Backend: BackendClaude},
		Workers:   WorkersConfig{Backend: BackendClaude},
	}
	if err := ws.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Name != "demo" || len(reloaded.Projects) != 1 {
		t.Errorf("round trip mismatch: %+v", reloaded)
	}
}

func TestLayoutDefaults(t *testing.T) {
	var l LayoutConfig
	if l.EffectiveMinPaneWidth() != DefaultMinPaneWidth {
		t.Errorf("EffectiveMinPaneWidth = %d", l.EffectiveMinPaneWidth())
	}
	if l.EffectiveMinPaneHeight() != DefaultMinPaneHeight {
		t.Errorf("EffectiveMinPaneHeight = %d", l.EffectiveMinPaneHeight())
	}

	l = LayoutConfig{MinPaneWidth: 80, MinPaneHeight: 20}
	if l.EffectiveMinPaneWidth() != 80 || l.EffectiveMinPaneHeight() != 20 {
		t.Errorf("expected configured values to win, got %+v", l)
	}
}
