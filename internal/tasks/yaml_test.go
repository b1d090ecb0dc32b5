package tasks

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTasksYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "tasks.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Projects) != 0 {
		t.Errorf("expected no projects, got %v", f.Projects)
	}
}

func TestDirectProject(t *testing.T) {
	path := writeTasksYAML(t, `
android-sdk:
  backlog:
    - id: task1
      title: Test task
  in_progress: []
  done:
    - id: task2
    - id: task3
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entry, ok := f.Projects["android-sdk"]
	if !ok || entry.Direct == nil {
		t.Fatalf("expected android-sdk to parse as Direct, got %+v", entry)
	}
	if len(entry.Direct.Backlog) != 1 {
		t.Errorf("backlog len = %d, want 1", len(entry.Direct.Backlog))
	}
	if len(entry.Direct.Done) != 2 {
		t.Errorf("done len = %d, want 2", len(entry.Direct.Done))
	}
}

func TestMixedNestedAndDirect(t *testing.T) {
	path := writeTasksYAML(t, `
worker_protocol:
  claim: Move the task

rules:
  - Claim one task

backend:
  features:
    backlog: []
    in_progress: []
    done:
      - id: done-task
  fixes:
    backlog:
      - id: fix-task
    in_progress: []
    done: []

android-sdk:
  backlog:
    - id: android-task
  in_progress: []
  done:
    - id: done1
    - id: done2
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if f.WorkerProtocol.Claim != "Move the task" {
		t.Errorf("WorkerProtocol.Claim = %q", f.WorkerProtocol.Claim)
	}
	if len(f.Rules) != 1 {
		t.Errorf("Rules = %v", f.Rules)
	}

	backend, ok := f.Projects["backend"]
	if !ok || backend.Nested == nil {
		t.Fatalf("expected backend to parse as Nested, got %+v", backend)
	}
	fixes, ok := backend.Nested["fixes"]
	if !ok || len(fixes.Backlog) != 1 {
		t.Fatalf("expected fixes.backlog to have 1 task, got %+v", fixes)
	}

	android, ok := f.Projects["android-sdk"]
	if !ok || android.Direct == nil {
		t.Fatalf("expected android-sdk to parse as Direct, got %+v", android)
	}

	counts := CountsForLane(f, "android-sdk")
	if counts.Backlog != 1 || counts.Done != 2 {
		t.Errorf("CountsForLane(android-sdk) = %+v", counts)
	}

	fixesCounts := CountsForLane(f, "backend/fixes")
	if fixesCounts.Backlog != 1 {
		t.Errorf("CountsForLane(backend/fixes) = %+v", fixesCounts)
	}
}

func TestCountsForLaneUnknownIsZero(t *testing.T) {
	path := writeTasksYAML(t, `
android-sdk:
  backlog: []
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := CountsForLane(f, "nope"); got != (Counts{}) {
		t.Errorf("expected zero Counts, got %+v", got)
	}
	if got := CountsForLane(f, "android-sdk/nope"); got != (Counts{}) {
		t.Errorf("expected zero Counts for unknown sublane, got %+v", got)
	}
}

func TestGlobalBacklog(t *testing.T) {
	path := writeTasksYAML(t, `
global_backlog:
  - id: g1
    priority: high
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.GlobalBacklog) != 1 || f.GlobalBacklog[0].Priority != "high" {
		t.Errorf("GlobalBacklog = %+v", f.GlobalBacklog)
	}
}
