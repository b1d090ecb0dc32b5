package hiveerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestFatalKinds(t *testing.T) {
	fatal := []Kind{ConfigInvalid, IoPath, SocketBind, PtySpawn, GitWorktree}
	for _, k := range fatal {
		if !k.Fatal() {
			t.Errorf("%s: expected Fatal() true", k)
		}
	}
	recoverable := []Kind{SocketConnect, ProtocolParse, TaskParse, ChildExited, Disconnected}
	for _, k := range recoverable {
		if k.Fatal() {
			t.Errorf("%s: expected Fatal() false", k)
		}
	}
}

func TestIsUnwraps(t *testing.T) {
	base := New(TaskParse, "parse tasks.yaml", errors.New("yaml: line 3"))
	wrapped := fmt.Errorf("watcher: %w", base)

	if !Is(wrapped, TaskParse) {
		t.Error("expected Is(wrapped, TaskParse) to be true")
	}
	if Is(wrapped, SocketBind) {
		t.Error("expected Is(wrapped, SocketBind) to be false")
	}
}

func TestErrorString(t *testing.T) {
	e := New(PtySpawn, "spawn architect", errors.New("exec: not found"))
	got := e.Error()
	want := "pty_spawn: spawn architect: exec: not found"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
