package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"hive/internal/socketdir"
)

func TestRunListEmptyRoot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newListCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "No workspaces.") {
		t.Errorf("expected the empty-root message, got: %q", buf.String())
	}
}

func TestRunListShowsStoppedWorkspace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := os.MkdirAll(socketdir.Dir("demo"), 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := newListCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "demo") || !strings.Contains(buf.String(), "stopped") {
		t.Errorf("expected demo listed as stopped, got: %q", buf.String())
	}
}
