package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmdDirFlagNotImplemented(t *testing.T) {
	dirFlag = ""
	t.Cleanup(func() { dirFlag = "" })

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"-C", "/tmp", "list"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error when -C is set")
	}
	if !strings.Contains(err.Error(), "not implemented") {
		t.Errorf("error = %q, want it to mention -C is unimplemented", err.Error())
	}
}

func TestRootCmdRegistersAllSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	want := []string{"up", "down", "serve", "attach", "detach", "status", "list", "open", "nudge", "doctor", "role", "deinit", "layout"}
	for _, name := range want {
		if _, _, err := cmd.Find([]string{name}); err != nil {
			t.Errorf("expected subcommand %q to be registered: %v", name, err)
		}
	}
}

func TestNotImplementedStubsReturnError(t *testing.T) {
	for name, cmd := range map[string]func() error{
		"doctor": func() error { c := newDoctorCmd(); c.SetOut(&bytes.Buffer{}); c.SetErr(&bytes.Buffer{}); return c.RunE(c, nil) },
		"role":   func() error { c := newRoleCmd(); c.SetOut(&bytes.Buffer{}); c.SetErr(&bytes.Buffer{}); return c.RunE(c, nil) },
		"deinit": func() error { c := newDeinitCmd(); c.SetOut(&bytes.Buffer{}); c.SetErr(&bytes.Buffer{}); return c.RunE(c, nil) },
		"layout": func() error { c := newLayoutCmd(); c.SetOut(&bytes.Buffer{}); c.SetErr(&bytes.Buffer{}); return c.RunE(c, nil) },
	} {
		if err := cmd(); err == nil {
			t.Errorf("%s: expected a not-implemented error", name)
		}
	}
}
