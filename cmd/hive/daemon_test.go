package main

import "testing"

func TestFilteredEnvStripsClaudecode(t *testing.T) {
	in := []string{"PATH=/bin", "CLAUDECODE=1", "HOME=/root"}
	out := filteredEnv(in)
	for _, e := range out {
		if e == "CLAUDECODE=1" {
			t.Fatalf("expected CLAUDECODE to be stripped, got %v", out)
		}
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 remaining vars, got %v", out)
	}
}

func TestFilteredEnvLeavesOthersUntouched(t *testing.T) {
	in := []string{"FOO=bar", "CLAUDECODE_EXTRA=keep"}
	out := filteredEnv(in)
	if len(out) != 2 {
		t.Fatalf("expected both vars kept (only an exact CLAUDECODE= prefix match is stripped), got %v", out)
	}
}

func TestNewSysProcAttrSetsSessionLeader(t *testing.T) {
	attr := newSysProcAttr()
	if !attr.Setsid {
		t.Error("expected Setsid to be set so the daemon survives terminal hangup")
	}
}
