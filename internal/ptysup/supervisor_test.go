package ptysup

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAndReadOutput(t *testing.T) {
	h, err := Spawn("/bin/echo", t.TempDir(), Options{Args: []string{"hello"}})
	require.NoError(t, err)

	events := make(chan Event, 16)
	SpawnReader("pane-1", h, events)

	var got bytes.Buffer
	deadline := time.After(2 * time.Second)
loop:
	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case Output:
				got.Write(ev.Data)
			case Exited:
				break loop
			}
		case <-deadline:
			t.Fatal("timed out waiting for child exit")
		}
	}
	assert.Contains(t, got.String(), "hello")
}

func TestRespondToCursorQueryWritesCannedReply(t *testing.T) {
	var buf bytes.Buffer
	RespondToCursorQuery(&buf, []byte("prefix\x1b[6nsuffix"))
	assert.Equal(t, cprReply, buf.String())
}

func TestRespondToCursorQueryIgnoresUnrelatedBytes(t *testing.T) {
	var buf bytes.Buffer
	RespondToCursorQuery(&buf, []byte("just plain output"))
	assert.Equal(t, "", buf.String())
}

func TestBuildEnvSetsRequiredVars(t *testing.T) {
	env := buildEnv(nil)
	has := func(kv string) bool {
		for _, e := range env {
			if e == kv {
				return true
			}
		}
		return false
	}
	assert.True(t, has("TERM=xterm-256color"))
	assert.True(t, has("LANG=en_US.UTF-8"))
	assert.True(t, has("LC_ALL=en_US.UTF-8"))
}

func TestBuildEnvOverridesExisting(t *testing.T) {
	env := buildEnv(map[string]string{"TERM": "dumb"})
	found := false
	for _, e := range env {
		if e == "TERM=dumb" {
			found = true
		}
		assert.NotEqual(t, "TERM=xterm-256color", e)
	}
	assert.True(t, found)
}
