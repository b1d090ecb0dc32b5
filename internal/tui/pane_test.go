package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive/internal/wire"
)

func TestClientPaneIsArchitect(t *testing.T) {
	arch := NewClientPane(wire.PaneInfo{ID: "a", Type: "architect"})
	worker := NewClientPane(wire.PaneInfo{ID: "w", Type: "worker"})
	assert.True(t, arch.IsArchitect())
	assert.False(t, worker.IsArchitect())
}

func TestClientPaneActiveBufferSwitchesDuringScroll(t *testing.T) {
	p := NewClientPane(wire.PaneInfo{ID: "w"})
	p.PushOutput([]byte("hello\r\n"))
	assert.Same(t, p.Buffer, p.ActiveBuffer())

	p.EnterScroll()
	require.NotNil(t, p.ScrollBuffer)
	assert.Same(t, p.ScrollBuffer, p.ActiveBuffer())

	p.ExitScroll()
	assert.Nil(t, p.ScrollBuffer)
	assert.Same(t, p.Buffer, p.ActiveBuffer())
}

func TestClientPanePushOutputFeedsHistory(t *testing.T) {
	p := NewClientPane(wire.PaneInfo{ID: "w"})
	p.PushOutput([]byte("abc"))
	assert.Equal(t, []byte("abc"), p.RawHistory.Bytes())
}
