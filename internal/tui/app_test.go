package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive/internal/wire"
)

func baseState() wire.StateMsg {
	return wire.StateMsg{
		ProjectName: "demo",
		Backend:     "claude",
		LayoutMode:  "grid",
		Panes: []wire.PaneInfo{
			{ID: "arch", Type: "architect", Visible: true},
			{ID: "w1", Type: "worker", Lane: "backend", Visible: true},
			{ID: "w2", Type: "worker", Lane: "frontend", Visible: true},
		},
		TaskCounts: map[string]wire.TaskCounts{
			"backend":  {Backlog: 2},
			"frontend": {Backlog: 0},
		},
	}
}

func TestApplyStateFocusesFirstAvailablePane(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	assert.Equal(t, "arch", a.FocusedPane)
}

func TestApplyStatePreservesExistingPaneBuffers(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	p := a.findPane("w1")
	require.NotNil(t, p)
	p.PushOutput([]byte("hello"))

	a.ApplyState(baseState())
	p2 := a.findPane("w1")
	require.NotNil(t, p2)
	assert.Same(t, p, p2, "ApplyState must reuse the existing ClientPane, not replace it")
}

func TestApplyOutputRoutesToCorrectPane(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.ApplyOutput(wire.OutputMsg{PaneID: "w1", Data: []byte("x")})
	p := a.findPane("w1")
	require.NotNil(t, p)
	assert.False(t, p.Exited)
}

func TestApplyPaneExitedMarksWithoutRemoving(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.ApplyPaneExited(wire.PaneExitedMsg{PaneID: "w1"})
	p := a.findPane("w1")
	require.NotNil(t, p)
	assert.True(t, p.Exited)
	assert.Len(t, a.Panes, 3, "exited panes stay in the pane list")
}

func TestVisibleWorkerIDsExcludesArchitect(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	ids := a.VisibleWorkerIDs()
	assert.NotContains(t, ids, "arch")
	assert.Contains(t, ids, "w1")
	assert.Contains(t, ids, "w2")
}

func TestVisibleWorkerIDsSmartModeHidesEmptyLanes(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.SmartMode = true
	ids := a.VisibleWorkerIDs()
	assert.Contains(t, ids, "w1")
	assert.NotContains(t, ids, "w2", "frontend lane has zero backlog")
}

func TestHandleNormalKeyForwardsUnmodifiedKeyAsInput(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	act := a.HandleKey(KeyEvent{Rune: 'x'})
	assert.Equal(t, ActionInput, act.Kind)
	assert.Equal(t, []byte("x"), act.Bytes)
}

func TestHandleNormalKeyCtrlQReturnsDetachCommand(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	act := a.HandleKey(KeyEvent{Ctrl: 'q'})
	assert.Equal(t, ActionCommand, act.Kind)
	assert.Equal(t, wire.KindDetach, act.Command)
}

func TestHandleNormalKeyCtrlBEntersSidebarMode(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.HandleKey(KeyEvent{Ctrl: 'b'})
	assert.Equal(t, ModeSidebarFocused, a.Mode)
}

func TestHandleNormalKeyCtrlZTogglesZoom(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.FocusedPane = "w1"
	a.HandleKey(KeyEvent{Ctrl: 'z'})
	assert.Equal(t, "w1", a.ZoomedPane)
	a.HandleKey(KeyEvent{Ctrl: 'z'})
	assert.Equal(t, "", a.ZoomedPane)
}

func TestHandlePaletteKeyEscReturnsToNormal(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.Palette = NewPalette(testItems())
	a.Mode = ModePalette
	a.HandleKey(KeyEvent{Named: "esc"})
	assert.Equal(t, ModeNormal, a.Mode)
	assert.Equal(t, "", a.Palette.Query)
}

func TestHandlePaletteKeyNumberExecutesItem(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.Palette = NewPalette(testItems())
	a.Mode = ModePalette
	act := a.HandleKey(KeyEvent{Rune: '2'})
	assert.Equal(t, ActionLocal, act.Kind)
	item, ok := act.Payload.(PaletteItem)
	require.True(t, ok)
	assert.Equal(t, "architect-left", item.ID)
	assert.Equal(t, ModeNormal, a.Mode, "executing a palette item returns to Normal")
}

func TestHandleSidebarKeySpaceTogglesVisibility(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.Mode = ModeSidebarFocused
	a.Sidebar.Selected = Selection{PaneID: "w1"}
	act := a.HandleKey(KeyEvent{Rune: ' '})
	assert.Equal(t, ActionCommand, act.Kind)
	assert.Equal(t, wire.KindSetVisibility, act.Command)
	payload, ok := act.Payload.(wire.SetVisibilityMsg)
	require.True(t, ok)
	assert.Equal(t, "w1", payload.PaneID)
	assert.False(t, payload.Visible, "w1 starts visible, toggling flips it off")
}

func TestHandleSidebarKeySelectNoneProducesBatch(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.Mode = ModeSidebarFocused
	a.Sidebar.Selected = Selection{PaneID: "w1"}
	act := a.HandleKey(KeyEvent{Rune: 'n'})
	assert.Equal(t, ActionBatch, act.Kind)
	assert.NotEmpty(t, act.Items)
	for _, item := range act.Items {
		assert.Equal(t, wire.KindSetVisibility, item.Command)
		payload, ok := item.Payload.(wire.SetVisibilityMsg)
		require.True(t, ok)
		assert.False(t, payload.Visible)
	}
	// local pane state is updated immediately, not just the outgoing command
	assert.False(t, a.findPane("w1").Info.Visible)
	assert.False(t, a.findPane("w2").Info.Visible)
}

func TestHandleScrollKeyEscExitsScrollMode(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.FocusedPane = "w1"
	a.enterScroll()
	require.Equal(t, ModeScroll, a.Mode)
	a.HandleKey(KeyEvent{Named: "esc"})
	assert.Equal(t, ModeNormal, a.Mode)
	assert.Nil(t, a.findPane("w1").ScrollBuffer)
}

func TestHandleKeyHelpModeClosesOnAnyKey(t *testing.T) {
	a := NewApp()
	a.ApplyState(baseState())
	a.Mode = ModeHelp
	a.HandleKey(KeyEvent{Rune: 'z'})
	assert.Equal(t, ModeNormal, a.Mode)
}

func TestReorderSelectedSendsReorderCommand(t *testing.T) {
	a := NewApp()
	a.ApplyState(wire.StateMsg{
		Panes: []wire.PaneInfo{
			{ID: "arch", Type: "architect", Visible: true},
			{ID: "w1", Type: "worker", Visible: true},
			{ID: "w2", Type: "worker", Visible: true},
		},
	})
	a.Mode = ModeSidebarFocused
	a.Sidebar.Selected = Selection{PaneID: "w1"}
	act := a.HandleKey(KeyEvent{Rune: 'J'})
	assert.Equal(t, ActionCommand, act.Kind)
	assert.Equal(t, wire.KindReorderPanes, act.Command)
	payload, ok := act.Payload.(wire.ReorderPanesMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"w2", "w1"}, payload.PaneIDs)
}
