package tui

import (
	"hive/internal/wire"
)

// App is the top-level client-side state machine: it owns the pane
// mirrors, the sidebar, the current mode, and the layout/zoom/page
// cursor, and turns KeyEvents into Actions per spec §4.7. It does not
// itself own the socket connection — cmd/hive wires a Client's Hooks to
// App's Apply* methods and sends whatever Actions.Command/Bytes come back.
type App struct {
	Panes   []*ClientPane // order mirrors wire.StateMsg.Panes
	Sidebar *Sidebar

	ProjectName   string
	Backend       string
	LayoutMode    string
	ArchitectLeft bool
	TaskCounts    map[string]wire.TaskCounts
	Constraints   Constraints

	Mode        Mode
	FocusedPane string
	ZoomedPane  string
	SmartMode   bool // when true, the worker grid shows only panes whose lane has backlog
	WorkerPage  int

	Palette *Palette
}

// NewApp constructs an empty App ready to receive its first State.
func NewApp() *App {
	return &App{
		Sidebar:     NewSidebar(nil),
		TaskCounts:  map[string]wire.TaskCounts{},
		Constraints: Constraints{MinWidth: DefaultMinPaneWidth, MinHeight: DefaultMinPaneHeight},
		Mode:        ModeNormal,
	}
}

func (a *App) findPane(id string) *ClientPane {
	for _, p := range a.Panes {
		if p.Info.ID == id {
			return p
		}
	}
	return nil
}

// ApplyState reconciles the local pane mirror list with a freshly-received
// wire.StateMsg: existing panes keep their Buffer/RawHistory, new ids get
// fresh ClientPanes, and panes no longer listed are dropped (the server
// never actually drops panes per spec §3, but a defensive client tolerates
// it rather than assuming the invariant).
func (a *App) ApplyState(msg wire.StateMsg) {
	existing := make(map[string]*ClientPane, len(a.Panes))
	for _, p := range a.Panes {
		existing[p.Info.ID] = p
	}

	panes := make([]*ClientPane, 0, len(msg.Panes))
	for _, info := range msg.Panes {
		if p, ok := existing[info.ID]; ok {
			p.Info = info
			panes = append(panes, p)
		} else {
			panes = append(panes, NewClientPane(info))
		}
	}
	a.Panes = panes

	a.ProjectName = msg.ProjectName
	a.Backend = msg.Backend
	a.LayoutMode = msg.LayoutMode
	a.ArchitectLeft = msg.ArchitectLeft
	a.Constraints = Constraints{MinWidth: msg.MinPaneWidth, MinHeight: msg.MinPaneHeight}

	a.TaskCounts = msg.TaskCounts
	if a.TaskCounts == nil {
		a.TaskCounts = map[string]wire.TaskCounts{}
	}

	a.Sidebar.Rebuild(a.Panes)

	if a.FocusedPane == "" {
		a.focusFirstAvailable()
	}
}

func (a *App) focusFirstAvailable() {
	for _, p := range a.Panes {
		if p.Info.Visible {
			a.FocusedPane = p.Info.ID
			return
		}
	}
}

// ApplyOutput routes a received Output frame (fresh or replayed) to its
// pane's buffer and raw history.
func (a *App) ApplyOutput(msg wire.OutputMsg) {
	if p := a.findPane(msg.PaneID); p != nil {
		p.PushOutput(msg.Data)
	}
}

// ApplyPaneExited marks a pane exited without removing it (spec §4.5: "do
// not remove the pane; keep its buffer viewable").
func (a *App) ApplyPaneExited(msg wire.PaneExitedMsg) {
	if p := a.findPane(msg.PaneID); p != nil {
		p.Exited = true
	}
}

// VisibleWorkerIDs returns non-architect, visible pane ids in sidebar
// order (groups first in first-appearance order, then standalone), the
// order the layout engine paginates (spec §4.7 "Algorithm").
func (a *App) VisibleWorkerIDs() []string {
	var ids []string
	for _, row := range a.Sidebar.Rows {
		if row.Kind != RowPane || row.Pane.IsArchitect() {
			continue
		}
		if !row.Pane.Info.Visible {
			continue
		}
		if a.SmartMode && !a.hasWork(row.Pane.Info.Lane) {
			continue
		}
		ids = append(ids, row.PaneID)
	}
	return ids
}

func (a *App) hasWork(lane string) bool {
	return a.TaskCounts[lane].Backlog > 0
}

// ArchitectID returns the architect's pane id and whether one is present
// and visible.
func (a *App) ArchitectID() (string, bool) {
	for _, p := range a.Panes {
		if p.IsArchitect() {
			return p.Info.ID, p.Info.Visible
		}
	}
	return "", false
}

// ComputeLayout runs the layout engine (internal/tui/layout.go) over the
// App's current pane set for the given terminal area.
func (a *App) ComputeLayout(area Rect) Result {
	archID, archVisible := a.ArchitectID()
	return Compute(area, archID, archVisible, a.VisibleWorkerIDs(), a.ArchitectLeft, a.WorkerPage, a.Constraints, a.ZoomedPane)
}

// HandleKey dispatches one key event per the current Mode, returning the
// Action the caller (cmd/hive's attach loop) should perform.
func (a *App) HandleKey(k KeyEvent) Action {
	switch a.Mode {
	case ModeHelp:
		a.Mode = ModeNormal
		return localAction()
	case ModePalette:
		return a.handlePaletteKey(k)
	case ModeSidebarFocused:
		return a.handleSidebarKey(k)
	case ModeScroll:
		return a.handleScrollKey(k)
	case ModeTaskQueue:
		return a.handleTaskQueueKey(k)
	default:
		return a.handleNormalKey(k)
	}
}

func (a *App) handleNormalKey(k KeyEvent) Action {
	if act, handled := a.handleGlobalChord(k); handled {
		return act
	}
	if k.IsModified() {
		return localAction()
	}
	if a.FocusedPane == "" {
		return localAction()
	}
	return inputAction(k.ToBytes())
}

// handleGlobalChord recognizes the Ctrl+letter chords that Normal mode
// treats as commands (mode switches, grid navigation, zoom), per spec §4.7
// "modified keys are commands". The other modes do not consult it.
func (a *App) handleGlobalChord(k KeyEvent) (Action, bool) {
	if !k.IsModified() {
		return Action{}, false
	}
	switch k.Ctrl {
	case 'b':
		a.Mode = ModeSidebarFocused
		return localAction(), true
	case 'h', 'j', 'k', 'l':
		a.moveFocus(gridDirFor(k.Ctrl))
		return localAction(), true
	case 'z':
		a.toggleZoom()
		return localAction(), true
	case 's':
		a.enterScroll()
		return localAction(), true
	case 'p':
		a.Mode = ModePalette
		if a.Palette != nil {
			a.Palette.Reset()
		}
		return localAction(), true
	case 't':
		a.Mode = ModeTaskQueue
		return localAction(), true
	case 'q':
		return commandAction(wire.KindDetach, wire.DetachMsg{}), true
	}
	return Action{}, false
}

func gridDirFor(ctrl rune) Direction {
	switch ctrl {
	case 'h':
		return DirLeft
	case 'l':
		return DirRight
	case 'k':
		return DirUp
	default:
		return DirDown
	}
}

func (a *App) toggleZoom() {
	if a.ZoomedPane != "" {
		a.ZoomedPane = ""
		return
	}
	if a.FocusedPane != "" {
		a.ZoomedPane = a.FocusedPane
	}
}

func (a *App) enterScroll() {
	p := a.findPane(a.FocusedPane)
	if p == nil {
		return
	}
	p.EnterScroll()
	a.Mode = ModeScroll
}

// moveFocus runs the grid-navigation algorithm (spec §4.7 "Grid
// navigation") over the current page's placements.
func (a *App) moveFocus(dir Direction) {
	area := Rect{W: 1000, H: 1000} // caller re-derives real geometry on next layout pass
	res := a.ComputeLayout(area)
	cells := InferGrid(res.Workers)

	mv := Move(cells, a.FocusedPane, dir, res.CurrentPage, res.PageCount)
	if mv.ChangedPage {
		a.WorkerPage = mv.NewPage
		next := a.ComputeLayout(area)
		nextCells := InferGrid(next.Workers)
		if mv.WrapToFirst {
			a.FocusedPane = FirstOnPage(nextCells)
		} else {
			a.FocusedPane = LastOnPage(nextCells)
		}
		return
	}
	if mv.PaneID != "" {
		a.FocusedPane = mv.PaneID
	}
}

func (a *App) handleSidebarKey(k KeyEvent) Action {
	if k.Named == "esc" {
		a.Mode = ModeNormal
		return localAction()
	}
	switch {
	case k.Named == "down" || k.Rune == 'j':
		a.Sidebar.MoveDown()
		return localAction()
	case k.Named == "up" || k.Rune == 'k':
		a.Sidebar.MoveUp()
		return localAction()
	case k.Rune == ' ':
		return a.toggleSelectedVisibility()
	case k.Rune == 'a':
		return a.setScopedVisibility(true)
	case k.Rune == 'n':
		return a.setScopedVisibility(false)
	case k.Named == "enter":
		a.Sidebar.ExpandCollapse()
		return localAction()
	case k.Rune == 'K':
		return a.reorderSelected(-1)
	case k.Rune == 'J':
		return a.reorderSelected(1)
	}
	return localAction()
}

func (a *App) toggleSelectedVisibility() Action {
	if a.Sidebar.Selected.IsGroup || a.Sidebar.Selected.PaneID == "" {
		return localAction()
	}
	p := a.findPane(a.Sidebar.Selected.PaneID)
	if p == nil {
		return localAction()
	}
	return commandAction(wire.KindSetVisibility, wire.SetVisibilityMsg{PaneID: p.Info.ID, Visible: !p.Info.Visible})
}

func (a *App) setScopedVisibility(visible bool) Action {
	ids := a.Sidebar.SelectionScope()
	if len(ids) == 0 {
		return localAction()
	}
	// SetVisibility is per-pane on the wire; a scoped select-all/none is a
	// client-side convenience that issues one command per pane.
	items := make([]Action, 0, len(ids))
	for _, id := range ids {
		if p := a.findPane(id); p != nil {
			p.Info.Visible = visible
		}
		items = append(items, commandAction(wire.KindSetVisibility, wire.SetVisibilityMsg{PaneID: id, Visible: visible}))
	}
	return Action{Kind: ActionBatch, Items: items}
}

func (a *App) reorderSelected(dir int) Action {
	if a.Sidebar.Selected.IsGroup {
		var ids []string
		if dir < 0 {
			ids = ReorderGroupUp(a.Panes, a.firstInGroup(a.Sidebar.Selected.Group))
		} else {
			ids = ReorderGroupDown(a.Panes, a.firstInGroup(a.Sidebar.Selected.Group))
		}
		if ids == nil {
			return localAction()
		}
		return commandAction(wire.KindReorderPanes, wire.ReorderPanesMsg{PaneIDs: ids})
	}
	if a.Sidebar.Selected.PaneID == "" {
		return localAction()
	}
	var ids []string
	if dir < 0 {
		ids = ReorderPaneUp(a.Panes, a.Sidebar.Selected.PaneID)
	} else {
		ids = ReorderPaneDown(a.Panes, a.Sidebar.Selected.PaneID)
	}
	if ids == nil {
		return localAction()
	}
	return commandAction(wire.KindReorderPanes, wire.ReorderPanesMsg{PaneIDs: ids})
}

func (a *App) firstInGroup(group string) string {
	for _, p := range a.Panes {
		if p.Info.Group == group {
			return p.Info.ID
		}
	}
	return ""
}

func (a *App) handlePaletteKey(k KeyEvent) Action {
	if a.Palette == nil {
		a.Mode = ModeNormal
		return localAction()
	}
	switch {
	case k.Named == "esc":
		a.Mode = ModeNormal
		a.Palette.Reset()
		return localAction()
	case k.Named == "backspace":
		a.Palette.Backspace()
		return localAction()
	case k.Rune >= '1' && k.Rune <= '9':
		item, ok := a.Palette.ExecuteN(int(k.Rune - '0'))
		a.Mode = ModeNormal
		a.Palette.Reset()
		if !ok {
			return localAction()
		}
		return Action{Kind: ActionLocal, Payload: item}
	case k.Rune != 0:
		a.Palette.Type(k.Rune)
		return localAction()
	}
	return localAction()
}

func (a *App) handleScrollKey(k KeyEvent) Action {
	p := a.findPane(a.FocusedPane)
	if p == nil || p.ScrollBuffer == nil {
		a.Mode = ModeNormal
		return localAction()
	}
	switch {
	case k.Named == "esc":
		p.ExitScroll()
		a.Mode = ModeNormal
	case k.Named == "up" || k.Rune == 'k':
		p.ScrollBuffer.ScrollUp(1)
	case k.Named == "down" || k.Rune == 'j':
		p.ScrollBuffer.ScrollDown(1)
	case k.Rune == 'g':
		p.ScrollBuffer.ScrollToTop()
	case k.Rune == 'G':
		p.ScrollBuffer.ScrollToBottom()
	}
	return localAction()
}

func (a *App) handleTaskQueueKey(k KeyEvent) Action {
	if k.Named == "esc" {
		a.Mode = ModeNormal
	}
	return localAction()
}
