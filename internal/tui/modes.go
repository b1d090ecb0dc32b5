package tui

import "hive/internal/wire"

// Mode is one of spec §4.7's six input modes.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSidebarFocused
	ModePalette
	ModeHelp
	ModeTaskQueue
	ModeScroll
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeSidebarFocused:
		return "Sidebar"
	case ModePalette:
		return "Palette"
	case ModeHelp:
		return "Help"
	case ModeTaskQueue:
		return "Tasks"
	case ModeScroll:
		return "Scroll"
	default:
		return "?"
	}
}

// ActionKind distinguishes the outcomes a key event can produce: spec
// §4.7's local action, server command and Input bytes, plus None and Batch.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionLocal
	ActionCommand
	ActionInput
	ActionBatch
)

// Action is what App.HandleKey returns: either nothing, a local UI
// mutation already applied, a server command envelope to send, raw bytes
// to forward as wire.InputMsg to the focused pane, or (ActionBatch) a
// sequence of Actions to perform in order — e.g. a scoped select-all/none
// sidebar operation that issues one SetVisibility per pane.
type Action struct {
	Kind    ActionKind
	Command wire.Kind
	Payload any
	Bytes   []byte
	Items   []Action
}

func inputAction(b []byte) Action {
	return Action{Kind: ActionInput, Bytes: b}
}

func commandAction(kind wire.Kind, payload any) Action {
	return Action{Kind: ActionCommand, Command: kind, Payload: payload}
}

func localAction() Action { return Action{Kind: ActionLocal} }
