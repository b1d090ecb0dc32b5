package wire

// -- Client -> Server payloads --------------------------------------------

// InputMsg writes bytes into a pane's stdin; no echoing, the child decides.
type InputMsg struct {
	PaneID string `json:"pane_id"`
	Bytes  []byte `json:"bytes"`
}

// PaneSize is one entry of a ResizeMsg: the new geometry for one pane.
type PaneSize struct {
	PaneID string `json:"pane_id"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}

// ResizeMsg resizes the PTY and terminal buffer for each listed pane.
type ResizeMsg struct {
	Panes []PaneSize `json:"panes"`
}

// NudgeMsg requests a nudge. An empty Worker means "automatic" (triggered
// by a broadcast/watcher-equivalent client request); a non-empty Worker
// means "manual", targeting that pane specifically.
type NudgeMsg struct {
	Worker string `json:"worker,omitempty"`
}

// SetVisibilityMsg toggles whether a pane renders in the client's layout.
type SetVisibilityMsg struct {
	PaneID  string `json:"pane_id"`
	Visible bool   `json:"visible"`
}

// ReorderPanesMsg reorders the pane vector to match the given id order.
type ReorderPanesMsg struct {
	PaneIDs []string `json:"pane_ids"`
}

// SetArchitectLeftMsg toggles whether the architect's edge strip renders
// on the left (true) or top (false, the default).
type SetArchitectLeftMsg struct {
	Left bool `json:"left"`
}

// LayoutMsg sets the client's tiling layout mode.
type LayoutMsg struct {
	Mode string `json:"mode"`
}

// DetachMsg and ShutdownMsg carry no fields; they exist so every Kind has
// a matching (possibly empty) payload type for symmetry with Encode/Decode.
type DetachMsg struct{}
type ShutdownMsg struct{}

// -- Server -> Client payloads ---------------------------------------------

// PaneInfo is one pane's sidebar/layout-relevant metadata, per spec §4.6.
type PaneInfo struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // "architect" | "worker"
	Lane    string `json:"lane,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Group   string `json:"group,omitempty"`
	Visible bool   `json:"visible"`
}

// WindowInfo names a saved window layout (name, layout mode, member panes).
type WindowInfo struct {
	Name        string `json:"name"`
	Layout      string `json:"layout"`
	PaneIndices []int  `json:"pane_indices"`
}

// TaskCounts mirrors tasks.Counts over the wire.
type TaskCounts struct {
	Backlog    int `json:"backlog"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// StateMsg is the full authoritative server state, broadcast on every
// mutation and on client attach (spec §4.5 "Attach semantics").
type StateMsg struct {
	ProjectName    string                `json:"project_name"`
	Backend        string                `json:"backend"`
	LayoutMode     string                `json:"layout_mode"`
	Panes          []PaneInfo            `json:"panes"`
	Windows        []WindowInfo          `json:"windows"`
	TaskCounts     map[string]TaskCounts `json:"task_counts"`
	ArchitectLeft  bool                  `json:"architect_left"`
	MinPaneWidth   int                   `json:"min_pane_width"`
	MinPaneHeight  int                   `json:"min_pane_height"`
}

// OutputMsg carries a pane's raw output bytes, either freshly produced or
// (on attach) the pane's replayed raw history.
type OutputMsg struct {
	PaneID string `json:"pane_id"`
	Data   []byte `json:"data"`
}

// PaneExitedMsg announces that a pane's child process exited. The pane
// itself is not removed: its buffer remains viewable.
type PaneExitedMsg struct {
	PaneID string `json:"pane_id"`
}

// ErrorMsg carries a human-readable notice, either a standalone protocol
// notice or (via Output with an "[error] " prefix per spec §4.5) folded
// into a pane's stream; this type is for the former.
type ErrorMsg struct {
	Message string `json:"message"`
}
