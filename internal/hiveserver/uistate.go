package hiveserver

import (
	"encoding/json"
	"os"
)

// UIState is the persisted per-workspace record of pane visual order,
// per-pane visibility, and layout toggles (spec §3). It is owned by the
// Server and written through to disk on every mutation.
type UIState struct {
	PaneOrder     []string        `json:"pane_order"`
	Visibility    map[string]bool `json:"visibility"`
	ArchitectLeft bool            `json:"architect_left"`
	LayoutMode    string          `json:"layout_mode,omitempty"`
}

// LoadUIState reads ui-state.json at path. A missing file is not an error:
// it returns an empty UIState so a first run has nothing to apply.
func LoadUIState(path string) (*UIState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UIState{Visibility: map[string]bool{}}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Visibility == nil {
		st.Visibility = map[string]bool{}
	}
	return &st, nil
}

// Save writes the UI state to path.
func (st *UIState) Save(path string) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Apply applies a persisted UI state to the pane vector: reordering panes
// to match PaneOrder (unknown ids ignored, missing ids keep their current
// relative order appended at the end — the same rule as ReorderPanes) and
// restoring each pane's visibility.
func (st *UIState) Apply(panes []*Pane) []*Pane {
	reordered := ReorderByIDs(panes, st.PaneOrder)
	for _, p := range reordered {
		if v, ok := st.Visibility[p.ID]; ok {
			p.Visible = v
		}
	}
	return reordered
}

// Capture snapshots the current pane order/visibility into a UIState ready
// to Save.
func Capture(panes []*Pane, architectLeft bool, layoutMode string) *UIState {
	st := &UIState{
		Visibility:    map[string]bool{},
		ArchitectLeft: architectLeft,
		LayoutMode:    layoutMode,
	}
	for _, p := range panes {
		st.PaneOrder = append(st.PaneOrder, p.ID)
		st.Visibility[p.ID] = p.Visible
	}
	return st
}
