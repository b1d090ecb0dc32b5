package tui

// Sidebar implements the derived view over panes described by spec §3's
// Sidebar Model: the architect always first at indent 0, workers
// partitioned into groups (by project), a group with >=2 members rendering
// as a collapsible header followed by its children at indent 2, singleton
// groups collapsing into the standalone list. Grounded on
// original_source/src/app/sidebar.rs's row derivation and
// reorder_up/reorder_down group-scoped swap semantics.

// RowKind distinguishes a group header row from a pane row.
type RowKind int

const (
	RowPane RowKind = iota
	RowGroupHeader
)

// Row is one entry in the sidebar's derived row list.
type Row struct {
	Kind    RowKind
	PaneID  string // set for RowPane
	Group   string // set for both: "" for ungrouped panes, else the group name
	Indent  int    // 0 for architect/group headers/ungrouped, 2 for grouped children
	Pane    *ClientPane
}

// Selection is the sidebar's tagged selection value (spec §3): either a
// collapsible group header or a specific pane.
type Selection struct {
	IsGroup bool
	Group   string
	PaneID  string
}

// Sidebar holds the derived rows plus UI-only state (collapsed groups,
// current selection) that doesn't belong on the wire.
type Sidebar struct {
	Rows      []Row
	Collapsed map[string]bool
	Selected  Selection
}

// NewSidebar builds a Sidebar from the ordered pane vector. Groups appear
// in first-appearance order; a group with fewer than two members collapses
// into the standalone (ungrouped) list rather than rendering a header,
// matching spec §3 exactly.
func NewSidebar(panes []*ClientPane) *Sidebar {
	sb := &Sidebar{Collapsed: map[string]bool{}}
	sb.Rebuild(panes)
	return sb
}

// Rebuild recomputes Rows from the current pane vector. It is a pure
// derived view: no back-reference from group to panes is ever stored,
// avoiding the cyclic pane<->group relationship spec §9 warns against.
func (sb *Sidebar) Rebuild(panes []*ClientPane) {
	counts := map[string]int{}
	var groupOrder []string
	seenGroup := map[string]bool{}
	for _, p := range panes {
		if p.IsArchitect() || p.Info.Group == "" {
			continue
		}
		counts[p.Info.Group]++
		if !seenGroup[p.Info.Group] {
			seenGroup[p.Info.Group] = true
			groupOrder = append(groupOrder, p.Info.Group)
		}
	}

	var rows []Row
	for _, p := range panes {
		if p.IsArchitect() {
			rows = append(rows, Row{Kind: RowPane, PaneID: p.Info.ID, Pane: p, Indent: 0})
		}
	}

	placed := map[string]bool{}
	for _, g := range groupOrder {
		if counts[g] < 2 {
			continue // singleton groups collapse into the standalone list
		}
		rows = append(rows, Row{Kind: RowGroupHeader, Group: g, Indent: 0})
		if sb.Collapsed[g] {
			continue
		}
		for _, p := range panes {
			if p.IsArchitect() || p.Info.Group != g {
				continue
			}
			rows = append(rows, Row{Kind: RowPane, PaneID: p.Info.ID, Pane: p, Group: g, Indent: 2})
			placed[p.Info.ID] = true
		}
	}

	for _, p := range panes {
		if p.IsArchitect() || placed[p.Info.ID] {
			continue
		}
		if p.Info.Group != "" && counts[p.Info.Group] >= 2 {
			continue
		}
		rows = append(rows, Row{Kind: RowPane, PaneID: p.Info.ID, Pane: p, Indent: 0})
	}

	sb.Rows = rows
	sb.clampSelection()
}

func (sb *Sidebar) selectedIndex() int {
	for i, r := range sb.Rows {
		switch {
		case sb.Selected.IsGroup && r.Kind == RowGroupHeader && r.Group == sb.Selected.Group:
			return i
		case !sb.Selected.IsGroup && r.Kind == RowPane && r.PaneID == sb.Selected.PaneID:
			return i
		}
	}
	return -1
}

// clampSelection resolves the current selection to a valid row, defaulting
// to the first row when nothing prior matches (testable property 4:
// selection always resolves to a valid row).
func (sb *Sidebar) clampSelection() {
	if len(sb.Rows) == 0 {
		sb.Selected = Selection{}
		return
	}
	if sb.selectedIndex() >= 0 {
		return
	}
	sb.selectRow(sb.Rows[0])
}

func (sb *Sidebar) selectRow(r Row) {
	if r.Kind == RowGroupHeader {
		sb.Selected = Selection{IsGroup: true, Group: r.Group}
	} else {
		sb.Selected = Selection{PaneID: r.PaneID}
	}
}

// MoveUp/MoveDown move the selection one row, wrapping at the ends.
// Testable property 4: row_selections(rows(panes)) is the same multiset the
// derived Rows produce; moving through it always lands on a real row.
func (sb *Sidebar) MoveUp() {
	sb.move(-1)
}

func (sb *Sidebar) MoveDown() {
	sb.move(1)
}

func (sb *Sidebar) move(delta int) {
	if len(sb.Rows) == 0 {
		return
	}
	idx := sb.selectedIndex()
	if idx < 0 {
		idx = 0
	}
	idx = (idx + delta + len(sb.Rows)) % len(sb.Rows)
	sb.selectRow(sb.Rows[idx])
}

// ExpandCollapse toggles a group header's collapsed state. A no-op if the
// current selection isn't a group.
func (sb *Sidebar) ExpandCollapse() {
	if !sb.Selected.IsGroup {
		return
	}
	sb.Collapsed[sb.Selected.Group] = !sb.Collapsed[sb.Selected.Group]
}

// scopedPaneIDs returns the pane ids in the same "section" as paneID: its
// group's members if it's grouped, or the full ungrouped/standalone list
// otherwise — the scope reordering and select-all/none operate within.
func scopedPaneIDs(rows []Row, paneID string) []string {
	var group string
	grouped := false
	for _, r := range rows {
		if r.Kind == RowPane && r.PaneID == paneID {
			group = r.Group
			grouped = group != ""
			break
		}
	}
	var ids []string
	for _, r := range rows {
		if r.Kind != RowPane || r.Pane.IsArchitect() {
			continue
		}
		if grouped && r.Group == group {
			ids = append(ids, r.PaneID)
		} else if !grouped && r.Group == "" {
			ids = append(ids, r.PaneID)
		}
	}
	return ids
}

// SelectionScope reports the pane ids that Select all/none (spec §4.7
// Sidebar operations) apply to: the selected group's members if a group is
// selected, the selected pane's section (see scopedPaneIDs) if a pane is
// selected, or every non-architect pane when nothing is selected.
func (sb *Sidebar) SelectionScope() []string {
	if sb.Selected.IsGroup {
		var ids []string
		for _, r := range sb.Rows {
			if r.Kind == RowPane && r.Group == sb.Selected.Group {
				ids = append(ids, r.PaneID)
			}
		}
		return ids
	}
	if sb.Selected.PaneID != "" {
		return scopedPaneIDs(sb.Rows, sb.Selected.PaneID)
	}
	var ids []string
	for _, r := range sb.Rows {
		if r.Kind == RowPane && !r.Pane.IsArchitect() {
			ids = append(ids, r.PaneID)
		}
	}
	return ids
}
