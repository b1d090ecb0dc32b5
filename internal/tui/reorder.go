package tui

// ReorderPaneUp/Down and ReorderGroupUp/Down implement spec §4.7's
// group-scoped reorder semantics (testable property 5, scenario 4):
// reordering a pane swaps with the previous/next pane only within the same
// group/section; reordering a group swaps with the adjacent group,
// preserving intra-group order; the architect is never reordered.
//
// Each returns the non-architect pane ids in their new order, the list the
// caller sends as wire.ReorderPanesMsg.PaneIDs, or nil if the requested
// move is a no-op (already at an edge). The architect is deliberately left
// out of this list — hiveserver.ReorderByIDs always pins the architect
// pane first regardless of what PaneIDs contains, so the client never
// needs to carry it through these permutations.

// paneOrder extracts the ids of every non-architect pane in their current
// panes-vector order (ignoring sidebar Indent/grouping, which is purely a
// rendering concern).
func paneOrder(panes []*ClientPane) []string {
	var ids []string
	for _, p := range panes {
		if !p.IsArchitect() {
			ids = append(ids, p.Info.ID)
		}
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func groupOf(panes []*ClientPane, id string) string {
	for _, p := range panes {
		if p.Info.ID == id {
			return p.Info.Group
		}
	}
	return ""
}

// ReorderPaneUp swaps paneID with the previous pane in the same
// group/section (an ungrouped pane's section is "every ungrouped pane").
// Returns nil if paneID is already first in its section.
func ReorderPaneUp(panes []*ClientPane, paneID string) []string {
	return reorderPane(panes, paneID, -1)
}

// ReorderPaneDown swaps paneID with the next pane in the same
// group/section. Returns nil if paneID is already last in its section.
func ReorderPaneDown(panes []*ClientPane, paneID string) []string {
	return reorderPane(panes, paneID, 1)
}

func reorderPane(panes []*ClientPane, paneID string, dir int) []string {
	ids := paneOrder(panes)
	group := groupOf(panes, paneID)

	sectionIdx := -1
	var sectionIdxs []int
	for i, id := range ids {
		if groupOf(panes, id) == group {
			if id == paneID {
				sectionIdx = len(sectionIdxs)
			}
			sectionIdxs = append(sectionIdxs, i)
		}
	}
	if sectionIdx < 0 {
		return nil
	}
	target := sectionIdx + dir
	if target < 0 || target >= len(sectionIdxs) {
		return nil
	}
	a, b := sectionIdxs[sectionIdx], sectionIdxs[target]
	ids[a], ids[b] = ids[b], ids[a]
	return ids
}

// groupSpans partitions ids into contiguous-by-appearance group spans,
// each either a single ungrouped pane's own 1-element span or a full
// group's member span — the unit ReorderGroupUp/Down swap.
func groupSpans(panes []*ClientPane, ids []string) [][]int {
	var spans [][]int
	seen := map[string]bool{}
	for i := 0; i < len(ids); i++ {
		g := groupOf(panes, ids[i])
		if g == "" {
			spans = append(spans, []int{i})
			continue
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		var span []int
		for j := i; j < len(ids); j++ {
			if groupOf(panes, ids[j]) == g {
				span = append(span, j)
			}
		}
		spans = append(spans, span)
	}
	return spans
}

// ReorderGroupUp swaps the group containing paneID with the previous group
// span, preserving each group's intra-group order. Returns nil if the
// group is already first, or paneID isn't grouped.
func ReorderGroupUp(panes []*ClientPane, paneID string) []string {
	return reorderGroup(panes, paneID, -1)
}

// ReorderGroupDown swaps the group containing paneID with the next group
// span.
func ReorderGroupDown(panes []*ClientPane, paneID string) []string {
	return reorderGroup(panes, paneID, 1)
}

func reorderGroup(panes []*ClientPane, paneID string, dir int) []string {
	group := groupOf(panes, paneID)
	if group == "" {
		return nil
	}
	ids := paneOrder(panes)
	spans := groupSpans(panes, ids)

	spanIdx := -1
	for i, span := range spans {
		for _, idx := range span {
			if ids[idx] == paneID {
				spanIdx = i
			}
		}
	}
	target := spanIdx + dir
	if spanIdx < 0 || target < 0 || target >= len(spans) {
		return nil
	}

	out := make([]string, 0, len(ids))
	order := make([]int, len(spans))
	for i := range spans {
		order[i] = i
	}
	order[spanIdx], order[target] = order[target], order[spanIdx]
	for _, si := range order {
		for _, idx := range spans[si] {
			out = append(out, ids[idx])
		}
	}
	return out
}
