package hiveserver

// ReorderByIDs reorders panes to match ids: for any pane vector P and any
// permutation request Q, the result equals Q when Q is a permutation of
// existing ids; extraneous ids in Q are ignored; ids missing from Q retain
// their relative order, appended at the end. This is the server-side
// mechanism behind wire.KindReorderPanes and UIState.Apply — it does not
// know about sidebar groups; the client computes a group-scoped id list
// before sending ReorderPanes (spec §4.7 Sidebar operations).
//
// The architect, when present, is always panes[0] and is pinned there
// regardless of whether ids mentions it: spec §3's "the first pane is
// always the Architect when one exists" and §4.7's "the architect is
// never reordered" both hold even though the client deliberately leaves
// the architect out of the id lists it builds for reorder/select-all.
func ReorderByIDs(panes []*Pane, ids []string) []*Pane {
	if len(panes) == 0 {
		return panes
	}

	byID := make(map[string]*Pane, len(panes))
	for _, p := range panes {
		byID[p.ID] = p
	}

	out := make([]*Pane, 0, len(panes))
	placed := make(map[string]bool, len(panes))

	if panes[0].Type == PaneArchitect {
		out = append(out, panes[0])
		placed[panes[0].ID] = true
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok || placed[id] {
			continue // extraneous id, ignored
		}
		out = append(out, p)
		placed[id] = true
	}
	for _, p := range panes {
		if !placed[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
