package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidebarArchitectAlwaysFirst(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("w1", "worker", ""),
		pane("arch", "architect", ""),
	})
	require.NotEmpty(t, sb.Rows)
	assert.Equal(t, "arch", sb.Rows[0].PaneID)
	assert.Equal(t, 0, sb.Rows[0].Indent)
}

func TestSidebarSingletonGroupCollapsesToStandalone(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("w1", "worker", "solo-group"),
	})
	for _, row := range sb.Rows {
		assert.NotEqual(t, RowGroupHeader, row.Kind, "a group with one member never renders a header")
	}
}

func TestSidebarMultiMemberGroupRendersHeaderAndIndentsChildren(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("g1a", "worker", "g1"),
		pane("g1b", "worker", "g1"),
	})
	var header, child1, child2 *Row
	for i := range sb.Rows {
		switch {
		case sb.Rows[i].Kind == RowGroupHeader:
			header = &sb.Rows[i]
		case sb.Rows[i].PaneID == "g1a":
			child1 = &sb.Rows[i]
		case sb.Rows[i].PaneID == "g1b":
			child2 = &sb.Rows[i]
		}
	}
	require.NotNil(t, header)
	require.NotNil(t, child1)
	require.NotNil(t, child2)
	assert.Equal(t, "g1", header.Group)
	assert.Equal(t, 2, child1.Indent)
	assert.Equal(t, 2, child2.Indent)
}

func TestSidebarCollapsedGroupHidesChildren(t *testing.T) {
	panes := []*ClientPane{
		pane("arch", "architect", ""),
		pane("g1a", "worker", "g1"),
		pane("g1b", "worker", "g1"),
	}
	sb := NewSidebar(panes)
	sb.Selected = Selection{IsGroup: true, Group: "g1"}
	sb.ExpandCollapse()
	sb.Rebuild(panes)

	for _, row := range sb.Rows {
		assert.NotEqual(t, "g1a", row.PaneID)
		assert.NotEqual(t, "g1b", row.PaneID)
	}
}

func TestSidebarSelectionClampsToValidRow(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("w1", "worker", ""),
	})
	sb.Selected = Selection{PaneID: "does-not-exist"}
	sb.clampSelection()
	assert.Equal(t, "arch", sb.Selected.PaneID)
}

func TestSidebarMoveWraps(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("w1", "worker", ""),
	})
	sb.Selected = Selection{PaneID: "arch"}
	sb.MoveUp() // wraps to last row
	assert.Equal(t, "w1", sb.Selected.PaneID)
	sb.MoveDown() // wraps back to first
	assert.Equal(t, "arch", sb.Selected.PaneID)
}

func TestSidebarSelectionScopeGroup(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("g1a", "worker", "g1"),
		pane("g1b", "worker", "g1"),
		pane("solo", "worker", ""),
	})
	sb.Selected = Selection{IsGroup: true, Group: "g1"}
	assert.ElementsMatch(t, []string{"g1a", "g1b"}, sb.SelectionScope())
}

func TestSidebarSelectionScopeUngroupedExcludesArchitect(t *testing.T) {
	sb := NewSidebar([]*ClientPane{
		pane("arch", "architect", ""),
		pane("solo", "worker", ""),
	})
	sb.Selected = Selection{PaneID: "solo"}
	scope := sb.SelectionScope()
	assert.NotContains(t, scope, "arch")
	assert.Contains(t, scope, "solo")
}
