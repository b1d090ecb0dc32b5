package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func grid2x2() []Placement {
	return []Placement{
		{PaneID: "a", Rect: Rect{X: 0, Y: 0, W: 10, H: 10}},
		{PaneID: "b", Rect: Rect{X: 10, Y: 0, W: 10, H: 10}},
		{PaneID: "c", Rect: Rect{X: 0, Y: 10, W: 10, H: 10}},
		{PaneID: "d", Rect: Rect{X: 10, Y: 10, W: 10, H: 10}},
	}
}

func TestInferGridAssignsRowCol(t *testing.T) {
	cells := InferGrid(grid2x2())
	byID := make(map[string]GridCell, len(cells))
	for _, c := range cells {
		byID[c.PaneID] = c
	}
	assert.Equal(t, GridCell{PaneID: "a", Row: 0, Col: 0}, byID["a"])
	assert.Equal(t, GridCell{PaneID: "b", Row: 0, Col: 1}, byID["b"])
	assert.Equal(t, GridCell{PaneID: "c", Row: 1, Col: 0}, byID["c"])
	assert.Equal(t, GridCell{PaneID: "d", Row: 1, Col: 1}, byID["d"])
}

func TestMoveWithinGrid(t *testing.T) {
	cells := InferGrid(grid2x2())
	res := Move(cells, "a", DirRight, 0, 1)
	assert.Equal(t, "b", res.PaneID)
	assert.False(t, res.ChangedPage)

	res = Move(cells, "a", DirDown, 0, 1)
	assert.Equal(t, "c", res.PaneID)

	res = Move(cells, "a", DirUp, 0, 1)
	assert.Equal(t, "a", res.PaneID, "no row above stays put")

	res = Move(cells, "a", DirLeft, 0, 1)
	assert.Equal(t, MoveResult{}, res, "single page, no wrap, off the left edge is a no-op")
}

func TestMoveWrapsToNextPageOnRightEdge(t *testing.T) {
	cells := InferGrid([]Placement{
		{PaneID: "a", Rect: Rect{X: 0, Y: 0, W: 10, H: 10}},
	})
	res := Move(cells, "a", DirRight, 0, 3)
	assert.True(t, res.ChangedPage)
	assert.Equal(t, 1, res.NewPage)
	assert.True(t, res.WrapToFirst)
}

func TestMoveWrapsToPrevPageOnLeftEdge(t *testing.T) {
	cells := InferGrid([]Placement{
		{PaneID: "a", Rect: Rect{X: 0, Y: 0, W: 10, H: 10}},
	})
	res := Move(cells, "a", DirLeft, 0, 3)
	assert.True(t, res.ChangedPage)
	assert.Equal(t, 2, res.NewPage)
	assert.False(t, res.WrapToFirst)
}

func TestFirstLastOnPage(t *testing.T) {
	cells := InferGrid(grid2x2())
	assert.Equal(t, "a", FirstOnPage(cells))
	assert.Equal(t, "d", LastOnPage(cells))
	assert.Equal(t, "", FirstOnPage(nil))
	assert.Equal(t, "", LastOnPage(nil))
}

func TestMoveUnknownPaneFallsBackToFirstCell(t *testing.T) {
	cells := InferGrid(grid2x2())
	res := Move(cells, "missing", DirDown, 0, 1)
	assert.Equal(t, "a", res.PaneID)
}
