package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePaginatesByMinSize(t *testing.T) {
	c := Constraints{MinWidth: 50, MinHeight: 20}
	area := Rect{W: 220, H: 20} // floor(220/50)=4 cols, floor(20/20)=1 row -> 4 per page
	workers := []string{"w1", "w2", "w3", "w4", "w5"}

	res := Compute(area, "", false, workers, false, 0, c, "")
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, 0, res.CurrentPage)
	assert.Len(t, res.Workers, 4)

	res2 := Compute(area, "", false, workers, false, 1, c, "")
	require.Len(t, res2.Workers, 1)
	assert.Equal(t, "w5", res2.Workers[0].PaneID)
}

func TestComputeNeverShrinksBelowMinSize(t *testing.T) {
	c := Constraints{MinWidth: 100, MinHeight: 16}
	area := Rect{W: 120, H: 16}
	res := Compute(area, "", false, []string{"w1", "w2", "w3"}, false, 0, c, "")
	for _, p := range res.Workers {
		assert.GreaterOrEqual(t, p.Rect.W, c.MinWidth)
		assert.GreaterOrEqual(t, p.Rect.H, c.MinHeight)
	}
}

func TestComputeZoomBypassesEverything(t *testing.T) {
	c := Constraints{MinWidth: 100, MinHeight: 16}
	area := Rect{W: 300, H: 60}
	res := Compute(area, "arch", true, []string{"w1", "w2"}, false, 0, c, "w1")
	assert.Equal(t, "w1", res.ZoomedPaneID)
	assert.Nil(t, res.Architect)
}

func TestComputeArchitectReservesEdgeStrip(t *testing.T) {
	c := Constraints{MinWidth: 100, MinHeight: 16}
	area := Rect{W: 300, H: 60}

	top := Compute(area, "arch", true, []string{"w1"}, false, 0, c, "")
	require.NotNil(t, top.Architect)
	assert.Equal(t, 0, top.Architect.Rect.Y)
	assert.Greater(t, top.Workers[0].Rect.Y, top.Architect.Rect.Y)

	left := Compute(area, "arch", true, []string{"w1"}, true, 0, c, "")
	require.NotNil(t, left.Architect)
	assert.Equal(t, 0, left.Architect.Rect.X)
	assert.Greater(t, left.Workers[0].Rect.X, left.Architect.Rect.X)
}

func TestComputeNoWorkersYieldsOneEmptyPage(t *testing.T) {
	c := Constraints{MinWidth: 100, MinHeight: 16}
	res := Compute(Rect{W: 200, H: 60}, "", false, nil, false, 0, c, "")
	assert.Empty(t, res.Workers)
	assert.Equal(t, 1, res.PageCount)
}
