package tui

import "sort"

// Grid navigation infers (row, col) for every placed pane by sorting rects
// by y then by x (spec §4.7 "Grid navigation"), independent of how the
// layout engine produced them — this is what lets Ctrl+h/j/k/l move
// correctly even though subdivide() already tags Row/Col itself.

// GridCell is one pane's inferred grid coordinate.
type GridCell struct {
	PaneID   string
	Row, Col int
}

// InferGrid sorts placements by (y, x) and assigns row/col purely from
// that ordering, independent of Placement.Row/Col.
func InferGrid(placements []Placement) []GridCell {
	sorted := make([]Placement, len(placements))
	copy(sorted, placements)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rect.Y != sorted[j].Rect.Y {
			return sorted[i].Rect.Y < sorted[j].Rect.Y
		}
		return sorted[i].Rect.X < sorted[j].Rect.X
	})

	cells := make([]GridCell, 0, len(sorted))
	row := -1
	lastY := -1
	col := 0
	for _, p := range sorted {
		if p.Rect.Y != lastY {
			row++
			col = 0
			lastY = p.Rect.Y
		}
		cells = append(cells, GridCell{PaneID: p.PaneID, Row: row, Col: col})
		col++
	}
	return cells
}

// Direction is a grid-navigation move.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// MoveResult reports where focus should land after a grid move: either
// another pane on the current page, or a page change plus which edge pane
// on the destination page to land on (spec §4.7: "horizontal moves off the
// left/right edge wrap to the previous/next page and focus the first/last
// worker on the destination page").
type MoveResult struct {
	PaneID      string
	ChangedPage bool
	NewPage     int
	WrapToFirst bool // true: focus first worker on destination page; false: last
}

// Move computes the next focused pane for a Ctrl+h/j/k/l keystroke from
// currentID, given the current page's grid cells, the total page count,
// and the current page index.
func Move(cells []GridCell, currentID string, dir Direction, page, pageCount int) MoveResult {
	cur, ok := findCell(cells, currentID)
	if !ok {
		if len(cells) > 0 {
			return MoveResult{PaneID: cells[0].PaneID}
		}
		return MoveResult{}
	}

	switch dir {
	case DirLeft:
		if target, ok := cellAt(cells, cur.Row, cur.Col-1); ok {
			return MoveResult{PaneID: target.PaneID}
		}
		return wrapPage(page, pageCount, -1, false)
	case DirRight:
		if target, ok := cellAt(cells, cur.Row, cur.Col+1); ok {
			return MoveResult{PaneID: target.PaneID}
		}
		return wrapPage(page, pageCount, 1, true)
	case DirUp:
		if target, ok := cellAt(cells, cur.Row-1, cur.Col); ok {
			return MoveResult{PaneID: target.PaneID}
		}
		return MoveResult{PaneID: currentID}
	case DirDown:
		if target, ok := cellAt(cells, cur.Row+1, cur.Col); ok {
			return MoveResult{PaneID: target.PaneID}
		}
		return MoveResult{PaneID: currentID}
	}
	return MoveResult{PaneID: currentID}
}

func wrapPage(page, pageCount, delta int, wrapToFirst bool) MoveResult {
	if pageCount <= 1 {
		return MoveResult{}
	}
	newPage := (page + delta + pageCount) % pageCount
	return MoveResult{ChangedPage: true, NewPage: newPage, WrapToFirst: wrapToFirst}
}

func findCell(cells []GridCell, id string) (GridCell, bool) {
	for _, c := range cells {
		if c.PaneID == id {
			return c, true
		}
	}
	return GridCell{}, false
}

func cellAt(cells []GridCell, row, col int) (GridCell, bool) {
	for _, c := range cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return GridCell{}, false
}

// FirstOnPage/LastOnPage return the pane id to focus when landing on a new
// page after a wrap.
func FirstOnPage(cells []GridCell) string {
	if len(cells) == 0 {
		return ""
	}
	return cells[0].PaneID
}

func LastOnPage(cells []GridCell) string {
	if len(cells) == 0 {
		return ""
	}
	return cells[len(cells)-1].PaneID
}
