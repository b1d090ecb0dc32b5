package tui

// Layout implements spec §4.7's tiling algorithm: pagination of the
// visible worker grid, an architect edge strip, and exactly-one-pane zoom.
// Grounded on original_source/src/ui/layout.rs's area-splitting approach,
// generalized to the richer pagination/min-size/zoom requirements spec
// §4.7 adds.

// Rect is an axis-aligned screen region in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Placement associates one pane with its computed Rect and its (row, col)
// position within the current page's grid (used by grid navigation).
type Placement struct {
	PaneID string
	Rect   Rect
	Row    int
	Col    int
}

// Constraints bounds the layout engine's pane-size floor, per spec §6's
// workspace.yaml layout{min_pane_width,min_pane_height}.
type Constraints struct {
	MinWidth  int
	MinHeight int
}

const (
	// DefaultMinPaneWidth/Height mirror config.DefaultMinPaneWidth/Height
	// so tui has no hard dependency on the config package.
	DefaultMinPaneWidth  = 40
	DefaultMinPaneHeight = 10
)

// Result is everything the renderer and input router need to draw one
// frame and route key events to the right pane.
type Result struct {
	Architect    *Placement // nil if no architect, or architect hidden
	Workers      []Placement
	PageCount    int
	CurrentPage  int
	ZoomedPaneID string // non-empty when a single pane fills the whole area
}

// architectStripSize is the thickness (rows if top, cols if left) reserved
// for the architect's edge strip: one pane's worth of the min-height
// floor, per spec §4.7 ("architect gets one edge strip").
func architectStripSize(c Constraints) int {
	if c.MinHeight <= 0 {
		return DefaultMinPaneHeight
	}
	return c.MinHeight
}

// Compute lays out architect (if present+visible) plus the given ordered
// worker ids into A, paginating at page pageIdx. When zoomedPaneID is
// non-empty, it bypasses every other decision and returns a single
// full-area placement (spec §4.7 "Zoom: ... bypassed").
func Compute(area Rect, architectID string, hasArchitect bool, workers []string, architectLeft bool, pageIdx int, c Constraints, zoomedPaneID string) Result {
	if c.MinWidth <= 0 {
		c.MinWidth = DefaultMinPaneWidth
	}
	if c.MinHeight <= 0 {
		c.MinHeight = DefaultMinPaneHeight
	}

	if zoomedPaneID != "" {
		return Result{ZoomedPaneID: zoomedPaneID, Workers: nil}
	}

	var res Result
	workerArea := area

	if hasArchitect {
		strip := architectStripSize(c)
		if architectLeft {
			if strip > area.W {
				strip = area.W
			}
			archRect := Rect{X: area.X, Y: area.Y, W: strip, H: area.H}
			res.Architect = &Placement{PaneID: architectID, Rect: archRect}
			workerArea = Rect{X: area.X + strip, Y: area.Y, W: area.W - strip, H: area.H}
		} else {
			if strip > area.H {
				strip = area.H
			}
			archRect := Rect{X: area.X, Y: area.Y, W: area.W, H: strip}
			res.Architect = &Placement{PaneID: architectID, Rect: archRect}
			workerArea = Rect{X: area.X, Y: area.Y + strip, W: area.W, H: area.H - strip}
		}
	}

	cols := maxInt(1, workerArea.W/c.MinWidth)
	rows := maxInt(1, workerArea.H/c.MinHeight)
	perPage := cols * rows
	if perPage <= 0 {
		perPage = 1
	}

	res.PageCount = maxInt(1, ceilDiv(len(workers), perPage))
	page := pageIdx
	if page < 0 {
		page = 0
	}
	if page >= res.PageCount {
		page = res.PageCount - 1
	}
	res.CurrentPage = page

	start := page * perPage
	end := minInt(start+perPage, len(workers))
	if start > len(workers) {
		start = len(workers)
	}
	pageItems := workers[start:end]

	res.Workers = subdivide(workerArea, pageItems, cols, rows)
	return res
}

// subdivide splits area into `rows` equal bands, each split into up to
// `cols` equal columns; the last row may have fewer columns than the rest
// (spec §4.7: "The last row may have fewer columns than the rest").
func subdivide(area Rect, ids []string, cols, rows int) []Placement {
	if len(ids) == 0 {
		return nil
	}
	neededRows := minInt(rows, ceilDiv(len(ids), cols))
	if neededRows <= 0 {
		neededRows = 1
	}

	var placements []Placement
	idx := 0
	for r := 0; r < neededRows && idx < len(ids); r++ {
		rowH := area.H / neededRows
		rowY := area.Y + r*rowH
		if r == neededRows-1 {
			rowH = area.H - r*rowH // absorb rounding remainder into last row
		}
		remaining := len(ids) - idx
		rowCols := minInt(cols, remaining)
		for cIdx := 0; cIdx < rowCols; cIdx++ {
			colW := area.W / rowCols
			colX := area.X + cIdx*colW
			if cIdx == rowCols-1 {
				colW = area.W - cIdx*colW
			}
			placements = append(placements, Placement{
				PaneID: ids[idx],
				Rect:   Rect{X: colX, Y: rowY, W: colW, H: rowH},
				Row:    r,
				Col:    cIdx,
			})
			idx++
		}
	}
	return placements
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
