// Package termbuf parses a pane's raw PTY byte stream into a renderable
// grid with scrollback, on top of github.com/danielgatis/go-headless-term.
// It adds the hive-specific ingress behavior the library doesn't provide:
// ESC[3J filtering, a bounded raw-history ring, and a Snapshot shape suited
// to tiled rendering rather than a single full-screen terminal.
package termbuf

import (
	"image/color"
	"sync"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// AttrFlags is the cell attribute bitset exposed by Snapshot, independent
// of the underlying library's own CellFlags so callers never import it.
type AttrFlags uint8

const (
	AttrBold AttrFlags = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrStrikeout
	AttrInverse
	AttrHidden
)

// Glyph is one rendered cell: its rune plus resolved colors and flags. The
// zero value is a blank, default-colored cell.
type Glyph struct {
	Row, Col int
	Ch       rune
	Fg, Bg   color.RGBA
	Attrs    AttrFlags
	Wide     bool // occupies two terminal columns; the next cell is a spacer
}

// Cursor describes where and how the cursor renders.
type Cursor struct {
	Row, Col int
	Visible  bool
	Blink    bool
}

// Renderable is an immutable snapshot of a Buffer's visible content,
// suitable for a client to draw without holding the Buffer's lock.
type Renderable struct {
	Rows, Cols    int
	DisplayOffset int // 0 = live screen; >0 = scrolled back that many lines
	Cursor        Cursor
	Glyphs        []Glyph // spacer cells for wide runes are omitted
	Alternate     bool
}

// Buffer is a VT-style terminal emulator with scrollback, wrapping
// headlessterm.Terminal. All mutating and reading methods are safe for
// concurrent use; the underlying library serializes with its own mutex,
// but PushBytes additionally needs exclusivity over esc3j filter state.
type Buffer struct {
	mu     sync.Mutex
	term   *headlessterm.Terminal
	filter esc3jFilter
	offset int // scrollback display offset, lines above the live viewport
	depth  int // configured scrollback depth
}

// New creates a Buffer with the given geometry and scrollback depth.
func New(rows, cols, scrollbackDepth int) *Buffer {
	t := headlessterm.New(headlessterm.WithSize(rows, cols))
	t.SetMaxScrollback(scrollbackDepth)
	return &Buffer{term: t, depth: scrollbackDepth}
}

// PushBytes parses data, updating the grid, scrollback, cursor, and
// attributes. ESC[3J is filtered out before reaching the underlying
// terminal, per the "clear-scrollback defeats replay" design decision.
// Invariant 1 (stream-insensitive framing) holds because esc3jFilter and
// the underlying ANSI decoder both carry state across calls.
func (b *Buffer) PushBytes(data []byte) {
	filtered := b.filter.Filter(data)
	if len(filtered) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.term.Write(filtered)
}

// Resize reflows to the new geometry. Scrollback contents and the current
// scroll offset are preserved; a scrolled-back view that would point past
// the (possibly shorter) new scrollback is clamped, never reset to zero
// unless scrollback is genuinely empty.
func (b *Buffer) Resize(rows, cols int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.term.Resize(rows, cols)
	if max := b.term.ScrollbackLen(); b.offset > max {
		b.offset = max
	}
}

// IsAlternateScreen reports whether the child has switched to the
// alternate screen buffer (no scrollback while active).
func (b *Buffer) IsAlternateScreen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term.IsAlternateScreen()
}

// ScrollUp moves the display offset toward older scrollback, bounded by
// how much scrollback actually exists.
func (b *Buffer) ScrollUp(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offset += n
	if max := b.term.ScrollbackLen(); b.offset > max {
		b.offset = max
	}
}

// ScrollDown moves the display offset toward the live screen.
func (b *Buffer) ScrollDown(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offset -= n
	if b.offset < 0 {
		b.offset = 0
	}
}

// ScrollToTop jumps to the oldest available scrollback line.
func (b *Buffer) ScrollToTop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offset = b.term.ScrollbackLen()
}

// ScrollToBottom returns to the live screen.
func (b *Buffer) ScrollToBottom() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offset = 0
}

// Snapshot renders the buffer's current visible content: the live screen
// when DisplayOffset is 0, or scrollback lines spliced above it otherwise.
func (b *Buffer) Snapshot() Renderable {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, cols := b.term.Rows(), b.term.Cols()
	r := Renderable{
		Rows:          rows,
		Cols:          cols,
		DisplayOffset: b.offset,
		Alternate:     b.term.IsAlternateScreen(),
	}
	cr, cc := b.term.CursorPos()
	r.Cursor = Cursor{Row: cr, Col: cc, Visible: b.term.CursorVisible()}

	// When scrolled back, the top `b.offset` rows come from scrollback
	// lines (oldest-first indexing handled by splicing from the tail),
	// and the remainder from the live grid, shifted down.
	scrollbackRows := b.offset
	if scrollbackRows > rows {
		scrollbackRows = rows
	}
	total := b.term.ScrollbackLen()

	for row := 0; row < rows; row++ {
		if row < scrollbackRows {
			idx := total - b.offset + row
			if idx < 0 || idx >= total {
				continue
			}
			appendScrollbackRow(&r, row, cols, b.term.ScrollbackLine(idx))
			continue
		}
		liveRow := row - scrollbackRows
		appendLiveRow(&r, row, cols, b.term, liveRow)
	}
	return r
}

func appendLiveRow(r *Renderable, destRow, cols int, t *headlessterm.Terminal, srcRow int) {
	for col := 0; col < cols; col++ {
		cell := t.Cell(srcRow, col)
		if cell == nil || cell.IsWideSpacer() {
			continue
		}
		r.Glyphs = append(r.Glyphs, glyphFromCell(destRow, col, cell))
	}
}

func appendScrollbackRow(r *Renderable, destRow, cols int, cells []headlessterm.Cell) {
	for col := 0; col < cols && col < len(cells); col++ {
		cell := cells[col]
		if cell.IsWideSpacer() {
			continue
		}
		r.Glyphs = append(r.Glyphs, glyphFromCell(destRow, col, &cell))
	}
}

func glyphFromCell(row, col int, cell *headlessterm.Cell) Glyph {
	g := Glyph{
		Row:  row,
		Col:  col,
		Ch:   cell.Char,
		Fg:   resolveColor(cell.Fg, true),
		Bg:   resolveColor(cell.Bg, false),
		Wide: cell.IsWide(),
	}
	if cell.HasFlag(headlessterm.CellFlagBold) {
		g.Attrs |= AttrBold
	}
	if cell.HasFlag(headlessterm.CellFlagDim) {
		g.Attrs |= AttrDim
	}
	if cell.HasFlag(headlessterm.CellFlagItalic) {
		g.Attrs |= AttrItalic
	}
	if cell.HasFlag(headlessterm.CellFlagUnderline) || cell.HasFlag(headlessterm.CellFlagDoubleUnderline) ||
		cell.HasFlag(headlessterm.CellFlagCurlyUnderline) || cell.HasFlag(headlessterm.CellFlagDottedUnderline) ||
		cell.HasFlag(headlessterm.CellFlagDashedUnderline) {
		g.Attrs |= AttrUnderline
	}
	if cell.HasFlag(headlessterm.CellFlagStrike) {
		g.Attrs |= AttrStrikeout
	}
	if cell.HasFlag(headlessterm.CellFlagReverse) {
		g.Attrs |= AttrInverse
	}
	if cell.HasFlag(headlessterm.CellFlagHidden) {
		g.Attrs |= AttrHidden
	}
	return g
}
