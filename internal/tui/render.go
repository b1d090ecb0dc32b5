package tui

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/muesli/termenv"

	"hive/internal/termbuf"
)

// Render draws one full frame: each placed pane's Renderable content into
// its Rect, the sidebar panel, and a status line, using DECSC/DECRC to
// keep the outer cursor stable while drawing — the same approach as the
// teacher's render.go, generalized from "one full-screen pane" to "many
// tiled rects plus a sidebar column". Colors are resolved through a
// termenv.Output so truecolor glyphs degrade gracefully on a 256-color or
// basic terminal, per spec §4.7's ambient-stack rendering requirement.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer draws through out (typically a termenv.Output over
// os.Stdout); color degradation follows out's color profile.
func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

// SidebarWidth is the fixed column width reserved for the sidebar panel.
const SidebarWidth = 28

// Frame renders the full screen: layout placements for panes, the sidebar
// along the right edge, and a one-line status bar at the bottom.
func (r *Renderer) Frame(buf *bytes.Buffer, a *App, layout Result, area Rect) {
	buf.WriteString("\0337") // DECSC

	if a.Mode == ModeHelp {
		r.renderHelp(buf, area)
		r.renderStatusBar(buf, a, layout, area)
		buf.WriteString("\0338")
		return
	}

	contentArea := area
	contentArea.W -= SidebarWidth
	if contentArea.W < 0 {
		contentArea.W = 0
	}

	if layout.ZoomedPaneID != "" {
		if p := a.findPane(layout.ZoomedPaneID); p != nil {
			r.renderPane(buf, p, Rect{X: area.X, Y: area.Y, W: area.W, H: area.H - 1})
		}
	} else {
		if layout.Architect != nil {
			if p := a.findPane(layout.Architect.PaneID); p != nil {
				r.renderPane(buf, p, clipToSidebar(layout.Architect.Rect, contentArea))
			}
		}
		for _, pl := range layout.Workers {
			if p := a.findPane(pl.PaneID); p != nil {
				r.renderPane(buf, p, clipToSidebar(pl.Rect, contentArea))
			}
		}
		r.renderSidebar(buf, a, Rect{X: area.X + area.W - SidebarWidth, Y: area.Y, W: SidebarWidth, H: area.H - 1})
	}

	r.renderStatusBar(buf, a, layout, area)
	buf.WriteString("\0338") // DECRC
}

// helpLines is the static keybinding reference shown in Help mode,
// grounded on the teacher's keybindingHelp()/HelpLabel shape (one fixed
// block of text per mode) collapsed to a single block since hive's Help
// mode is a standalone overlay rather than a context-sensitive status
// line.
var helpLines = []string{
	"Ctrl+b   focus sidebar",
	"Ctrl+h/j/k/l   move focus across the grid",
	"Ctrl+z   zoom/unzoom the focused pane",
	"Ctrl+s   scroll the focused pane's history",
	"Ctrl+p   command palette",
	"Ctrl+t   task queue view",
	"Ctrl+q   detach (server keeps running)",
	"",
	"Sidebar: j/k move, space toggle visible, a/n select all/none,",
	"         enter expand/collapse group, J/K reorder, esc exit",
	"Scroll:  j/k or arrows, g/G top/bottom, esc exit",
	"Palette: type to filter, 1-9 to run, esc cancel",
	"",
	"Any key closes this help.",
}

func (r *Renderer) renderHelp(buf *bytes.Buffer, area Rect) {
	for i := 0; i < area.H-1; i++ {
		fmt.Fprintf(buf, "\033[%d;%dH\033[2K", area.Y+i+1, area.X+1)
		if i < len(helpLines) {
			buf.WriteString(helpLines[i])
		}
	}
}

func clipToSidebar(rect, bound Rect) Rect {
	if rect.X+rect.W > bound.X+bound.W {
		rect.W = bound.X + bound.W - rect.X
	}
	if rect.W < 0 {
		rect.W = 0
	}
	return rect
}

// renderPane draws one pane's ActiveBuffer snapshot into rect, row by row,
// resetting SGR and erasing to end-of-line so stale wider content from a
// previous frame doesn't bleed through (same concern as the teacher's
// RenderLineFrom / erase-to-end-of-line convention).
func (r *Renderer) renderPane(buf *bytes.Buffer, p *ClientPane, rect Rect) {
	snap := p.ActiveBuffer().Snapshot()
	byRow := make(map[int][]termbuf.Glyph, rect.H)
	for _, g := range snap.Glyphs {
		byRow[g.Row] = append(byRow[g.Row], g)
	}

	title := p.Info.ID
	if p.Exited {
		title += " [exited]"
	}
	r.writeAt(buf, rect.Y, rect.X, rect.W, titleBarStyle(padTrunc(" "+title, rect.W), p))

	for i := 0; i < rect.H-1; i++ {
		row := rect.Y + 1 + i
		fmt.Fprintf(buf, "\033[%d;%dH", row+1, rect.X+1)
		r.renderRow(buf, byRow[i], rect.W)
		buf.WriteString("\033[0m")
	}
}

func (r *Renderer) renderRow(buf *bytes.Buffer, glyphs []termbuf.Glyph, width int) {
	cells := make([]termbuf.Glyph, width)
	for i := range cells {
		cells[i].Ch = ' '
	}
	for _, g := range glyphs {
		if g.Col >= 0 && g.Col < width {
			cells[g.Col] = g
		}
	}

	for _, c := range cells {
		ch := c.Ch
		if ch == 0 {
			ch = ' '
		}
		buf.WriteString(r.styleFor(c, string(ch)).String())
	}
}

func (r *Renderer) styleFor(g termbuf.Glyph, text string) termenv.Style {
	s := r.out.String(text)
	if g.Fg != (color.RGBA{}) {
		s = s.Foreground(r.out.Color(rgbHex(g.Fg)))
	}
	if g.Bg != (color.RGBA{}) {
		s = s.Background(r.out.Color(rgbHex(g.Bg)))
	}
	if g.Attrs&termbuf.AttrBold != 0 {
		s = s.Bold()
	}
	if g.Attrs&termbuf.AttrDim != 0 {
		s = s.Faint()
	}
	if g.Attrs&termbuf.AttrItalic != 0 {
		s = s.Italic()
	}
	if g.Attrs&termbuf.AttrUnderline != 0 {
		s = s.Underline()
	}
	if g.Attrs&termbuf.AttrInverse != 0 {
		s = s.Reverse()
	}
	return s
}

func rgbHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func titleBarStyle(text string, p *ClientPane) string {
	s := termenv.String(text).Reverse()
	switch {
	case p.Exited:
		s = s.Foreground(termenv.ANSIRed)
	case p.IsArchitect():
		s = s.Foreground(termenv.ANSIMagenta)
	default:
		s = s.Foreground(termenv.ANSICyan)
	}
	return s.String()
}

func padTrunc(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (r *Renderer) writeAt(buf *bytes.Buffer, row, col, width int, s string) {
	fmt.Fprintf(buf, "\033[%d;%dH", row+1, col+1)
	buf.WriteString(s)
}

// renderSidebar draws the group/pane row list, indenting group children
// and highlighting the current selection.
func (r *Renderer) renderSidebar(buf *bytes.Buffer, a *App, rect Rect) {
	for i := 0; i < rect.H; i++ {
		fmt.Fprintf(buf, "\033[%d;%dH\033[2K", rect.Y+i+1, rect.X+1)
		if i >= len(a.Sidebar.Rows) {
			continue
		}
		row := a.Sidebar.Rows[i]
		line := sidebarLineText(row)
		line = padTrunc(strings.Repeat(" ", row.Indent)+line, rect.W)
		if a.rowSelected(row) {
			buf.WriteString(termenv.String(line).Reverse().String())
		} else {
			buf.WriteString(line)
		}
	}
}

func (a *App) rowSelected(row Row) bool {
	switch row.Kind {
	case RowGroupHeader:
		return a.Sidebar.Selected.IsGroup && a.Sidebar.Selected.Group == row.Group
	default:
		return !a.Sidebar.Selected.IsGroup && a.Sidebar.Selected.PaneID == row.PaneID
	}
}

func sidebarLineText(row Row) string {
	switch row.Kind {
	case RowGroupHeader:
		return "▾ " + row.Group
	default:
		label := row.PaneID
		if row.Pane != nil {
			label = row.Pane.Info.Branch
			if label == "" {
				label = row.Pane.Info.ID
			}
			if row.Pane.Exited {
				label += " ✗"
			}
		}
		return "  " + label
	}
}

// renderStatusBar draws a one-line footer: mode, focused pane, page.
func (r *Renderer) renderStatusBar(buf *bytes.Buffer, a *App, layout Result, area Rect) {
	fmt.Fprintf(buf, "\033[%d;%dH\033[2K", area.Y+area.H, area.X+1)
	label := fmt.Sprintf(" %s | focus: %s", a.Mode, a.FocusedPane)
	if layout.PageCount > 1 {
		label += fmt.Sprintf(" | page %d/%d", layout.CurrentPage+1, layout.PageCount)
	}
	if a.ZoomedPane != "" {
		label += " | zoomed"
	}
	buf.WriteString(termenv.String(padTrunc(label, area.W)).Reverse().String())
}
