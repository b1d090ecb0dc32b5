package tui

import "strings"

// Palette implements spec §4.7's Palette mode: keys edit a query, number
// keys 1-9 execute the Nth visible item. Grounded on the teacher's
// command-menu shape (cmd/root.go's subcommand registry) generalized to a
// filterable, numbered list instead of a static menu.

// PaletteItem is one command the palette can run.
type PaletteItem struct {
	Label string
	ID    string // opaque identifier the caller dispatches on
}

// Palette holds the full item catalogue and the live query/filter state.
type Palette struct {
	Items []PaletteItem
	Query string
}

// NewPalette builds a Palette over the given items (already in display
// order; the palette never reorders them, only filters).
func NewPalette(items []PaletteItem) *Palette {
	return &Palette{Items: items}
}

// Visible returns the items matching the current query, case-insensitive
// substring match against Label.
func (p *Palette) Visible() []PaletteItem {
	if p.Query == "" {
		return p.Items
	}
	q := strings.ToLower(p.Query)
	var out []PaletteItem
	for _, it := range p.Items {
		if strings.Contains(strings.ToLower(it.Label), q) {
			out = append(out, it)
		}
	}
	return out
}

// Type appends to the query.
func (p *Palette) Type(r rune) { p.Query += string(r) }

// Backspace removes the last query rune, if any.
func (p *Palette) Backspace() {
	if p.Query == "" {
		return
	}
	runes := []rune(p.Query)
	p.Query = string(runes[:len(runes)-1])
}

// Reset clears the query (called on entering/leaving Palette mode).
func (p *Palette) Reset() { p.Query = "" }

// ExecuteN returns the Nth (1-indexed) visible item, or false if out of
// range (spec §4.7: "number keys 1-9 execute the Nth visible item").
func (p *Palette) ExecuteN(n int) (PaletteItem, bool) {
	visible := p.Visible()
	if n < 1 || n > len(visible) || n > 9 {
		return PaletteItem{}, false
	}
	return visible[n-1], true
}
