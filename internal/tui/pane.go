// Package tui implements hive's attach-side client: a reconnecting socket
// client, the tiling layout engine, input routing, the command palette,
// and the sidebar, per spec §4.7. Grounded on the teacher's
// internal/session/client (Client render/mode/input-handling shape) and
// internal/session/attach.go (reconnect-and-replay semantics), generalized
// from "one child, one attach client" to "N tiled panes, reconnecting
// client".
package tui

import (
	"hive/internal/termbuf"
	"hive/internal/wire"
)

// ClientPane is the client-side mirror of a server Pane (spec §3's
// ClientPane supplement): only what wire.PaneInfo exposes, plus
// client-local render state. It is distinct from hiveserver.Pane on
// purpose — the client never sees a PTY handle or a process, only bytes.
type ClientPane struct {
	Info wire.PaneInfo

	Buffer     *termbuf.Buffer // live terminal state
	RawHistory *termbuf.RawHistory

	// ScrollBuffer is non-nil while this pane is in Scroll mode: an
	// independent reconstruction from RawHistory that the user can
	// navigate without disturbing Buffer (spec §4.7 Scroll mode).
	ScrollBuffer *termbuf.Buffer

	Exited bool

	// LastSentRows/Cols track the geometry last communicated to the
	// server via Resize, so the client only sends Resize when the
	// derived size actually changes (spec §4.7 Client responsibilities).
	LastSentRows, LastSentCols int
}

const (
	defaultPaneRows           = 24
	defaultPaneCols           = 80
	defaultScrollbackDepth    = 10000
	defaultRawHistoryCapacity = termbuf.DefaultRawHistoryBytes
)

// NewClientPane constructs a ClientPane from a PaneInfo, with a fresh
// Buffer and RawHistory ready to receive Output frames.
func NewClientPane(info wire.PaneInfo) *ClientPane {
	return &ClientPane{
		Info:       info,
		Buffer:     termbuf.New(defaultPaneRows, defaultPaneCols, defaultScrollbackDepth),
		RawHistory: termbuf.NewRawHistory(defaultRawHistoryCapacity),
	}
}

// IsArchitect reports whether this pane is the Architect.
func (p *ClientPane) IsArchitect() bool { return p.Info.Type == "architect" }

// PushOutput feeds freshly-received (or replayed) bytes into the live
// buffer and the raw-history ring backing Scroll mode.
func (p *ClientPane) PushOutput(data []byte) {
	p.Buffer.PushBytes(data)
	p.RawHistory.Write(data)
}

// EnterScroll builds an independent scrollback reconstruction from raw
// history (spec §4.7 Scroll mode), sized to the pane's current live
// geometry.
func (p *ClientPane) EnterScroll() {
	snap := p.Buffer.Snapshot()
	rows, cols := snap.Rows, snap.Cols
	if rows == 0 {
		rows = defaultPaneRows
	}
	if cols == 0 {
		cols = defaultPaneCols
	}
	p.ScrollBuffer = termbuf.ReconstructScrollback(p.RawHistory.Bytes(), rows, cols, defaultScrollbackDepth)
	p.ScrollBuffer.ScrollToTop()
}

// ExitScroll discards the scroll reconstruction, returning to the live
// buffer.
func (p *ClientPane) ExitScroll() {
	p.ScrollBuffer = nil
}

// ActiveBuffer returns the buffer that should currently be rendered: the
// scroll reconstruction while scrolling, otherwise the live buffer.
func (p *ClientPane) ActiveBuffer() *termbuf.Buffer {
	if p.ScrollBuffer != nil {
		return p.ScrollBuffer
	}
	return p.Buffer
}
