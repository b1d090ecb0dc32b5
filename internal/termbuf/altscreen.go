package termbuf

// altScreenEnter and altScreenExit are the DEC private modes agents use to
// switch to/from the alternate screen (1049 saves/restores the cursor too;
// 47 and 1047 are older variants some backends still emit).
var altScreenEnter = [][]byte{
	[]byte("\x1b[?1049h"), []byte("\x1b[?1047h"), []byte("\x1b[?47h"),
}
var altScreenExit = [][]byte{
	[]byte("\x1b[?1049l"), []byte("\x1b[?1047l"), []byte("\x1b[?47l"),
}

// ReconstructScrollback builds an independent scrollback Buffer from raw
// (unfiltered) PTY history for Scroll mode: bytes written while the child
// was in the alternate screen are dropped, since that content was never
// meant to persist, and a bare ESC[2J (full-screen clear) is dropped too so
// a TUI's repaint-by-clearing doesn't wipe history the user wants to
// scroll through. ESC[3J is filtered the same as live ingestion.
//
// The returned Buffer is independent of any live Buffer: scrolling it
// never affects the pane's live terminal state.
func ReconstructScrollback(raw []byte, rows, cols, scrollbackDepth int) *Buffer {
	b := New(rows, cols, scrollbackDepth)
	stripped := stripAltScreenAndClears(raw)
	b.PushBytes(stripped)
	return b
}

func stripAltScreenAndClears(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inAlt := false
	i := 0
	for i < len(data) {
		if !inAlt {
			if seq, ok := matchAny(data[i:], altScreenEnter); ok {
				inAlt = true
				i += len(seq)
				continue
			}
			if seq, ok := matchAny(data[i:], [][]byte{[]byte("\x1b[2J")}); ok {
				i += len(seq)
				continue
			}
			out = append(out, data[i])
			i++
			continue
		}
		if seq, ok := matchAny(data[i:], altScreenExit); ok {
			inAlt = false
			i += len(seq)
			continue
		}
		i++
	}
	return out
}

func matchAny(data []byte, candidates [][]byte) ([]byte, bool) {
	for _, c := range candidates {
		if len(data) >= len(c) && string(data[:len(c)]) == string(c) {
			return c, true
		}
	}
	return nil, false
}
