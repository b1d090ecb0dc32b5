package tui

import "unicode/utf8"

// DecodeKeys turns a chunk of raw stdin bytes into KeyEvents, grounded on
// the teacher's HandlePassthroughBytes/HandleMenuBytes byte-at-a-time
// escape dispatch (internal/overlay/input.go), simplified here to
// single-chunk lookahead since a terminal delivers one CSI sequence per
// read in practice (reintroducing the teacher's 50ms pending-escape timer
// would only matter for keyboards that split ESC from `[` across reads,
// which the attach loop doesn't need to tolerate).
func DecodeKeys(buf []byte) []KeyEvent {
	var out []KeyEvent
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == 0x1b:
			if ev, n, ok := decodeEscape(buf[i:]); ok {
				out = append(out, ev)
				i += n
				continue
			}
			out = append(out, KeyEvent{Named: "esc"})
			i++
		// 0x0A and 0x08 fall through to the Ctrl+letter case below, so
		// they arrive as the Ctrl+j and Ctrl+h navigation chords.
		case b == '\r':
			out = append(out, KeyEvent{Named: "enter"})
			i++
		case b == 0x7f:
			out = append(out, KeyEvent{Named: "backspace"})
			i++
		case b == '\t':
			out = append(out, KeyEvent{Named: "tab"})
			i++
		case b >= 1 && b <= 26:
			out = append(out, KeyEvent{Ctrl: rune('a' + b - 1)})
			i++
		case b < 0x80:
			out = append(out, KeyEvent{Rune: rune(b)})
			i++
		default:
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError && size <= 1 {
				i++
				continue
			}
			out = append(out, KeyEvent{Rune: r})
			i += size
		}
	}
	return out
}

// decodeEscape recognizes the CSI arrow sequences (ESC [ A/B/C/D); any
// other ESC-prefixed sequence is reported unconsumed so the caller treats
// the lone ESC as a literal Esc keypress.
func decodeEscape(buf []byte) (KeyEvent, int, bool) {
	if len(buf) < 3 || buf[1] != '[' {
		return KeyEvent{}, 0, false
	}
	switch buf[2] {
	case 'A':
		return KeyEvent{Named: "up"}, 3, true
	case 'B':
		return KeyEvent{Named: "down"}, 3, true
	case 'C':
		return KeyEvent{Named: "right"}, 3, true
	case 'D':
		return KeyEvent{Named: "left"}, 3, true
	}
	return KeyEvent{}, 0, false
}
