// Package wire implements hive's client/server wire protocol: newline-
// delimited JSON messages over a local stream socket (spec §4.6, §6).
// Messages are externally tagged by Kind, the idiomatic Go analogue of the
// original (Rust) ancestor's tagged enum
// (original_source/src/ipc/mod.rs's `{"Input":{...}}`-shaped
// ClientMessage/ServerMessage), and the framing-layer equivalent of the
// pack's binary tagged frames (elleryfamilia-thicc's FrameData/FrameResize
// byte tag) expressed at the JSON-line layer spec §4.6 mandates.
package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Kind identifies which payload an Envelope carries.
type Kind string

// Client -> Server kinds.
const (
	KindInput            Kind = "Input"
	KindResize           Kind = "Resize"
	KindNudge            Kind = "Nudge"
	KindSetVisibility    Kind = "SetVisibility"
	KindReorderPanes     Kind = "ReorderPanes"
	KindSetArchitectLeft Kind = "SetArchitectLeft"
	KindLayout           Kind = "Layout"
	KindDetach           Kind = "Detach"
	KindShutdown         Kind = "Shutdown"
)

// Server -> Client kinds.
const (
	KindState      Kind = "State"
	KindOutput     Kind = "Output"
	KindPaneExited Kind = "PaneExited"
	KindError      Kind = "Error"
)

// Envelope is the wire shape of every message: a Kind tag plus its
// raw payload, so a receiver can discard an unknown Kind or an
// unparseable line without failing the whole connection (spec §4.6, §7).
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals kind+payload into an Envelope line (including the
// trailing newline spec §4.6 requires).
func Encode(kind Kind, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal %s payload: %w", kind, err)
	}
	env := Envelope{Kind: kind, Payload: raw}
	line, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal envelope: %w", err)
	}
	return append(line, '\n'), nil
}

// WriteTo encodes and writes kind+payload as one line to w.
func WriteTo(w io.Writer, kind Kind, payload any) error {
	line, err := Encode(kind, payload)
	if err != nil {
		return err
	}
	_, err = w.Write(line)
	return err
}

// Decode parses a single line into an Envelope. Callers then decode
// Payload based on Kind.
func Decode(line []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// DecodePayload unmarshals an Envelope's raw Payload into v, the shared
// helper both the server and the client use so neither hand-rolls its own
// json.Unmarshal-on-empty-payload special case.
func DecodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

// LineReader wraps a bufio.Scanner sized for long output lines (a pane's
// raw-history replay on attach can be up to ~200KB base64-encoded).
type LineReader struct {
	scanner *bufio.Scanner
}

// MaxLineBytes bounds a single decoded line; generous enough for a full
// raw-history replay frame with JSON/base64 overhead.
const MaxLineBytes = 4 * 1024 * 1024

// NewLineReader wraps r for newline-delimited message reads.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), MaxLineBytes)
	return &LineReader{scanner: s}
}

// Next reads one line and decodes it as an Envelope. Returns io.EOF when
// the underlying reader is exhausted. Per spec §4.6/§7, an unparseable
// line is not a connection error: Next returns a nil Envelope and a
// non-nil, non-EOF error that the caller should log and skip, continuing
// to read subsequent lines.
func (lr *LineReader) Next() (Envelope, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return Envelope{}, err
		}
		return Envelope{}, io.EOF
	}
	return Decode(lr.scanner.Bytes())
}
