// Package ptysup hosts agent backend processes on PTYs: it spawns a child
// attached to a pseudo-terminal, runs a dedicated reader goroutine per
// child that posts typed events onto a shared channel, and forwards client
// keystrokes and resizes into the child's PTY. It is grounded on the
// teacher's internal/session/virtualterminal.VT (StartPTY/PipeOutput
// pattern: github.com/creack/pty, an environment overlay, a 4 KiB read
// loop), generalized from "one VT per process" to "one reader goroutine
// per Pane, posting onto a shared channel" per spec §5.
package ptysup

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
)

// Event is one occurrence from a supervised child, posted by its reader
// goroutine. Exactly one of the fields besides PaneID is meaningful,
// matching which EventKind is set.
type Event struct {
	PaneID  string
	Kind    EventKind
	Data    []byte // set for Output
	Message string // set for Error
}

type EventKind int

const (
	Output EventKind = iota
	Exited
	Error
)

// Options configures a spawned child beyond command and working directory.
type Options struct {
	Args    []string
	Rows    int
	Cols    int
	ExtraEnv map[string]string
}

// DefaultRows and DefaultCols match spec §4.2's backend-dependent initial
// size (40x120); clients resize shortly after attaching.
const (
	DefaultRows = 40
	DefaultCols = 120
)

// Handle is a spawned child: its PTY master, its process, and the typed
// writer other components use to send it input.
type Handle struct {
	Master *os.File
	Cmd    *exec.Cmd
	Writer *Writer
}

// Writer forwards bytes to a child's PTY master. It exists as its own type
// so callers (the nudge algorithm, Input command handling) depend on a
// narrow interface rather than the whole Handle.
type Writer struct {
	master *os.File
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.master.Write(p)
}

// Spawn starts command as a child of a new PTY at the given working
// directory, with TERM/LANG/LC_ALL set per spec §4.2 and any ExtraEnv
// overlaid on top of the current environment (overlay pattern grounded on
// VT.StartPTY's extraEnv handling).
func Spawn(command, workingDir string, opts Options) (*Handle, error) {
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}

	cmd := exec.Command(command, opts.Args...)
	cmd.Dir = workingDir
	cmd.Env = buildEnv(opts.ExtraEnv)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	return &Handle{Master: master, Cmd: cmd, Writer: &Writer{master: master}}, nil
}

func buildEnv(extra map[string]string) []string {
	base := map[string]string{
		"TERM":    "xterm-256color",
		"LANG":    "en_US.UTF-8",
		"LC_ALL":  "en_US.UTF-8",
	}
	for k, v := range extra {
		base[k] = v
	}

	env := make([]string, 0, len(os.Environ())+len(base))
	for _, e := range os.Environ() {
		key := e
		if idx := strings.Index(e, "="); idx >= 0 {
			key = e[:idx]
		}
		if _, overridden := base[key]; !overridden {
			env = append(env, e)
		}
	}
	for k, v := range base {
		env = append(env, k+"="+v)
	}
	return env
}

// Resize updates a child's PTY window size.
func Resize(master *os.File, rows, cols int) error {
	return pty.Setsize(master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// SendBytes writes bytes to a child's stdin via its Writer.
func SendBytes(w *Writer, data []byte) (int, error) {
	return w.Write(data)
}

// cprQueries and cprReply implement the cursor-position-query auto-responder
// from spec §4.2: some agents block on a DSR (device status report) reply
// early in startup. ESC[6n and its private-mode variant ESC[?6n both get
// the same canned "cursor is at 1,1" reply, grounded on the teacher's
// VT.RespondOSCColors ("scan bytes for a query substring, write a canned
// reply to the PTY master before forwarding") generalized to this query.
var cprQueries = [][]byte{[]byte("\x1b[6n"), []byte("\x1b[?6n")}

const cprReply = "\x1b[1;1R"

// RespondToCursorQuery writes the canned CPR reply into master if data
// contains a cursor-position query. It does not modify data; the caller
// still forwards the original bytes onward to the terminal buffer.
func RespondToCursorQuery(master io.Writer, data []byte) {
	for _, q := range cprQueries {
		if bytes.Contains(data, q) {
			io.WriteString(master, cprReply)
			return
		}
	}
}

// SpawnReader starts a dedicated blocking goroutine that reads up to 4 KiB
// at a time from h.Master and posts Output/Exited/Error events for paneID
// onto sink. It returns once the reader goroutine has been started; the
// goroutine itself runs until EOF or a read error.
func SpawnReader(paneID string, h *Handle, sink chan<- Event) {
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := h.Master.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				RespondToCursorQuery(h.Master, data)
				sink <- Event{PaneID: paneID, Kind: Output, Data: data}
			}
			if err != nil {
				if err != io.EOF {
					sink <- Event{PaneID: paneID, Kind: Error, Message: err.Error()}
				}
				sink <- Event{PaneID: paneID, Kind: Exited}
				return
			}
		}
	}()
}
