package hiveserver

import (
	"strconv"
	"strings"
	"time"

	"hive/internal/tasks"
)

// ShouldNudge implements spec §4.5's nudge predicate (testable property
// 6). manual is true for a Nudge{worker} targeting this specific pane;
// false for an automatic nudge (no target, triggered by the watcher or a
// broadcast Nudge{}).
func ShouldNudge(counts tasks.Counts, manual bool) bool {
	if manual {
		return counts.Backlog > 0
	}
	return counts.Backlog > 0 && counts.InProgress == 0
}

// RenderNudge substitutes {lane} and {backlog_count} into template.
func RenderNudge(template, lane string, backlogCount int) string {
	r := strings.NewReplacer(
		"{lane}", lane,
		"{backlog_count}", strconv.Itoa(backlogCount),
	)
	return r.Replace(template)
}

// DeliverNudge writes message into w one byte at a time with delay between
// bytes, then pauses briefly, then sends a CR — the byte-by-byte pacing
// spec §4.5/§9 require so raw-mode line editors don't drop or coalesce a
// bulk write. Grounded on internal/message.deliver's "write, pause, CR"
// shape, generalized to per-byte pacing since spec's nudge model has no
// message queue to pace against idle/interrupt state the way the teacher's
// delivery loop does.
func DeliverNudge(w ByteWriter, message string, delay time.Duration) {
	for i := 0; i < len(message); i++ {
		w.Write(message[i : i+1])
		if delay > 0 && i < len(message)-1 {
			time.Sleep(delay)
		}
	}
	time.Sleep(50 * time.Millisecond)
	w.Write("\r")
}

// ByteWriter is the minimal interface DeliverNudge needs from a pane's PTY
// writer: a byte-range Write that never needs an error return, since a
// failed nudge write is indistinguishable from any other broken-pipe
// condition the pane's reader goroutine already reports as Exited.
type ByteWriter interface {
	Write(s string)
}

// stringWriter adapts an io.Writer (ptysup.Writer) to ByteWriter.
type stringWriter struct {
	w interface{ Write([]byte) (int, error) }
}

func (s stringWriter) Write(str string) {
	s.w.Write([]byte(str))
}

// AsByteWriter wraps an io.Writer-like type for DeliverNudge.
func AsByteWriter(w interface{ Write([]byte) (int, error) }) ByteWriter {
	return stringWriter{w: w}
}
