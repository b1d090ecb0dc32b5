// Package hiveserver holds the persistent server's authoritative state: the
// pane vector, per-client broadcast fan-out, the single serializing event
// loop, and the client-command/nudge/attach semantics of spec §4.5.
// Grounded on the teacher's single-serializing-loop pattern
// (Session.RunDaemon's accept/read/nudge fan-in), generalized from "one
// child, one attach client" to "N panes, M clients".
package hiveserver

import (
	"time"

	"hive/internal/config"
	"hive/internal/ptysup"
	"hive/internal/termbuf"
	"hive/internal/wire"
	"hive/internal/workspace"
)

// PaneType distinguishes the Architect pane from Worker panes over the
// wire (spec §3's Pane.role_tag).
type PaneType string

const (
	PaneArchitect PaneType = "architect"
	PaneWorker    PaneType = "worker"
)

// Pane is one supervised child process, owned exclusively by the Server
// for its whole lifetime (or until the child exits — a pane is never
// removed on exit, only marked so, per spec §3).
type Pane struct {
	ID         string
	Type       PaneType
	Lane       string
	Branch     *workspace.Branch
	Group      string
	Visible    bool
	Backend    config.Backend
	WorkingDir string

	Buffer     *termbuf.Buffer
	RawHistory *termbuf.RawHistory

	PTY    *ptysup.Handle
	Exited bool

	rows, cols int

	// nudgeCh feeds this pane's dedicated delivery goroutine (see
	// StartNudgeDelivery): the byte-by-byte pacing in DeliverNudge must
	// never run on the event loop, so each queued nudge is handed off
	// here instead of delivered inline.
	nudgeCh chan nudgeJob
}

// nudgeJob is one queued nudge delivery for a pane's delivery goroutine.
type nudgeJob struct {
	message string
	delay   time.Duration
	onSent  func()
}

// nudgeQueueDepth bounds how many undelivered nudges a pane's delivery
// goroutine will buffer; a pane that's already behind on delivering one
// nudge drops further ones rather than growing without bound, the same
// backpressure policy spec §5 applies to client outbound queues.
const nudgeQueueDepth = 4

// StartNudgeDelivery starts the pane's dedicated delivery goroutine,
// grounded on the teacher's internal/message.RunDelivery: one goroutine
// per supervised child drains its own queue and writes to its own PTY, so
// the byte-by-byte pacing in DeliverNudge never runs on the shared event
// loop. Must be called once the pane's PTY is set, before QueueNudge is
// used; calling it twice replaces the queue (and therefore the goroutine
// draining it), so callers should only call it once per spawn.
func (p *Pane) StartNudgeDelivery() {
	ch := make(chan nudgeJob, nudgeQueueDepth)
	p.nudgeCh = ch
	go func() {
		for job := range ch {
			if p.PTY == nil {
				continue
			}
			DeliverNudge(AsByteWriter(p.PTY.Writer), job.message, job.delay)
			if job.onSent != nil {
				job.onSent()
			}
		}
	}()
}

// QueueNudge hands one rendered nudge message off to the pane's delivery
// goroutine. It never blocks: a pane whose delivery goroutine is still
// draining a backlog silently drops the new request rather than stalling
// the event loop that called it.
func (p *Pane) QueueNudge(message string, delay time.Duration, onSent func()) {
	if p.nudgeCh == nil {
		return
	}
	select {
	case p.nudgeCh <- nudgeJob{message: message, delay: delay, onSent: onSent}:
	default:
	}
}

// NewPane constructs a Pane for a resolved workspace.Worker or the
// Architect, without spawning its process (the caller does that and fills
// in PTY, Buffer, and RawHistory once the child is running).
func NewPane(id string, typ PaneType, w workspace.Worker, rows, cols int) *Pane {
	return &Pane{
		ID:         id,
		Type:       typ,
		Lane:       w.Lane,
		Branch:     w.Branch,
		Group:      w.Group,
		Visible:    true,
		Backend:    w.Backend,
		WorkingDir: w.WorkingDir,
		rows:       rows,
		cols:       cols,
	}
}

// Info converts a Pane to its wire representation.
func (p *Pane) Info() wire.PaneInfo {
	branch := ""
	if p.Branch != nil {
		branch = p.Branch.Local
	}
	return wire.PaneInfo{
		ID:      p.ID,
		Type:    string(p.Type),
		Lane:    p.Lane,
		Branch:  branch,
		Group:   p.Group,
		Visible: p.Visible,
	}
}
