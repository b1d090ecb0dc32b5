package hiveserver

import (
	"encoding/json"
	"io"
	"net"
	"time"

	"hive/internal/hiveerr"
	"hive/internal/ptysup"
	"hive/internal/wire"
)

// clientHandle is one connected socket client: its id, its connection, and
// the outbound queue its writer goroutine drains. Only the event loop
// reads or mutates the Server's clients map; the accept loop and the
// per-connection goroutines only ever post onto clientEvents.
type clientHandle struct {
	id   string
	conn net.Conn
	out  chan []byte
}

const clientOutBuffer = 256

type clientEventKind int

const (
	ceAttach clientEventKind = iota
	ceMessage
	ceDisconnect
)

// clientEvent is what client-owned goroutines post to the event loop: a
// new connection, a decoded line, or a connection going away.
type clientEvent struct {
	kind     clientEventKind
	client   *clientHandle
	clientID string
	envelope wire.Envelope
}

// acceptLoop accepts connections until the listener is closed (which Run's
// shutdown path does), spawning a reader and a writer goroutine per
// client and handing both ends to the event loop via clientEvents.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		ch := &clientHandle{id: newClientID(), conn: conn, out: make(chan []byte, clientOutBuffer)}
		s.clientEvents <- clientEvent{kind: ceAttach, client: ch}
		go s.writeLoop(ch)
		go s.readLoop(ch)
	}
}

func (s *Server) writeLoop(ch *clientHandle) {
	for data := range ch.out {
		if _, err := ch.conn.Write(data); err != nil {
			s.clientEvents <- clientEvent{kind: ceDisconnect, clientID: ch.id}
			return
		}
	}
}

func (s *Server) readLoop(ch *clientHandle) {
	lr := wire.NewLineReader(ch.conn)
	for {
		env, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unparseable line, per spec §4.6/§7: skip it, keep the
			// connection alive.
			continue
		}
		s.clientEvents <- clientEvent{kind: ceMessage, clientID: ch.id, envelope: env}
	}
	s.clientEvents <- clientEvent{kind: ceDisconnect, clientID: ch.id}
}

func (s *Server) handleClientEvent(ce clientEvent) {
	switch ce.kind {
	case ceAttach:
		s.clients[ce.client.id] = ce.client
		s.logger.ClientAttached(ce.client.id)
		s.send(ce.client, wire.KindState, s.stateMsg())
		s.replayHistory(ce.client)

	case ceDisconnect:
		id := ce.clientID
		if ce.client != nil {
			id = ce.client.id
		}
		if c, ok := s.clients[id]; ok {
			close(c.out)
			delete(s.clients, id)
			s.logger.ClientDetached(id)
		}

	case ceMessage:
		s.handleCommand(ce.clientID, ce.envelope)
	}
}

func (s *Server) replayHistory(c *clientHandle) {
	for _, p := range s.Panes {
		if p.RawHistory == nil {
			continue
		}
		if data := p.RawHistory.Bytes(); len(data) > 0 {
			s.send(c, wire.KindOutput, wire.OutputMsg{PaneID: p.ID, Data: data})
		}
	}
}

// send encodes and enqueues a frame for one client. A client whose
// outbound queue is already full is presumed stuck (a dead or wedged
// reader on the other end); the frame is dropped rather than blocking the
// single event loop that every other client and pane depends on.
func (s *Server) send(c *clientHandle, kind wire.Kind, payload any) {
	data, err := wire.Encode(kind, payload)
	if err != nil {
		return
	}
	select {
	case c.out <- data:
	default:
	}
}

func (s *Server) broadcast(kind wire.Kind, payload any) {
	data, err := wire.Encode(kind, payload)
	if err != nil {
		return
	}
	for _, c := range s.clients {
		select {
		case c.out <- data:
		default:
		}
	}
}

func (s *Server) broadcastState() {
	s.broadcast(wire.KindState, s.stateMsg())
}

func (s *Server) handlePaneEvent(ev ptysup.Event) {
	pane := s.findPane(ev.PaneID)
	if pane == nil {
		return
	}

	switch ev.Kind {
	case ptysup.Output:
		if pane.PTY != nil {
			ptysup.RespondToCursorQuery(pane.PTY.Writer, ev.Data)
		}
		pane.Buffer.PushBytes(ev.Data)
		pane.RawHistory.Write(ev.Data)
		s.broadcast(wire.KindOutput, wire.OutputMsg{PaneID: pane.ID, Data: ev.Data})

	case ptysup.Exited:
		pane.Exited = true
		s.broadcast(wire.KindPaneExited, wire.PaneExitedMsg{PaneID: pane.ID})
		s.logger.PaneExited(pane.ID)

	case ptysup.Error:
		frame := []byte("[error] " + ev.Message)
		pane.Buffer.PushBytes(frame)
		pane.RawHistory.Write(frame)
		s.broadcast(wire.KindOutput, wire.OutputMsg{PaneID: pane.ID, Data: frame})
	}
}

// handleCommand dispatches one decoded client message per spec §4.5's
// command table. clientID is unused by most commands; it is threaded
// through for future per-client attribution (e.g. activity-log client_id
// fields on Input).
func (s *Server) handleCommand(clientID string, env wire.Envelope) {
	switch env.Kind {
	case wire.KindInput:
		var msg wire.InputMsg
		if !decode(env, &msg) {
			return
		}
		if pane := s.findPane(msg.PaneID); pane != nil && pane.PTY != nil {
			pane.PTY.Writer.Write(msg.Bytes)
		}

	case wire.KindResize:
		var msg wire.ResizeMsg
		if !decode(env, &msg) {
			return
		}
		for _, ps := range msg.Panes {
			pane := s.findPane(ps.PaneID)
			if pane == nil {
				continue
			}
			if pane.Buffer != nil {
				pane.Buffer.Resize(ps.Rows, ps.Cols)
			}
			if pane.PTY != nil {
				ptysup.Resize(pane.PTY.Master, ps.Rows, ps.Cols)
			}
		}

	case wire.KindNudge:
		var msg wire.NudgeMsg
		if !decode(env, &msg) {
			return
		}
		s.refreshTaskCounts()
		s.runNudge(msg.Worker)

	case wire.KindSetVisibility:
		var msg wire.SetVisibilityMsg
		if !decode(env, &msg) {
			return
		}
		if pane := s.findPane(msg.PaneID); pane != nil {
			pane.Visible = msg.Visible
			s.persistUIState()
			s.broadcastState()
		}

	case wire.KindReorderPanes:
		var msg wire.ReorderPanesMsg
		if !decode(env, &msg) {
			return
		}
		s.Panes = ReorderByIDs(s.Panes, msg.PaneIDs)
		s.persistUIState()
		s.broadcastState()

	case wire.KindSetArchitectLeft:
		var msg wire.SetArchitectLeftMsg
		if !decode(env, &msg) {
			return
		}
		s.ArchitectLeft = msg.Left
		s.persistUIState()
		s.broadcastState()

	case wire.KindLayout:
		var msg wire.LayoutMsg
		if !decode(env, &msg) {
			return
		}
		s.LayoutMode = msg.Mode
		s.persistUIState()
		s.broadcastState()

	case wire.KindDetach:
		// Detach is purely a client-side concern: the client stops
		// reading/rendering and exits. The server has nothing to do.

	case wire.KindShutdown:
		s.Shutdown()

	default:
		s.logger.WatcherParseError(hiveerr.New(hiveerr.ProtocolParse, "unknown kind "+string(env.Kind), nil).Error())
	}
}

func decode(env wire.Envelope, v any) bool {
	if len(env.Payload) == 0 {
		return true
	}
	return json.Unmarshal(env.Payload, v) == nil
}

// runNudge applies the nudge algorithm (spec §4.5) to worker panes. An
// empty target nudges every eligible lane (automatic, triggered by the
// task watcher or a client's unqualified Nudge{}); a non-empty target
// restricts delivery to the pane whose id or lane matches, bypassing the
// in_progress gate (manual nudges always fire while backlog is non-empty).
//
// Delivery itself is hand off to each pane's own delivery goroutine
// (QueueNudge) rather than run here: DeliverNudge's byte-by-byte pacing
// sleeps for the length of the whole message, and runNudge is called
// directly from the event loop's select — the one goroutine spec §5
// requires to handle "at most one event per iteration" without blocking
// on I/O.
func (s *Server) runNudge(target string) {
	manual := target != ""
	delay := time.Duration(s.Cfg.Nudge.EffectiveInterByteDelayMS()) * time.Millisecond
	template := s.Cfg.Nudge.EffectiveTemplate()
	for _, pane := range s.Panes {
		if pane.Type != PaneWorker || pane.Exited || pane.PTY == nil {
			continue
		}
		if manual && pane.ID != target && pane.Lane != target {
			continue
		}
		counts := s.TaskCounts[pane.Lane]
		if !ShouldNudge(counts, manual) {
			continue
		}
		message := RenderNudge(template, pane.Lane, counts.Backlog)
		paneID, lane, backlog := pane.ID, pane.Lane, counts.Backlog
		pane.QueueNudge(message, delay, func() {
			s.logger.NudgeSent(paneID, lane, backlog)
		})
	}
}
