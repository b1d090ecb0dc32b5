// Client implements spec §4.6's reconnecting socket client: dial, decode
// newline-delimited JSON frames, queue Output frames that arrive before the
// first State, and transparently reconnect once on a broken-pipe write or
// an EOF read. Grounded on the teacher's internal/session/attach.go
// (frameWriter/frameInputReader swap-in-on-attach shape) and
// internal/daemon.ForkDaemon's socket-wait-and-retry pattern, generalized
// from "attach once" to "reconnect transparently mid-session".
package tui

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"hive/internal/wire"
)

// Hooks are the callbacks Client invokes as frames arrive. All are called
// from the single goroutine running Run; callers needing to mutate shared
// UI state from here don't need their own locking as long as they don't
// also mutate it from another goroutine.
type Hooks struct {
	OnState      func(wire.StateMsg)
	OnOutput     func(wire.OutputMsg)
	OnPaneExited func(wire.PaneExitedMsg)
	OnError      func(wire.ErrorMsg)
	OnDisconnect func(err error)
}

// Client is a single logical connection to a hive server socket, with
// transparent one-shot reconnection per spec §4.6.
type Client struct {
	sockPath string
	hooks    Hooks

	mu        sync.Mutex
	conn      net.Conn
	lr        *wire.LineReader
	gotState  bool
	queued    []wire.OutputMsg // Output frames for panes not yet announced by State
}

// Dial connects to sockPath and returns a ready Client.
func Dial(sockPath string, hooks Hooks) (*Client, error) {
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return nil, err
	}
	return &Client{
		sockPath: sockPath,
		hooks:    hooks,
		conn:     conn,
		lr:       wire.NewLineReader(conn),
	}, nil
}

// Run reads frames, dispatching each to the matching Hooks callback. Every
// EOF or closed-connection read triggers a reconnect; Run returns, after
// calling OnDisconnect, only when that redial fails.
func (c *Client) Run() {
	for {
		env, err := c.lr.Next()
		if err != nil {
			if err == io.EOF || isNetClosed(err) {
				if !c.reconnect() {
					c.hooks.OnDisconnect(err)
					return
				}
				continue
			}
			// Unparseable line (spec §4.6/§7): discard, keep reading.
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env wire.Envelope) {
	switch env.Kind {
	case wire.KindState:
		var msg wire.StateMsg
		if decodeInto(env, &msg) {
			c.mu.Lock()
			c.gotState = true
			queued := c.queued
			c.queued = nil
			c.mu.Unlock()

			if c.hooks.OnState != nil {
				c.hooks.OnState(msg)
			}
			for _, q := range queued {
				if c.hooks.OnOutput != nil {
					c.hooks.OnOutput(q)
				}
			}
		}

	case wire.KindOutput:
		var msg wire.OutputMsg
		if !decodeInto(env, &msg) {
			return
		}
		c.mu.Lock()
		seen := c.gotState
		if !seen {
			c.queued = append(c.queued, msg)
		}
		c.mu.Unlock()
		if seen && c.hooks.OnOutput != nil {
			c.hooks.OnOutput(msg)
		}

	case wire.KindPaneExited:
		var msg wire.PaneExitedMsg
		if decodeInto(env, &msg) && c.hooks.OnPaneExited != nil {
			c.hooks.OnPaneExited(msg)
		}

	case wire.KindError:
		var msg wire.ErrorMsg
		if decodeInto(env, &msg) && c.hooks.OnError != nil {
			c.hooks.OnError(msg)
		}
	}
}

// Send encodes and writes one command frame. On a broken-pipe write
// failure it reconnects once and retries the write, per spec §4.6.
func (c *Client) Send(kind wire.Kind, payload any) error {
	line, err := wire.Encode(kind, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if _, err := conn.Write(line); err != nil {
		if !isBrokenPipe(err) {
			return err
		}
		if !c.reconnect() {
			return err
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
		_, err = conn.Write(line)
		return err
	}
	return nil
}

// reconnect dials sockPath again, swapping in a fresh connection and line
// reader (clearing any partial line state per spec §4.6). Returns false if
// the redial itself fails.
func (c *Client) reconnect() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return false
	}
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.lr = wire.NewLineReader(conn)
	c.gotState = false
	c.mu.Unlock()
	return true
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func isBrokenPipe(err error) bool {
	return err != nil && strings.Contains(err.Error(), "broken pipe")
}

func isNetClosed(err error) bool {
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

func decodeInto(env wire.Envelope, v any) bool {
	if len(env.Payload) == 0 {
		return true
	}
	return wire.DecodePayload(env.Payload, v) == nil
}
