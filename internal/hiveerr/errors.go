// Package hiveerr classifies the errors hive produces so callers can decide
// whether a failure is fatal at startup, reportable to a single client, or
// safe to log and ignore.
package hiveerr

import "fmt"

// Kind categorizes an error per the error-handling policy: startup errors
// are fatal, runtime child-I/O errors are reported to clients and
// survived, protocol/task parse errors are logged and discarded.
type Kind string

const (
	ConfigInvalid Kind = "config_invalid"
	IoPath        Kind = "io_path"
	SocketBind    Kind = "socket_bind"
	SocketConnect Kind = "socket_connect"
	PtySpawn      Kind = "pty_spawn"
	ProtocolParse Kind = "protocol_parse"
	TaskParse     Kind = "task_parse"
	GitWorktree   Kind = "git_worktree"
	ChildExited   Kind = "child_exited"
	Disconnected  Kind = "disconnected"
)

// Error wraps an underlying cause with a Kind so callers can type-switch on
// the failure category instead of matching on message text.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "bind socket"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Fatal reports whether errors of this kind should abort startup per the
// policy in spec §7: ConfigInvalid, IoPath, SocketBind, PtySpawn, and
// GitWorktree are fatal; everything else is recoverable at runtime.
func (k Kind) Fatal() bool {
	switch k {
	case ConfigInvalid, IoPath, SocketBind, PtySpawn, GitWorktree:
		return true
	default:
		return false
	}
}

// Is reports whether err (or anything it wraps) is a *Error of the given
// Kind.
func Is(err error, kind Kind) bool {
	var he *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			he = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return he != nil && he.Kind == kind
}
