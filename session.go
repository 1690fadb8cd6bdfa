package tidalbridge

import (
	"context"
)

// Session is one lifecycle of a managed interpreter subprocess, from spawn
// to termination.
//
// Sessions are single-use: after Stop, create a new session (normally via
// Registry.Toggle rather than directly).
//
// Example usage:
//
//	session := tidalbridge.NewSession(
//	    tidalbridge.WithBootFile("BootTidal.hs"),
//	    tidalbridge.WithNotifier(myNotifier),
//	)
//
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Stop()
//
//	if err := session.Send(`d1 $ sound "bd"`); err != nil {
//	    // write failure; the session may have died, IsRunning will tell
//	}
type Session interface {
	// Start spawns the interpreter, starts the output pump, and replays
	// the configured boot file line by line before returning.
	// Returns GhciNotFoundError or SpawnError if the interpreter cannot
	// launch, BootstrapError if the boot file is unreadable, and
	// ErrAlreadyStarted on reuse. On any error the session is Stopped
	// and a retry is safe.
	Start(ctx context.Context) error

	// Stop closes the interpreter's stdin and forcibly terminates the
	// process. Idempotent: stopping an already-stopped session is a
	// no-op and never fails. The pump is not joined; its own liveness
	// check ends it.
	Stop() error

	// IsRunning reports whether the interpreter process is alive, as
	// observed by the OS. Never served from a cached flag, so an
	// unexpected interpreter death is visible immediately.
	IsRunning() bool

	// Send normalizes line for the REPL and writes it to the
	// interpreter, flushing before returning. When the session is not
	// running this is a silent no-op. A broken pipe returns WriteError.
	Send(line string) error

	// ID returns the session's identifier, used for log correlation.
	ID() string
}

// NewSession creates a session with the given options. The interpreter is
// not spawned until Start.
func NewSession(opts ...Option) Session {
	return newTidalSession(applyOptions(opts))
}
