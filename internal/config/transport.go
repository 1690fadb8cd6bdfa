// Package config provides configuration types for the Tidal bridge.
package config

import (
	"context"
	"io"
)

// Transport defines the interface for interpreter communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative interpreter hosts.
//
// The default implementation is REPLTransport which spawns a GHCi
// subprocess. Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the interpreter and wires up its pipes.
	// Called once, before any polling or writing.
	Start(ctx context.Context) error

	// Stdin returns the interpreter's input stream.
	// Returns nil before Start succeeds.
	Stdin() io.WriteCloser

	// PollStdout returns whatever stdout text is currently buffered,
	// possibly empty, without blocking. A non-nil error is the stream's
	// sticky read fault; end-of-stream is not an error.
	PollStdout() (string, error)

	// PollStderr is PollStdout for the stderr stream.
	PollStderr() (string, error)

	// Alive reports whether the OS still considers the interpreter
	// process alive. Never derived from a cached flag.
	Alive() bool

	// Close forcibly terminates the interpreter.
	// Safe to call multiple times or on an already-dead process.
	Close() error
}

// Notifier receives output and fault notifications for the host UI.
// Implementations must be safe for calls from the pump goroutine.
type Notifier interface {
	// OnInfo delivers interpreter stdout text.
	OnInfo(text string)

	// OnWarning delivers interpreter stderr text.
	OnWarning(text string)

	// OnError delivers faults (write failures, pump faults, start errors).
	OnError(err error)
}
