package errors

import (
	"errors"
	"fmt"
)

// BridgeError is the base interface for all bridge errors.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*GhciNotFoundError)(nil)
	_ BridgeError = (*SpawnError)(nil)
	_ BridgeError = (*BootstrapError)(nil)
	_ BridgeError = (*WriteError)(nil)
	_ BridgeError = (*PumpError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrAlreadyStarted indicates the session has already been started.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotStarted indicates the session was never started.
	ErrNotStarted = errors.New("session not started")

	// ErrStdinClosed indicates the interpreter's stdin has been closed.
	ErrStdinClosed = errors.New("stdin closed")

	// ErrTransportNotConnected indicates the transport is not connected.
	ErrTransportNotConnected = errors.New("transport not connected")
)

// GhciNotFoundError indicates the interpreter binary was not found.
type GhciNotFoundError struct {
	SearchedPaths []string
}

func (e *GhciNotFoundError) Error() string {
	return fmt.Sprintf("ghci not found in: %v", e.SearchedPaths)
}

// IsBridgeError implements BridgeError.
func (e *GhciNotFoundError) IsBridgeError() bool { return true }

// SpawnError indicates the interpreter process failed to launch.
// The session stays stopped; a retry toggle is safe.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn interpreter: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *SpawnError) IsBridgeError() bool { return true }

// BootstrapError indicates the boot file could not be read or replayed.
// Fatal to the start attempt; handled like SpawnError.
type BootstrapError struct {
	Path string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.Path, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *BootstrapError) IsBridgeError() bool { return true }

// WriteError indicates a send to the interpreter's stdin failed.
// Recoverable: the session keeps its current liveness state and a later
// IsRunning check detects death naturally.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to interpreter: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *WriteError) IsBridgeError() bool { return true }

// PumpError indicates the output pump hit an unexpected error while polling.
// The pump terminates; the subprocess handle is left for a later stop or a
// superseding toggle to clean up.
type PumpError struct {
	Stream string // "stdout" or "stderr"
	Err    error
}

func (e *PumpError) Error() string {
	return fmt.Sprintf("output pump (%s): %v", e.Stream, e.Err)
}

func (e *PumpError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *PumpError) IsBridgeError() bool { return true }
