package tidalbridge

import "github.com/wavemill/tidalbridge/internal/errors"

// Re-export error types from internal package

// GhciNotFoundError indicates the interpreter binary was not found.
type GhciNotFoundError = errors.GhciNotFoundError

// SpawnError indicates the interpreter process failed to launch.
type SpawnError = errors.SpawnError

// BootstrapError indicates the boot file could not be read or replayed.
type BootstrapError = errors.BootstrapError

// WriteError indicates a send to the interpreter's stdin failed.
type WriteError = errors.WriteError

// PumpError indicates the output pump hit an unexpected error while polling.
type PumpError = errors.PumpError

// BridgeError is the base interface for all bridge errors.
type BridgeError = errors.BridgeError

// Re-export sentinel errors from internal package.
var (
	// ErrAlreadyStarted indicates the session has already been started.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrNotStarted indicates the session was never started.
	ErrNotStarted = errors.ErrNotStarted

	// ErrStdinClosed indicates the interpreter's stdin has been closed.
	ErrStdinClosed = errors.ErrStdinClosed
)
