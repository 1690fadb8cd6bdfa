package tidalbridge

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// hushCommand silences all running patterns in the interpreter.
const hushCommand = "hush"

// ToggleResult reports which transition a Toggle performed.
type ToggleResult string

const (
	// ToggleStarted means a new session was spawned.
	ToggleStarted ToggleResult = "started"
	// ToggleStopped means the running session was terminated.
	ToggleStopped ToggleResult = "stopped"
)

// Registry is the process-wide single-slot holder for the active session.
//
// All lifecycle mutation goes through Toggle, which holds one mutex for
// the whole stop-or-start decision and transition, so rapid double-triggers
// of the same user action cannot race two interpreters into existence.
//
// Construct one Registry at process start and pass it to all call sites;
// it replaces ambient global session state.
type Registry struct {
	log      *slog.Logger
	notifier Notifier

	// newSession is swappable in tests.
	newSession func() Session

	mu      sync.Mutex
	current Session
}

// NewRegistry creates a registry. The options are applied to every session
// the registry constructs.
func NewRegistry(opts ...Option) *Registry {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	notifier := options.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Registry{
		log:      log.With("component", "registry"),
		notifier: notifier,
		newSession: func() Session {
			return NewSession(opts...)
		},
	}
}

// Toggle atomically swaps the session slot: if a session is running it is
// stopped, otherwise a fresh session is constructed and started. Exactly
// one transition happens per call; a concurrent Toggle observes the
// post-transition state.
//
// Start failures are reported through the Notifier as well as returned,
// and leave the registry empty so a retry toggle is safe.
func (r *Registry) Toggle(ctx context.Context) (ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.IsRunning() {
		_ = r.current.Stop()
		r.current = nil

		r.log.Info("Session stopped")
		r.notifier.OnInfo("tidal stopped")

		return ToggleStopped, nil
	}

	// A dead-but-present session (e.g. after a pump fault or an
	// interpreter crash) is superseded here.
	if r.current != nil {
		_ = r.current.Stop()
		r.current = nil
	}

	session := r.newSession()

	if err := session.Start(ctx); err != nil {
		r.log.Error("Session start failed", "error", err)
		r.notifier.OnError(err)

		return "", err
	}

	r.current = session

	r.log.Info("Session started", "session_id", session.ID())
	r.notifier.OnInfo("tidal started")

	return ToggleStarted, nil
}

// Current returns the active session, or nil. A plain lookup with no
// lifecycle side effects.
func (r *Registry) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// SendText relays a user-selected text fragment to the active session.
// Blank fragments are silently dropped before reaching the core: no write,
// no notification. With no active session this is a no-op; write failures
// go to the Notifier, never to the caller.
func (r *Registry) SendText(raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}

	session := r.Current()
	if session == nil {
		return
	}

	if err := session.Send(raw); err != nil {
		r.log.Warn("Send failed", "error", err)
		r.notifier.OnError(err)
	}
}

// Hush sends the literal "hush" command, silencing all interpreter output.
func (r *Registry) Hush() {
	r.SendText(hushCommand)
}
