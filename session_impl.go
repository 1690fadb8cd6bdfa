package tidalbridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/wavemill/tidalbridge/internal/bootstrap"
	"github.com/wavemill/tidalbridge/internal/config"
	"github.com/wavemill/tidalbridge/internal/errors"
	"github.com/wavemill/tidalbridge/internal/pump"
	"github.com/wavemill/tidalbridge/internal/subprocess"
	"github.com/wavemill/tidalbridge/internal/writer"
)

// sessionState tracks the lifecycle: Stopped -> Starting -> Running ->
// Stopping -> Stopped. Liveness queries never read this; they ask the OS.
type sessionState int

const (
	stateStopped sessionState = iota
	stateStarting
	stateRunning
	stateStopping
)

// tidalSession owns one interpreter subprocess plus its writer and pump.
type tidalSession struct {
	id       string
	log      *slog.Logger
	options  *config.Options
	notifier Notifier

	mu         sync.Mutex
	state      sessionState
	transport  config.Transport
	writer     *writer.Writer
	pumpCancel context.CancelFunc
}

// Compile-time verification that tidalSession implements Session.
var _ Session = (*tidalSession)(nil)

func newTidalSession(options *config.Options) *tidalSession {
	id := ulid.Make().String()

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	notifier := options.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &tidalSession{
		id:       id,
		log:      log.With("component", "session", "session_id", id),
		options:  options,
		notifier: notifier,
	}
}

// ID implements Session.
func (s *tidalSession) ID() string {
	return s.id
}

// Start implements Session.
func (s *tidalSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateStopped {
		return errors.ErrAlreadyStarted
	}

	s.state = stateStarting

	// Read the boot script before spawning: an unreadable file is fatal
	// to the start, and failing first avoids an orphaned interpreter.
	lines, err := bootstrap.Load(s.options.BootFile)
	if err != nil {
		s.state = stateStopped

		return &errors.BootstrapError{Path: s.options.BootFile, Err: err}
	}

	transport := s.options.Transport
	if transport == nil {
		transport = subprocess.NewREPLTransport(s.log, s.options)
	}

	if err := transport.Start(ctx); err != nil {
		s.state = stateStopped

		return err
	}

	s.transport = transport
	s.writer = writer.New(s.log, transport.Stdin())

	// The pump runs until the process dies or a poll faults; stop only
	// signals it, never joins it.
	pumpCtx, cancel := context.WithCancel(context.Background())
	s.pumpCancel = cancel

	p := pump.New(s.log, s.options.PollIntervalOrDefault())
	token := s.options.PromptTokenOrDefault()

	go p.Run(pumpCtx, transport, pump.Callbacks{
		OnStdout: func(text string) {
			if msg := CleanOutput(text, token); msg != "" {
				s.notifier.OnInfo(msg)
			}
		},
		OnStderr: func(text string) {
			if msg := CleanOutput(text, token); msg != "" {
				s.notifier.OnWarning(msg)
			}
		},
		OnFault: func(err error) {
			s.notifier.OnError(err)
		},
	})

	// Prime the interpreter with the boot script, in file order, before
	// the session accepts user input.
	for _, line := range lines {
		if err := s.writer.Send(line); err != nil {
			s.log.Error("Boot replay failed", "error", err)
			s.teardownLocked()

			return &errors.BootstrapError{Path: s.options.BootFile, Err: err}
		}
	}

	s.state = stateRunning
	s.log.Info("Session running", "boot_lines", len(lines))

	return nil
}

// Stop implements Session.
func (s *tidalSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateStopped {
		return nil
	}

	s.state = stateStopping
	s.log.Info("Stopping session")
	s.teardownLocked()

	return nil
}

// teardownLocked releases the writer and terminates the subprocess.
// Caller holds s.mu.
func (s *tidalSession) teardownLocked() {
	if s.writer != nil {
		_ = s.writer.Close()
		s.writer = nil
	}

	if s.pumpCancel != nil {
		s.pumpCancel()
		s.pumpCancel = nil
	}

	if s.transport != nil {
		_ = s.transport.Close()
		s.transport = nil
	}

	s.state = stateStopped
}

// IsRunning implements Session.
func (s *tidalSession) IsRunning() bool {
	s.mu.Lock()
	transport := s.transport
	s.mu.Unlock()

	return transport != nil && transport.Alive()
}

// Send implements Session.
func (s *tidalSession) Send(line string) error {
	s.mu.Lock()
	transport := s.transport
	w := s.writer
	s.mu.Unlock()

	// The common case of a send action with no live interpreter behind
	// it: silently drop rather than error at the user.
	if transport == nil || w == nil || !transport.Alive() {
		s.log.Debug("Send ignored, session not running")

		return nil
	}

	return w.Send(line)
}
