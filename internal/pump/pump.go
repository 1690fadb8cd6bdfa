// Package pump drains the interpreter's output streams on a fixed cadence.
package pump

import (
	"context"
	"log/slog"
	"time"

	"github.com/wavemill/tidalbridge/internal/config"
	"github.com/wavemill/tidalbridge/internal/errors"
)

// Callbacks receive drained output and the terminal fault, if any.
// OnFault is invoked at most once, after which the pump has terminated.
type Callbacks struct {
	OnStdout func(text string)
	OnStderr func(text string)
	OnFault  func(err error)
}

// Pump is the background loop draining a transport's output streams.
//
// One pump goroutine serves both streams sequentially, so output delivered
// to each callback preserves the order the interpreter produced it. The
// pump never restarts itself; a fresh session brings a fresh pump.
type Pump struct {
	log      *slog.Logger
	interval time.Duration
}

// New creates a pump polling at the given interval.
func New(log *slog.Logger, interval time.Duration) *Pump {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}

	return &Pump{
		log:      log.With("component", "pump"),
		interval: interval,
	}
}

// Run loops until the transport's process dies, a poll faults, or ctx is
// cancelled. Each cycle polls stdout then stderr, forwarding non-empty
// batches. A poll fault is reported through cb.OnFault exactly once and
// ends the loop; the subprocess handle is deliberately left alone for a
// later stop or superseding toggle to clean up.
//
// Run is meant to be called on its own goroutine; it never panics across
// the boundary.
func (p *Pump) Run(ctx context.Context, tr config.Transport, cb Callbacks) {
	p.log.Debug("Pump started", "interval", p.interval)
	defer p.log.Debug("Pump stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if fault := p.cycle(tr, cb); fault != nil {
			p.log.Error("Pump fault", "error", fault)

			if cb.OnFault != nil {
				cb.OnFault(fault)
			}

			return
		}

		// Polling before the liveness check drains output the process
		// produced right before dying.
		if !tr.Alive() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle polls both streams once, forwarding non-empty batches.
// Returns the fault that should terminate the pump, or nil.
func (p *Pump) cycle(tr config.Transport, cb Callbacks) error {
	out, err := tr.PollStdout()
	if out != "" && cb.OnStdout != nil {
		cb.OnStdout(out)
	}

	if err != nil {
		return &errors.PumpError{Stream: "stdout", Err: err}
	}

	errText, err := tr.PollStderr()
	if errText != "" && cb.OnStderr != nil {
		cb.OnStderr(errText)
	}

	if err != nil {
		return &errors.PumpError{Stream: "stderr", Err: err}
	}

	return nil
}
