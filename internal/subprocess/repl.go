// Package subprocess spawns and supervises the GHCi interpreter process.
package subprocess

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wavemill/tidalbridge/internal/config"
	"github.com/wavemill/tidalbridge/internal/errors"
	"github.com/wavemill/tidalbridge/internal/ghci"
)

// REPLTransport implements Transport by spawning a GHCi subprocess.
//
// Stdout and stderr are each drained by a LineReader goroutine; the process
// is reaped by a waiter goroutine once both readers finish, per the os/exec
// pipe rules. Liveness is observed through the waiter, never cached.
type REPLTransport struct {
	log     *slog.Logger
	options *config.Options

	mu       sync.Mutex
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stdout   *LineReader
	stderr   *LineReader
	exited   chan struct{}
	waitErr  error
	closing  bool
	ghciPath string
}

// Compile-time verification that REPLTransport implements Transport.
var _ config.Transport = (*REPLTransport)(nil)

// NewREPLTransport creates a transport for the given options.
// Interpreter discovery is deferred to Start.
func NewREPLTransport(log *slog.Logger, options *config.Options) *REPLTransport {
	return &REPLTransport{
		log:     log.With("component", "repl_transport"),
		options: options,
	}
}

// Start discovers the interpreter binary and spawns it with stdin, stdout
// and stderr pipes owned exclusively by this transport.
//
// Returns GhciNotFoundError if the binary cannot be located, or SpawnError
// if the process fails to launch.
func (t *REPLTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.Info("Starting GHCi subprocess")

	discoverer := ghci.NewDiscoverer(&ghci.Config{
		GhciPath: t.options.GhciPath,
		Logger:   t.log,
	})

	path, err := discoverer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover ghci: %w", err)
	}

	t.ghciPath = path

	// The interpreter is launched with no arguments; the boot file primes
	// it through stdin after start.
	//nolint:gosec // G204: launching a user-configured interpreter is the point
	cmd := exec.Command(t.ghciPath)
	cmd.Dir = t.options.Cwd
	cmd.Env = buildEnvironment(t.options.Env)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.log.Error("Failed to create stderr pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start GHCi process", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = NewLineReader(stdout)
	t.stderr = NewLineReader(stderr)
	t.exited = make(chan struct{})

	// Drain both pipes concurrently; reap the process only after the
	// readers are done (Wait closes the pipes out from under them).
	var eg errgroup.Group

	eg.Go(t.stdout.Fill)
	eg.Go(t.stderr.Fill)

	go func() {
		_ = eg.Wait()

		err := cmd.Wait()

		t.mu.Lock()
		t.waitErr = err
		closing := t.closing
		t.mu.Unlock()

		if err != nil && !closing {
			t.log.Warn("GHCi process exited with error", "error", err)
		} else {
			t.log.Debug("GHCi process exited")
		}

		close(t.exited)
	}()

	t.log.Info("GHCi subprocess started", "pid", cmd.Process.Pid, "ghci_path", t.ghciPath)

	return nil
}

// Stdin returns the interpreter's input stream, or nil before Start.
func (t *REPLTransport) Stdin() io.WriteCloser {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stdin
}

// PollStdout returns currently buffered stdout text without blocking.
func (t *REPLTransport) PollStdout() (string, error) {
	t.mu.Lock()
	reader := t.stdout
	t.mu.Unlock()

	if reader == nil {
		return "", errors.ErrTransportNotConnected
	}

	return reader.Poll()
}

// PollStderr returns currently buffered stderr text without blocking.
func (t *REPLTransport) PollStderr() (string, error) {
	t.mu.Lock()
	reader := t.stderr
	t.mu.Unlock()

	if reader == nil {
		return "", errors.ErrTransportNotConnected
	}

	return reader.Poll()
}

// Alive reports whether the interpreter process is still running, as
// observed by the OS through the waiter goroutine.
func (t *REPLTransport) Alive() bool {
	t.mu.Lock()
	exited := t.exited
	started := t.cmd != nil
	t.mu.Unlock()

	if !started {
		return false
	}

	select {
	case <-exited:
		return false
	default:
		return true
	}
}

// Close forcibly terminates the interpreter with SIGKILL. Safe to call
// multiple times or on an already-dead process; there is no cooperative
// shutdown handshake.
func (t *REPLTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true

	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}

	t.log.Debug("Killing GHCi process", "pid", t.cmd.Process.Pid)

	if err := t.cmd.Process.Kill(); err != nil && err != os.ErrProcessDone {
		// Already-reaped processes report ErrProcessDone through a
		// wrapped error on some platforms; either way the process is
		// gone, which is what Close is for.
		t.log.Debug("Kill returned error", "error", err)
	}

	return nil
}

// buildEnvironment merges extra variables over the inherited environment.
func buildEnvironment(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}

	return env
}
