// Package writer serializes outbound lines to the interpreter's stdin.
package writer

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/wavemill/tidalbridge/internal/errors"
)

// Writer sends normalized lines to the interpreter's input stream.
//
// Writes are serialized by a mutex and flushed individually: the
// interpreter infers command boundaries from flush-separated writes, so
// each send must be visible before the next write begins.
type Writer struct {
	log *slog.Logger

	mu     sync.Mutex
	w      io.WriteCloser
	buf    *bufio.Writer
	closed bool
}

// New creates a writer over the interpreter's stdin stream.
func New(log *slog.Logger, w io.WriteCloser) *Writer {
	return &Writer{
		log: log.With("component", "writer"),
		w:   w,
		buf: bufio.NewWriter(w),
	}
}

// Normalize applies the REPL newline translation: a line-feed inside a
// logical fragment becomes a carriage-return (the interpreter continues the
// same command), and what was originally a blank line (now a doubled
// carriage-return) becomes a single line-feed (end of command, execute).
func Normalize(fragment string) string {
	s := strings.ReplaceAll(fragment, "\n", "\r")
	s = strings.ReplaceAll(s, "\r\r", "\n")

	return s
}

// Send normalizes line, appends one line-feed terminator, writes it to the
// input stream and flushes immediately. Returns ErrStdinClosed after Close,
// or a WriteError if the pipe is broken.
func (w *Writer) Send(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.ErrStdinClosed
	}

	payload := Normalize(line) + "\n"

	if _, err := w.buf.WriteString(payload); err != nil {
		w.log.Error("Failed to write line", "error", err)

		return &errors.WriteError{Err: err}
	}

	if err := w.buf.Flush(); err != nil {
		w.log.Error("Failed to flush line", "error", err)

		return &errors.WriteError{Err: err}
	}

	w.log.Debug("Line sent", "bytes", len(payload))

	return nil
}

// Close closes the input stream. It never fails: closing an already-closed
// stream is a no-op, and underlying close errors are logged and dropped so
// the stop path cannot be derailed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	if err := w.w.Close(); err != nil {
		w.log.Debug("Close returned error", "error", err)
	}

	return nil
}
