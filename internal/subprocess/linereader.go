package subprocess

import (
	"io"
	"strings"
	"sync"
)

const (
	// readChunkSize is the size of each read from the underlying stream.
	readChunkSize = 4 * 1024

	// maxBufferSize caps the poll buffer. The buffer stops growing past
	// this limit so a never-polled stream cannot exhaust memory; excess
	// output is dropped, not blocked on.
	maxBufferSize = 10 * 1024 * 1024
)

// LineReader is a non-blocking incremental reader over a byte stream.
//
// Fill runs on its own goroutine and appends whatever the stream yields
// into an internal buffer. Poll drains the buffer and returns immediately
// with the available text, possibly empty. An empty result is a normal
// outcome, not a failure.
type LineReader struct {
	r io.Reader

	mu  sync.Mutex
	buf strings.Builder
	err error // sticky read fault, io.EOF excluded
}

// NewLineReader creates a reader over r. Call Fill on a goroutine to begin
// draining the stream.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// Fill reads from the stream until it ends, buffering everything for Poll.
// End-of-stream is a normal return; any other read error is recorded as the
// sticky fault retrievable via Poll. Always returns nil so it can run under
// an errgroup without tearing down sibling readers.
func (lr *LineReader) Fill() error {
	chunk := make([]byte, readChunkSize)

	for {
		n, err := lr.r.Read(chunk)
		if n > 0 {
			lr.mu.Lock()

			if lr.buf.Len() < maxBufferSize {
				lr.buf.Write(chunk[:n])
			}

			lr.mu.Unlock()
		}

		if err != nil {
			if err != io.EOF {
				lr.mu.Lock()
				lr.err = err
				lr.mu.Unlock()
			}

			return nil
		}
	}
}

// Poll returns the buffered text accumulated since the last call, without
// blocking. Once the buffer is drained, a sticky read fault (if any) is
// returned alongside the final text.
func (lr *LineReader) Poll() (string, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	text := lr.buf.String()
	lr.buf.Reset()

	return text, lr.err
}
