// Package bootstrap reads the interpreter's boot script.
package bootstrap

import (
	"bufio"
	"fmt"
	"os"
)

// Load reads the boot file at path and returns its lines in file order,
// including blank lines: the script is replayed verbatim, one line per
// send. An unreadable file is an error; a start attempt must not proceed
// with a half-primed interpreter.
func Load(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("no boot file configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read boot file: %w", err)
	}

	return lines, nil
}
