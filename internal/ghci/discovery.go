// Package ghci locates the GHCi interpreter binary on the local system.
package ghci

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wavemill/tidalbridge/internal/errors"
)

// VersionProbeTimeout bounds the best-effort version probe.
const VersionProbeTimeout = 2 * time.Second

// Config holds configuration for interpreter discovery.
type Config struct {
	// GhciPath is an explicit interpreter path that skips PATH search.
	// If empty, discovery searches PATH and common install locations.
	GhciPath string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the GHCi binary.
type Discoverer interface {
	// Discover locates the interpreter binary.
	// Returns the path to the binary or a GhciNotFoundError.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new interpreter discoverer.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the GHCi binary and probes its version.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	d.log.Debug("Discovering GHCi binary")

	path, err := d.findGhci()
	if err != nil {
		d.log.Error("Failed to find GHCi", "error", err)

		return "", err
	}

	d.log.Debug("Found GHCi binary", "ghci_path", path)

	d.probeVersion(ctx, path)

	return path, nil
}

// findGhci locates the GHCi binary.
func (d *discoverer) findGhci() (string, error) {
	// If explicit path provided, use it and only it
	if d.cfg.GhciPath != "" {
		d.log.Debug("Using explicit GHCi path", "ghci_path", d.cfg.GhciPath)

		if _, err := os.Stat(d.cfg.GhciPath); err == nil {
			return d.cfg.GhciPath, nil
		}

		d.log.Debug("Explicit GHCi path not found", "ghci_path", d.cfg.GhciPath)

		return "", &errors.GhciNotFoundError{SearchedPaths: []string{d.cfg.GhciPath}}
	}

	searchedPaths := make([]string, 0, 4)

	// Search in PATH
	if path, err := exec.LookPath("ghci"); err == nil {
		d.log.Debug("Found 'ghci' in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	// Check common install locations
	commonPaths := []string{
		"/usr/local/bin/ghci",
		"/usr/bin/ghci",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(homeDir, ".ghcup/bin/ghci"))
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)

		if _, err := os.Stat(path); err == nil {
			d.log.Debug("Found GHCi at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("GHCi not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.GhciNotFoundError{SearchedPaths: searchedPaths}
}

// probeVersion logs the interpreter version. Failures are silently ignored:
// the probe exists for diagnostics only.
func (d *discoverer) probeVersion(ctx context.Context, path string) {
	ctx, cancel := context.WithTimeout(ctx, VersionProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--numeric-version")

	output, err := cmd.Output()
	if err != nil {
		d.log.Debug("GHCi version probe failed", "error", err)

		return
	}

	d.log.Debug("GHCi version", "version", strings.TrimSpace(string(output)))
}
