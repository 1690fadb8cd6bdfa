package config

import (
	"log/slog"
	"time"
)

const (
	// DefaultPollInterval is the output pump's poll cadence. Shorter
	// intervals reduce relay latency at the cost of busy-polling.
	DefaultPollInterval = 200 * time.Millisecond

	// DefaultPromptToken is the GHCi prompt set by the standard boot file.
	// It is stripped from output before notification.
	DefaultPromptToken = "tidal> "
)

// Options holds the resolved configuration for a session.
// Populated via the functional options in the root package.
type Options struct {
	// Logger receives debug output. Nil means silent operation.
	Logger *slog.Logger

	// GhciPath is an explicit interpreter path that skips PATH search.
	GhciPath string

	// BootFile is the path to the bootstrap script replayed into a
	// freshly started interpreter. Required for Start.
	BootFile string

	// PollInterval overrides the output pump cadence.
	PollInterval time.Duration

	// PromptToken is stripped from output before notification.
	PromptToken string

	// Cwd is the working directory for the interpreter process.
	Cwd string

	// Env provides additional environment variables for the interpreter.
	Env map[string]string

	// Notifier receives output and fault notifications.
	Notifier Notifier

	// Transport injects a custom transport. Nil spawns a GHCi subprocess.
	Transport Transport
}

// PollIntervalOrDefault returns the configured poll interval, or the
// default when unset.
func (o *Options) PollIntervalOrDefault() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}

	return DefaultPollInterval
}

// PromptTokenOrDefault returns the configured prompt token, or the
// default when unset.
func (o *Options) PromptTokenOrDefault() string {
	if o.PromptToken != "" {
		return o.PromptToken
	}

	return DefaultPromptToken
}
