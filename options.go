package tidalbridge

import (
	"log/slog"
	"time"

	"github.com/wavemill/tidalbridge/internal/config"
)

// Option configures a session or registry using the functional options
// pattern.
type Option func(*config.Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithGhciPath sets the explicit path to the GHCi binary.
// If not set, the binary is searched in PATH and common install locations.
func WithGhciPath(path string) Option {
	return func(o *config.Options) {
		o.GhciPath = path
	}
}

// WithBootFile sets the path to the bootstrap script replayed into a
// freshly started interpreter. Required for Start.
func WithBootFile(path string) Option {
	return func(o *config.Options) {
		o.BootFile = path
	}
}

// WithPollInterval overrides the output pump's poll cadence.
// The default is 200ms; shorter intervals reduce relay latency at the
// cost of busy-polling.
func WithPollInterval(interval time.Duration) Option {
	return func(o *config.Options) {
		o.PollInterval = interval
	}
}

// WithPromptToken sets the interpreter prompt token stripped from output
// before notification. Defaults to "tidal> ".
func WithPromptToken(token string) Option {
	return func(o *config.Options) {
		o.PromptToken = token
	}
}

// WithCwd sets the working directory for the interpreter process.
func WithCwd(cwd string) Option {
	return func(o *config.Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the interpreter.
func WithEnv(env map[string]string) Option {
	return func(o *config.Options) {
		o.Env = env
	}
}

// WithNotifier sets the notification sink for interpreter output and
// faults. If not set, notifications are discarded.
func WithNotifier(n Notifier) Option {
	return func(o *config.Options) {
		o.Notifier = n
	}
}

// WithTransport injects a custom transport implementation.
// If not set, sessions spawn a GHCi subprocess.
func WithTransport(transport config.Transport) Option {
	return func(o *config.Options) {
		o.Transport = transport
	}
}
