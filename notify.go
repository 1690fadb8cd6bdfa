package tidalbridge

import (
	"log/slog"
	"strings"

	"github.com/wavemill/tidalbridge/internal/config"
)

// Notifier receives interpreter output and fault notifications.
// Implementations must tolerate calls from the pump goroutine.
type Notifier = config.Notifier

// NopNotifier discards all notifications.
type NopNotifier struct{}

// OnInfo implements Notifier.
func (NopNotifier) OnInfo(string) {}

// OnWarning implements Notifier.
func (NopNotifier) OnWarning(string) {}

// OnError implements Notifier.
func (NopNotifier) OnError(error) {}

// Compile-time verification that notifiers implement Notifier.
var (
	_ Notifier = NopNotifier{}
	_ Notifier = (*LogNotifier)(nil)
)

// LogNotifier forwards notifications to a slog.Logger. Useful for headless
// embeddings that have no UI surface.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that logs all notifications.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "notifier")}
}

// OnInfo implements Notifier.
func (n *LogNotifier) OnInfo(text string) {
	n.log.Info("tidal", "output", text)
}

// OnWarning implements Notifier.
func (n *LogNotifier) OnWarning(text string) {
	n.log.Warn("tidal", "output", text)
}

// OnError implements Notifier.
func (n *LogNotifier) OnError(err error) {
	n.log.Error("tidal", "error", err)
}

// CleanOutput strips the interpreter prompt token from text and trims
// surrounding whitespace. An empty result means the batch carried nothing
// worth showing and must be suppressed entirely.
func CleanOutput(text, promptToken string) string {
	if promptToken != "" {
		text = strings.ReplaceAll(text, promptToken, "")
	}

	return strings.TrimSpace(text)
}
