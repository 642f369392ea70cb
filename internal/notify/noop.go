package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notices. It is used
// when nothing renders notices, e.g. one-shot CLI commands that print errors
// directly.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notices with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards a notice.
func (n *NoOpNotifier) Notify(_ context.Context, notice Notice) error {
	n.log.Debug("notice discarded (no display configured)",
		"level", notice.Level,
		"text", notice.Text,
	)
	return nil
}
