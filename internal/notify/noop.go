package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendEvent logs and discards a single event.
func (n *NoOpNotifier) SendEvent(_ context.Context, ev *Event) error {
	n.log.Debug("notification discarded (no backend configured)",
		"title", ev.Title,
		"job", ev.Job,
		"shop_id", ev.ShopID,
	)
	return nil
}

// SendBatch logs and discards a batch of events.
func (n *NoOpNotifier) SendBatch(_ context.Context, events []Event, subject string) error {
	n.log.Debug("batch notification discarded (no backend configured)",
		"subject", subject,
		"count", len(events),
	)
	return nil
}
