// Package notify defines the notification interface and implementations
// for operational event delivery.
package notify

import (
	"context"
	"time"
)

// Severity ranks an event for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Event is something an operator should hear about, such as a failed job
// run or a shop whose token could not be refreshed.
type Event struct {
	Title    string
	Summary  string
	Severity Severity
	Job      string
	ShopID   string
	Fields   map[string]string
	Time     time.Time
}

// Notifier defines the interface for sending operational notifications.
type Notifier interface {
	SendEvent(ctx context.Context, ev *Event) error
	SendBatch(ctx context.Context, events []Event, subject string) error
}
