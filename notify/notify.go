package notify

import (
	"context"
	"time"
)

// =============================================================================
// Notification Types
// =============================================================================

// Severity constants for progress notifications.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a human-readable progress update emitted while a query
// pipeline executes. Events are advisory: they never carry pipeline state
// and never influence control flow.
type Event struct {
	RunID     string    `json:"run_id,omitempty"`
	Node      string    `json:"node,omitempty"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier receives progress events. Implementations should be
// non-blocking and handle their own errors gracefully (log, don't crash);
// callers ignore the returned error for fire-and-forget delivery.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Info sends an info-severity progress message to the notifier, if any.
// A nil notifier is a no-op, so pipeline steps can call this
// unconditionally.
func Info(ctx context.Context, n Notifier, node, message string) {
	send(ctx, n, node, message, SeverityInfo)
}

// Warn sends a warning-severity progress message to the notifier, if any.
func Warn(ctx context.Context, n Notifier, node, message string) {
	send(ctx, n, node, message, SeverityWarning)
}

func send(ctx context.Context, n Notifier, node, message, severity string) {
	if n == nil {
		return
	}
	_ = n.Notify(ctx, Event{
		Node:      node,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
	})
}

// =============================================================================
// Context Injection
// =============================================================================

type serviceContextKey string

const notifierServiceKey serviceContextKey = "medflow.notifier"

// WithNotifier adds a Notifier to the context.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierServiceKey, n)
}

// NotifierFromContext extracts the Notifier from context.
// Returns nil if no notifier is configured.
func NotifierFromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(notifierServiceKey).(Notifier); ok {
		return n
	}
	return nil
}
