package notify

import "context"

// =============================================================================
// FuncNotifier
// =============================================================================

// FuncNotifier adapts a plain function into a Notifier. It is the usual
// bridge between pipeline steps and a caller-supplied callback, most
// commonly a test recorder or a streaming transport.
type FuncNotifier func(ctx context.Context, event Event) error

// Notify implements Notifier.
func (f FuncNotifier) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// MessageFunc wraps a callback that only cares about the message text.
func MessageFunc(fn func(message string)) Notifier {
	return FuncNotifier(func(ctx context.Context, event Event) error {
		fn(event.Message)
		return nil
	})
}
