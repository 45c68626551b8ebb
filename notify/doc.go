// Package notify provides the progress side-channel for pipeline steps.
//
// Steps emit human-readable progress messages while they work; the
// messages are fire-and-forget and never affect control flow. Unit tests
// stub the channel out with a FuncNotifier or ignore it entirely (every
// helper tolerates a nil Notifier).
//
// Core types:
//   - Notifier: Interface for receiving progress events
//   - Event: Progress event with node, message, and severity
//
// Implementations:
//   - LogNotifier: Logs events via slog
//   - FuncNotifier: Adapts a callback function
//   - MultiNotifier: Fans out to multiple notifiers
//   - NopNotifier: Discards everything (for testing)
//
// Example usage:
//
//	ctx = notify.WithNotifier(ctx, notify.NewLogNotifier(nil))
//	...
//	notify.Info(ctx, notify.NotifierFromContext(ctx), "classify",
//	    "classifying query domain...")
package notify
