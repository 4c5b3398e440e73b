// Package metrics collects anonymous usage metrics and reports them to the
// Concord collection endpoint in one batched request.
//
// Callers record events with Add while the program runs and register
// Shutdown at program entry; everything buffered is delivered best-effort in
// a single POST when the process exits. There are no retries and no
// persistence: delivery failures are logged and dropped, never surfaced to
// the caller.
//
// Files in this package:
// - event.go: event value, attribute coercion, canonical JSON form
// - collector.go: event buffer, envelope construction, submission
// - global.go: shared collector and the package-level Add/Shutdown API
// - context.go: explicit collector passing through context.Context
// - logger.go: prefixed slog wrapper
package metrics
