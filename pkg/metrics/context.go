package metrics

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const collectorContextKey contextKey = "metrics_collector"

// WithCollector returns a context carrying an explicit collector, for
// callers that want an isolated instance instead of the shared one.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorContextKey, c)
}

// FromContext returns the collector stored in ctx, falling back to the
// shared collector when none is set.
func FromContext(ctx context.Context) *Collector {
	if c, ok := ctx.Value(collectorContextKey).(*Collector); ok {
		return c
	}
	return Shared()
}
