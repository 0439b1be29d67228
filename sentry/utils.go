package sentry

import (
	"context"

	sentrygo "github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/trace"
)

// traceContext extracts the active trace identifiers from ctx so Sentry
// events can be correlated with distributed traces. Empty when no span is
// active.
func traceContext(ctx context.Context) sentrygo.Context {
	out := sentrygo.Context{}
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		out["trace_id"] = sc.TraceID().String()
	}
	if sc.HasSpanID() {
		out["span_id"] = sc.SpanID().String()
	}
	return out
}
