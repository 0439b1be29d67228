package tracing

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// current holds the process-wide tracer set by Configure.
// It is read-mostly after startup; atomic swapping keeps reconfiguration safe.
var current atomic.Pointer[TracerClient]

// Configure builds a TracerClient from cfg and installs it as the process-wide
// current tracer returned by Current. Calling Configure again is allowed; the
// previous client is replaced and only the last result is retained.
//
// Configure must be called once at process start, before any code path that
// uses Current. Most applications wire this through the FX module instead of
// calling it directly.
func Configure(cfg Config) (*TracerClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	current.Store(client)
	return client, nil
}

// Current returns the process-wide tracer installed by Configure.
//
// Calling Current before a successful Configure is a programming error and
// panics with ErrNotConfigured.
func Current() *TracerClient {
	client := current.Load()
	if client == nil {
		panic(ErrNotConfigured)
	}
	return client
}

// ActiveSpan returns the span active in ctx: the innermost span started by
// this task that has not been closed yet. When no traced operation is active,
// the returned span's SpanContext().IsValid() reports false.
//
// The active span is carried in the context itself, never in a global, so
// concurrently handled requests observe only their own span stacks.
func ActiveSpan(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// TraceID returns the lowercase hex trace id of the span active in ctx.
// The second return value is false when no traced operation is active.
func TraceID(ctx context.Context) (string, bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return "", false
	}
	return sc.TraceID().String(), true
}
