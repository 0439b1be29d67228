package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// Inject serializes the trace context active in ctx into a header map using
// the configured propagation format, for transmission across process
// boundaries (HTTP headers, message properties).
//
// The active span is tagged as an outbound RPC client call before
// serialization. When no span is active the returned map is empty:
// propagation is best-effort and never fatal.
//
// Header names per format: "traceparent"/"tracestate" (w3c), "x-b3-traceid"/
// "x-b3-spanid"/"x-b3-sampled" (b3), "uber-trace-id" (jaeger).
//
//	for k, v := range client.Inject(ctx) {
//	    req.Header.Set(k, v)
//	}
func (t *TracerClient) Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	span := traceSpan.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return carrier
	}

	span.SetAttributes(attribute.String(attrSpanKind, spanKindRPCClient))
	t.propagator.Inject(ctx, carrier)
	return carrier
}

// InjectHTTP is the http.Header form of Inject, for stamping outbound
// requests and responses directly.
func (t *TracerClient) InjectHTTP(ctx context.Context, header http.Header) {
	span := traceSpan.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	span.SetAttributes(attribute.String(attrSpanKind, spanKindRPCClient))
	t.propagator.Inject(ctx, propagation.HeaderCarrier(header))
}

// Extract parses inbound trace headers and returns a context carrying the
// remote span context as parent for spans started from it.
//
// Missing or malformed headers are not an error: the input context is
// returned with no parent attached, so the next span simply becomes a root.
// Extraction failure must never abort request handling.
func (t *TracerClient) Extract(ctx context.Context, carrier map[string]string) context.Context {
	return t.propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// ExtractHTTP is the http.Header form of Extract, for inbound requests.
func (t *TracerClient) ExtractHTTP(ctx context.Context, header http.Header) context.Context {
	return t.propagator.Extract(ctx, propagation.HeaderCarrier(header))
}
