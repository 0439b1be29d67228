package tracing

import (
	"context"
	"net/http"
)

// Tracer provides distributed tracing capabilities for applications.
// It wraps OpenTelemetry functionality with a simplified interface for
// wrapping units of work in spans, recording errors, and propagating trace
// context across service boundaries.
//
// This interface is implemented by the concrete *TracerClient type.
type Tracer interface {
	// StartSpan creates a new span with the given name.
	// The span is automatically attached to the parent span in the context (if any).
	// Returns a new context with the span and the span itself.
	// Always call span.End() when the operation completes (typically via defer).
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// WithSpan runs fn inside a child span named name, guaranteeing the span
	// closes on every exit path. Errors returned by fn tag the span and are
	// returned unchanged.
	WithSpan(ctx context.Context, name string, fn Func, opts ...SpanOption) error

	// TraceFunc wraps a synchronous unit of work so every call runs in its
	// own child span. Wrapping an asynchronous unit fails here, at wrap time.
	TraceFunc(name string, fn interface{}, opts ...SpanOption) (Func, error)

	// TraceAsyncFunc wraps an asynchronous unit of work; the span stays open
	// until the unit delivers its result. Wrapping a synchronous unit fails
	// here, at wrap time.
	TraceAsyncFunc(name string, fn interface{}, opts ...SpanOption) (AsyncFunc, error)

	// Inject serializes the active trace context into a header map in the
	// configured propagation format. Empty map when no span is active.
	Inject(ctx context.Context) map[string]string

	// InjectHTTP stamps the active trace context onto HTTP headers.
	InjectHTTP(ctx context.Context, header http.Header)

	// Extract parses inbound trace headers into a context; malformed or
	// missing headers degrade to "no parent", never an error.
	Extract(ctx context.Context, carrier map[string]string) context.Context

	// ExtractHTTP is the http.Header form of Extract.
	ExtractHTTP(ctx context.Context, header http.Header) context.Context
}

// Span represents a trace span for tracking operations in distributed systems.
// It provides methods for ending the span, recording errors, and setting attributes.
//
// The Span interface abstracts the underlying OpenTelemetry implementation details,
// providing a clean API for application code to interact with spans without
// direct dependencies on the tracing library.
//
// Spans represent a single operation or unit of work in your application. They form
// a hierarchy where a parent span can have multiple child spans, creating a trace
// that shows the flow of operations and their relationships.
//
// To use a span effectively:
// 1. Always call End() when the operation completes (typically with defer)
// 2. Add attributes that provide context about the operation
// 3. Record any errors that occur during the operation
//
// Spans created with StartSpan() automatically inherit the parent span from the context
// if one exists, creating a proper span hierarchy.
type Span interface {
	// End completes the span and sends it to configured exporters.
	// End should be called when the operation being traced is complete.
	// It's recommended to defer this call immediately after obtaining the span.
	//
	// Example:
	//   ctx, span := client.StartSpan(ctx, "operation-name")
	//   defer span.End()
	End()

	// SetAttributes adds key-value pairs of attributes to the span.
	// These attributes provide additional context about the operation.
	// The method supports various data types including strings, integers,
	// floating-point numbers, and booleans.
	//
	// Example:
	//   span.SetAttributes(map[string]interface{}{
	//     "user.id": userID,
	//     "request.size": size,
	//     "retry.enabled": true,
	//   })
	SetAttributes(attrs map[string]interface{})

	// RecordError marks the span as having encountered an error and
	// records the error information within the span. This helps with
	// error tracing and debugging by clearly identifying which spans
	// represent failed operations.
	//
	// Example:
	//   result, err := database.Query(ctx, query)
	//   if err != nil {
	//     span.RecordError(err)
	//     return nil, err
	//   }
	RecordError(err error)
}
