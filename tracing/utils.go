package tracing

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// Attribute keys stamped on spans by this package. The names follow the
// OpenTracing tag vocabulary the rest of the platform's dashboards key on.
const (
	attrError         = "error"
	attrErrorMessage  = "error.message"
	attrDBType        = "db.type"
	attrDBStatement   = "db.statement"
	attrSpanKind      = "span.kind"
	spanKindRPCClient = "client"
)

// spanImpl is an internal implementation of the Span interface
// that wraps an OpenTelemetry span. This type handles the conversion
// between the simplified API and the underlying OpenTelemetry functionality.
type spanImpl struct {
	span traceSpan.Span
}

// End implements the Span interface by ending the underlying OpenTelemetry span.
// This method should be called when the operation being traced is complete,
// typically using a deferred call immediately after span creation.
//
// After calling End, no further operations should be performed on the span,
// as its data has already been finalized and submitted for processing.
func (s *spanImpl) End() {
	s.span.End()
}

// SetAttributes implements the Span interface by adding attributes to the span.
// Attributes provide additional context about the operation being traced,
// making it easier to filter, analyze, and understand trace data.
//
// This method accepts a map of key-value pairs and automatically handles
// type conversion for common Go types:
// - string: Stored as string attributes
// - int/int64: Stored as integer attributes
// - float64: Stored as floating-point attributes
// - bool: Stored as boolean attributes
// - Other types: Converted to strings using fmt.Sprint
//
// If the attributes map is empty, the method returns immediately without
// making any changes to the span.
func (s *spanImpl) SetAttributes(attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}
	s.span.SetAttributes(convertAttributes(attrs)...)
}

// RecordError implements the Span interface by recording an error on the span.
// This method performs three actions:
// 1. Records the error event on the span with its details
// 2. Tags the span with the error flag and the error message
// 3. Sets the span's status to Error with the error message as the description
//
// This method should be called whenever an error occurs during the operation
// represented by the span, typically just before returning the error to the
// caller. The TraceFunc family and WithSpan call it automatically.
func (s *spanImpl) RecordError(err error) {
	recordSpanError(s.span, err)
}

// recordSpanError marks an OpenTelemetry span as failed: the "error" flag and
// "error.message" attributes for the platform dashboards, plus the native
// error event and status for OpenTelemetry tooling.
func recordSpanError(span traceSpan.Span, err error) {
	span.SetAttributes(
		attribute.Bool(attrError, true),
		attribute.String(attrErrorMessage, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// convertAttributes converts a generic attribute map to OpenTelemetry key-values.
func convertAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	attributes := make([]attribute.KeyValue, 0, len(attrs))

	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			// For unsupported types, convert to string
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}
	return attributes
}

// spanOptions accumulates the start-time settings of a span.
type spanOptions struct {
	attributes []attribute.KeyValue
	kind       traceSpan.SpanKind
}

// SpanOption configures a span created by StartSpan, WithSpan or the
// TraceFunc family.
type SpanOption func(*spanOptions)

// WithQuery tags the span as a database operation carrying the given
// statement text. This is a convenience for SQL-tracing call sites:
//
//	err := client.WithSpan(ctx, "load-user", loadUser, tracing.WithQuery(query))
func WithQuery(statement string) SpanOption {
	return func(o *spanOptions) {
		o.attributes = append(o.attributes,
			attribute.String(attrDBType, "postgres"),
			attribute.String(attrDBStatement, statement),
		)
	}
}

// WithAttributes adds the given attributes to the span at start time.
// Value conversion follows the same rules as Span.SetAttributes.
func WithAttributes(attrs map[string]interface{}) SpanOption {
	return func(o *spanOptions) {
		o.attributes = append(o.attributes, convertAttributes(attrs)...)
	}
}

// WithSpanKind sets the OpenTelemetry span kind (server, client, producer, ...).
// The default is SpanKindInternal.
func WithSpanKind(kind traceSpan.SpanKind) SpanOption {
	return func(o *spanOptions) {
		o.kind = kind
	}
}

// StartSpan creates a new span with the given name and returns an updated context
// containing the span, along with a Span interface. The created span becomes a
// child of any span active in the provided context; if none is active, a new
// root span is created.
//
// Most code should prefer WithSpan or the TraceFunc family, which guarantee
// span closure on every exit path. StartSpan is the low-level form for call
// sites that need to control the span's lifetime manually:
//
//	ctx, span := client.StartSpan(ctx, "process-request")
//	defer span.End()
func (t *TracerClient) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	ctx, otSpan := t.startSpan(ctx, name, opts)
	return ctx, &spanImpl{span: otSpan}
}

func (t *TracerClient) startSpan(ctx context.Context, name string, opts []SpanOption) (context.Context, traceSpan.Span) {
	options := spanOptions{kind: traceSpan.SpanKindInternal}
	for _, opt := range opts {
		opt(&options)
	}

	startOpts := []traceSpan.SpanStartOption{traceSpan.WithSpanKind(options.kind)}
	if len(options.attributes) > 0 {
		startOpts = append(startOpts, traceSpan.WithAttributes(options.attributes...))
	}

	return t.provider.Tracer("").Start(ctx, name, startOpts...)
}

// operationName derives a qualified operation name from a function value,
// e.g. "github.com/acme/billing/invoice.Build". Used by the TraceFunc family
// when no explicit name is given.
func operationName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return fmt.Sprintf("%T", fn)
	}
	return rf.Name()
}
