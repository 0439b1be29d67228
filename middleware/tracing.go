package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/svckit/tracing"
)

// Attribute keys stamped on request spans. The names follow the OpenTracing
// tag vocabulary the platform's dashboards key on, matching the keys the
// tracing package uses for its own tags.
const (
	attrComponent      = "component"
	attrSpanKind       = "span.kind"
	attrHTTPMethod     = "http.method"
	attrHTTPScheme     = "http.scheme"
	attrHTTPURL        = "http.url"
	attrHTTPTarget     = "http.target"
	attrHTTPStatusCode = "http.status_code"

	spanKindRPCServer = "server"
)

// TraceIDHeader is the response header carrying the lowercase hex trace id
// of the request span, stamped by TraceResponseHeaders.
const TraceIDHeader = "x-trace-id"

// Tracing is the inbound request tracing middleware. Per request it extracts
// trace context from the request headers, starts a span named after the
// request path with the extracted context as parent (or as a root span when
// the headers carry none), and hands the span down the stack through the
// request context. Malformed or missing trace headers never fail the
// request; extraction silently degrades to a root span.
//
// The span is tagged with the component name, the server span kind, the HTTP
// method, scheme, full request URL and target; the response status code is
// recorded after the inner stack returns. The span closes when the
// middleware returns, on every exit path including a handler panic, so span
// closure cannot be skipped by anything mounted inside it.
//
// Mount Tracing outermost (before AccessLog, TraceResponseHeaders, Recovery
// and Metrics) so the whole pipeline runs inside the request span.
func Tracing(tracer tracing.Tracer, component string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracer.ExtractHTTP(r.Context(), r.Header)

			ctx, span := tracer.StartSpan(ctx, r.URL.Path,
				tracing.WithSpanKind(traceSpan.SpanKindServer),
				tracing.WithAttributes(map[string]interface{}{
					attrComponent:  component,
					attrSpanKind:   spanKindRPCServer,
					attrHTTPMethod: r.Method,
					attrHTTPScheme: requestScheme(r),
					attrHTTPURL:    requestURL(r),
					attrHTTPTarget: requestTarget(r),
				}))
			defer span.End()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			span.SetAttributes(map[string]interface{}{
				attrHTTPStatusCode: ww.Status(),
			})
		})
	}
}

// TraceResponseHeaders stamps the trace of the current request onto the
// response: the x-trace-id header (empty when no span is active) plus the
// propagation headers of the configured format, so callers can correlate
// responses with traces and browsers can continue the trace from responses.
//
// Headers are written before the inner stack runs, while the request span
// started by Tracing is still active. Mount it inside Tracing and outside
// Recovery, so error envelopes carry trace headers too.
func TraceResponseHeaders(tracer tracing.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			traceID, _ := tracing.TraceID(ctx)
			w.Header().Set(TraceIDHeader, traceID)
			tracer.InjectHTTP(ctx, w.Header())

			next.ServeHTTP(w, r)
		})
	}
}
