// Package tracing provides distributed tracing functionality using OpenTelemetry.
//
// The tracing package offers a simplified interface for implementing distributed
// tracing in Go services. It abstracts away the complexity of OpenTelemetry to
// provide a clean API for wrapping units of work in spans, keeping the active
// span scoped to the running request, and propagating trace context across
// process boundaries.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" Go idiom:
//   - Tracer interface: Defines the contract for tracing operations
//   - TracerClient struct: Concrete implementation of the Tracer interface
//   - Span interface: Defines the contract for span operations
//   - Constructor returns *TracerClient (concrete type)
//   - FX module provides both *TracerClient and Tracer interface
//
// Core features:
//   - Span lifecycle wrapping with guaranteed closure on every exit path
//   - Wrap-time validation of synchronous vs asynchronous units of work
//   - Active-span bookkeeping carried in context.Context, isolated per request
//   - Cross-service trace context propagation in W3C, B3 or Jaeger format
//   - Integration with OpenTelemetry backends over OTLP
//
// # The Active Span
//
// The currently active span is carried in the context, never in a global.
// Every wrapper in this package derives a child context holding the new span
// and hands it to the wrapped unit, so concurrently handled requests observe
// only their own span stacks and spans close in strict reverse order of
// activation:
//
//	client, err := tracing.Configure(tracing.Config{
//		ServiceName: "billing",
//		AppEnv:      "production",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = client.WithSpan(ctx, "build-invoice", func(ctx context.Context) error {
//		// tracing.ActiveSpan(ctx) is the "build-invoice" span here.
//		return client.WithSpan(ctx, "load-items", loadItems)
//	})
//
// Accessing the process-wide tracer before Configure has succeeded panics
// with ErrNotConfigured: silently disabled tracing would be worse than a
// crash in this kit's design.
//
// # Wrapping Units of Work
//
// TraceFunc and TraceAsyncFunc wrap a unit once and validate its shape at
// wrap time. A synchronous unit handed to TraceAsyncFunc (or the converse)
// is reported immediately, not on first call:
//
//	fetch, err := client.TraceFunc("fetch-profile", profile.Fetch)
//	if err != nil {
//		log.Fatal(err) // wrap-time usage error
//	}
//	if err := fetch(ctx); err != nil {
//		// span already tagged with error flag and message
//	}
//
// Errors returned by wrapped units tag the span ("error", "error.message")
// and are returned unchanged; instrumentation never swallows or rewrites
// application errors.
//
// # FX Module Integration
//
// The package provides an FX module that injects both concrete and interface types:
//
//	import (
//		"github.com/aalemi-dev/svckit/tracing"
//		"go.uber.org/fx"
//	)
//
//	app := fx.New(
//		tracing.FXModule,
//		fx.Provide(
//			func() tracing.Config {
//				return tracing.Config{
//					ServiceName:  "my-service",
//					AppEnv:       "production",
//					EnableExport: true,
//				}
//			},
//		),
//	)
//	app.Run()
//
// # Distributed Tracing Across Services
//
//	// In the sending service
//	err := client.WithSpan(ctx, "call-billing", func(ctx context.Context) error {
//		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
//		client.InjectHTTP(ctx, req.Header)
//		_, err := httpClient.Do(req)
//		return err
//	})
//
//	// In the receiving service
//	func handler(w http.ResponseWriter, r *http.Request) {
//		ctx := client.ExtractHTTP(r.Context(), r.Header)
//		ctx, span := client.StartSpan(ctx, r.URL.Path)
//		defer span.End()
//		// ...
//	}
//
// The wire format is chosen once, through Config.Propagation. Malformed or
// missing inbound headers are never an error; the new span simply becomes a
// root span.
//
// # Best Practices
//
//   - Prefer WithSpan and the TraceFunc family over manual StartSpan/End pairs
//   - Use descriptive span names that identify the operation
//   - Add relevant attributes to provide context
//   - Ensure trace context is properly propagated between services
//   - Prefer interface types (tracing.Tracer) in function signatures
//   - Use concrete types (*tracing.TracerClient) when you need specific implementation details
//
// # Thread Safety
//
// All methods on the TracerClient type and Span interface are safe for
// concurrent use by multiple goroutines.
package tracing
