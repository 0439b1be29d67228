// Package middleware provides the kit's HTTP middleware stack: inbound
// request tracing, trace response headers, access logging, panic recovery
// with the standard error envelope, and request latency metrics.
//
// Every middleware is a standard func(http.Handler) http.Handler, so the
// stack mounts on chi (or any net/http router) with Use:
//
//	r := chi.NewRouter()
//	r.Use(chimiddleware.RequestID)
//	r.Use(chimiddleware.RealIP)
//	r.Use(middleware.Tracing(tracer, "billing"))
//	r.Use(middleware.AccessLog(log))
//	r.Use(middleware.TraceResponseHeaders(tracer))
//	r.Use(middleware.Recovery(log, sentryClient))
//	r.Use(middleware.Metrics(duration))
//
// # Ordering
//
// The order above is the contract, outermost first:
//
//   - Tracing opens the request span before anything else runs and closes it
//     after everything else returns, so every other middleware and the
//     handler observe an active span.
//   - AccessLog runs inside the span; its log lines carry the trace id.
//   - TraceResponseHeaders stamps x-trace-id and the propagation headers
//     while the request span is still active, and before anything below it
//     can write the response. Because Recovery sits inside it, even panic
//     responses carry trace headers.
//   - Recovery converts a handler panic into the {"code": "unknown"} 500
//     envelope. Mounting it inside Tracing means a panic never skips span
//     closure.
//   - Metrics sits innermost so the recorded latency covers the handler,
//     not the rest of the stack, and so a panic passes through its
//     deferred observation on the way out to Recovery.
//
// The server package mounts this exact stack; mount it manually only when
// bypassing the server bootstrap.
package middleware
