// Package server provides the kit's HTTP server bootstrap: a chi router
// pre-wired with the standard middleware stack and the platform's operational
// endpoints, plus graceful start/stop for fx lifecycles.
//
// A service gets the full cross-cutting behavior — request ids, tracing,
// access logs, trace response headers, panic recovery with the standard
// error envelope, request latency metrics — by mounting its routes on the
// bootstrap:
//
//	srv := server.NewServer(cfg, server.Dependencies{
//	    Logger:  log,
//	    Tracer:  tracer,
//	    Metrics: m,
//	    Checks: []server.Check{
//	        {Service: "postgres", Probe: pg.Ready},
//	        {Service: "redis", Probe: rdb.Ready},
//	    },
//	})
//
//	srv.Router().Get("/v1/documents/{id}", getDocument)
//
//	if err := srv.Start(ctx); err != nil {
//	    // handle
//	}
//	defer srv.Shutdown(context.Background())
//
// Every dependency is optional: a nil tracer skips the tracing middleware, a
// nil metrics instance skips the latency histogram and the /metrics
// endpoint, a nil logger silences the access log. The endpoints stay.
//
// # Operational endpoints
//
//   - GET /alive    — liveness, always "OK" (200 text/plain)
//   - GET /ready    — readiness, runs the configured checks and aggregates
//     them into dto.ReadyResponse; 200 when all pass, 503 otherwise
//   - GET /metrics  — the application Prometheus registry, when metrics are
//     configured
//   - GET /version  — the build descriptor (dto.Version)
//   - GET /error    — deliberately panics, for verifying the error pipeline
//     (recovery envelope, error log, Sentry event) in a deployed service
//
// # FX integration
//
// FXModule provides *Server and registers lifecycle hooks: the listener
// opens on application start (a busy port fails startup loudly) and drains
// gracefully on stop. Readiness checks join the graph through the
// "readiness_checks" value group; ProvideReadinessCheck is the helper for
// contributing one.
package server
