package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aalemi-dev/svckit/metrics"
)

// Metrics records one http_server_duration observation per finished request.
//
// The http_route label uses the chi route pattern matched for the request
// (e.g. "/documents/{id}"), not the raw path, keeping label cardinality
// bounded; requests that never match a route fall back to the raw path. The
// observation is deferred, so a panicking handler is still recorded — with
// status 500, since that is what Recovery will write on the way out.
//
// Mount Metrics innermost so the recorded latency covers the handler, not
// the rest of the middleware stack.
func Metrics(duration *metrics.HTTPServerDuration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusInternalServerError
				}
				duration.Record(metrics.HTTPSample{
					Flavor:     requestFlavor(r),
					Host:       r.Host,
					Method:     r.Method,
					Route:      routePattern(r),
					Scheme:     requestScheme(r),
					Target:     requestTarget(r),
					StatusCode: status,
					Duration:   time.Since(start),
				})
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern returns the chi route pattern matched for the request. The
// pattern is only complete after the inner stack has routed, which is why
// Metrics reads it in its deferred observation. Empty when the request was
// not served by a chi router or matched no route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
