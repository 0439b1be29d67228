package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AccessLog logs one line at the start of every request and one at the end.
// The end line carries the status code, the number of body bytes written and
// the handling duration in milliseconds. Both lines go through the
// context-aware logger methods, so when AccessLog is mounted inside Tracing
// they carry the request's trace and span ids.
//
// The start line exists so a request that never completes (handler deadlock,
// process kill) still leaves a trace in the logs.
func AccessLog(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			log.InfoWithContext(ctx, "request start", nil, map[string]interface{}{
				"method":      r.Method,
				"request_uri": r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.InfoWithContext(ctx, "request end", nil, map[string]interface{}{
				"method":      r.Method,
				"request_uri": r.URL.Path,
				"status_code": ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration":    time.Since(start).Milliseconds(),
			})
		})
	}
}
