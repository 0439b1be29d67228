package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/aalemi-dev/svckit/dto"
)

// Recovery is the outermost error boundary of the request pipeline. It
// converts a handler panic into the standard HTTP 500 envelope
// {"code": "unknown"}, logs the panic with its stack, and forwards it to the
// reporter when one is configured. The panic does not propagate further; a
// nil reporter disables error tracking without changing anything else.
//
// http.ErrAbortHandler is re-raised untouched: it is net/http's own
// mechanism for aborting a response and must reach the server, not be
// turned into an envelope.
//
// The response details of application errors (validation, business) are
// shaped by the handlers themselves; Recovery only owns the "unknown" case.
func Recovery(log Logger, reporter PanicReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctx := r.Context()
				log.ErrorWithContext(ctx, "unknown exception", panicError(recovered), map[string]interface{}{
					"method":      r.Method,
					"request_uri": r.URL.Path,
					"stack":       string(debug.Stack()),
				})
				if reporter != nil {
					reporter.RecoverWithContext(ctx, recovered)
				}

				writeJSON(w, http.StatusInternalServerError, dto.NewUnknownError())
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// panicError normalizes a recovered panic value into an error.
func panicError(recovered interface{}) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", recovered)
}

// writeJSON writes v as a JSON response body with the given status code.
// Marshal failures fall back to a bare status line; the envelope types are
// plain structs, so that path is unreachable in practice.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := dto.Marshal(v)
	if err != nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
