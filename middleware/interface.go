package middleware

import "context"

// Logger is the subset of the kit logger used by the HTTP middlewares.
// It matches the corresponding methods of logger.Logger, so a
// *logger.LoggerClient satisfies it directly.
type Logger interface {
	// DebugWithContext logs a debug-level message with trace context.
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// PanicReporter receives panics caught by the Recovery middleware, for
// forwarding to an error tracking backend. Implemented by *sentry.Client;
// Recovery accepts nil when no backend is configured.
type PanicReporter interface {
	// RecoverWithContext reports a recovered panic value together with the
	// request context it was caught in.
	RecoverWithContext(ctx context.Context, recovered interface{})
}
