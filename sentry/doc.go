// Package sentry provides the kit's error reporting client, a thin wrapper
// around the official sentry-go SDK.
//
// The wrapper exists for two reasons: the SDK's package-level hub is global
// mutable state the kit avoids (the client here owns a private hub, so two
// components can report to different projects in one process), and a client
// built from an empty or disabled configuration degrades to a no-op, letting
// call sites report unconditionally:
//
//	cfg, err := sentry.ConfigFromEnv()
//	if err != nil {
//	    // handle
//	}
//	client, err := sentry.NewClient(cfg)
//	if err != nil {
//	    // handle
//	}
//	defer client.Close()
//
//	client.CaptureException(ctx, err)
//
// The middleware package's Recovery accepts *Client as its PanicReporter, so
// unhandled request panics reach the backend with no extra wiring:
//
//	r.Use(middleware.Recovery(log, sentryClient))
//
// # FX integration
//
// FXModule provides *Client from an injected Config and flushes buffered
// events on application stop. Events are delivered asynchronously; the flush
// on shutdown is what guarantees a crash report from the final moments of a
// process actually leaves it.
package sentry
