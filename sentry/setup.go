package sentry

import (
	"context"
	"fmt"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
)

// Client reports errors and recovered panics to Sentry. It owns a private
// hub rather than using the SDK's global one, so constructing a client never
// affects other reporting in the process.
//
// A client built from a disabled configuration is a no-op: every method is
// safe to call and does nothing. Methods are safe for concurrent use.
type Client struct {
	hub          *sentrygo.Hub
	flushTimeout time.Duration
}

// NewClient creates a new Client from the given configuration.
// Reporting is active only when cfg.Enabled is true and a DSN is set;
// otherwise the returned client is a no-op. Construction performs no
// network I/O — an unreachable backend surfaces as dropped events, never
// as a startup failure.
//
// Returns *Client concrete type (following Go best practice: "accept interfaces, return structs").
func NewClient(cfg Config) (*Client, error) {
	return newClient(cfg, nil)
}

// newClient is the transport-injectable form of NewClient used by tests.
func newClient(cfg Config, transport sentrygo.Transport) (*Client, error) {
	flushTimeout := cfg.FlushTimeout
	if flushTimeout == 0 {
		flushTimeout = defaultFlushTimeout
	}

	if !cfg.Enabled || cfg.DSN == "" {
		return &Client{flushTimeout: flushTimeout}, nil
	}

	sdkClient, err := sentrygo.NewClient(sentrygo.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
		Transport:        transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry client: %w", err)
	}

	return &Client{
		hub:          sentrygo.NewHub(sdkClient, sentrygo.NewScope()),
		flushTimeout: flushTimeout,
	}, nil
}

// Enabled reports whether events are actually sent.
func (c *Client) Enabled() bool {
	return c != nil && c.hub != nil
}

// CaptureException reports an error as a Sentry event. No-op on a disabled
// client or a nil error.
func (c *Client) CaptureException(ctx context.Context, err error) {
	if !c.Enabled() || err == nil {
		return
	}
	hub := c.hub.Clone()
	hub.Scope().SetContext("trace", traceContext(ctx))
	hub.CaptureException(err)
}

// CaptureMessage reports a plain message as a Sentry event. No-op on a
// disabled client or an empty message.
func (c *Client) CaptureMessage(ctx context.Context, msg string) {
	if !c.Enabled() || msg == "" {
		return
	}
	hub := c.hub.Clone()
	hub.Scope().SetContext("trace", traceContext(ctx))
	hub.CaptureMessage(msg)
}

// RecoverWithContext reports a recovered panic value. It implements the
// middleware package's PanicReporter contract, so a *Client plugs directly
// into middleware.Recovery.
func (c *Client) RecoverWithContext(ctx context.Context, recovered interface{}) {
	if !c.Enabled() || recovered == nil {
		return
	}
	c.hub.RecoverWithContext(ctx, recovered)
}

// Flush waits up to the configured flush timeout for buffered events to be
// delivered, reporting whether the buffer drained in time.
func (c *Client) Flush() bool {
	if !c.Enabled() {
		return true
	}
	return c.hub.Flush(c.flushTimeout)
}

// Close flushes buffered events. Delivery is asynchronous, so a process
// exiting without Close can lose its final events — exactly the ones worth
// keeping. Safe to call on a disabled client.
func (c *Client) Close() {
	c.Flush()
}
