package sentry

import (
	"context"

	"go.uber.org/fx"
)

// FXModule is an fx module that provides the error reporting client.
//
// This module provides:
//   - *Client (concrete type) - a no-op when the configuration disables
//     reporting, so it can be installed unconditionally
//
// The lifecycle hook flushes buffered events on application stop; without
// it, events reported just before shutdown would be lost.
var FXModule = fx.Module("sentry",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterSentryLifecycle),
)

// ClientParams groups the dependencies needed to create a Client via
// dependency injection. The embedded fx.In marker enables automatic
// injection of the struct fields from the dependency container.
type ClientParams struct {
	fx.In

	Config Config
}

// NewClientWithDI creates a new Client using dependency injection.
//
// Example usage with fx:
//
//	app := fx.New(
//	    sentry.FXModule,
//	    fx.Provide(func() (sentry.Config, error) {
//	        return sentry.ConfigFromEnv()
//	    }),
//	)
func NewClientWithDI(params ClientParams) (*Client, error) {
	return NewClient(params.Config)
}

// SentryLifeCycleParams groups the dependencies needed for lifecycle
// management of the error reporting client.
type SentryLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *Client
}

// RegisterSentryLifecycle registers the shutdown hook that flushes buffered
// events. A flush that cannot drain within the configured timeout is not an
// error: shutdown proceeds, the remaining events are dropped.
func RegisterSentryLifecycle(params SentryLifeCycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Client.Flush()
			return nil
		},
	})
}
