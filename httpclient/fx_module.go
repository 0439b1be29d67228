package httpclient

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/svckit/observability"
	"github.com/aalemi-dev/svckit/tracing"
)

// FXModule is an fx module that provides the outbound HTTP client.
//
// This module provides:
//   - *Client (concrete type) - for direct use
//   - Caller (interface) - for consumers who want the abstraction
//
// The Config instance must be supplied by the application (each upstream has
// its own); logger, observer and tracer are picked up from the dependency
// graph when present. Services talking to several upstreams should build the
// extra clients with NewClientWithDI under fx.Annotate name tags rather than
// installing this module twice.
var FXModule = fx.Module("httpclient",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			ProvideCaller,
			fx.As(new(Caller)),
		),
	),
)

// ProvideCaller wraps the concrete *Client and returns it as Caller interface.
// This enables applications to depend on the interface rather than concrete type.
func ProvideCaller(c *Client) Caller {
	return c
}

// ClientParams groups the dependencies needed to create a Client via
// dependency injection. The embedded fx.In marker enables automatic
// injection of the struct fields from the dependency container.
type ClientParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   tracing.Tracer         `optional:"true"`
}

// NewClientWithDI creates a new Client using dependency injection.
// The logger, observer and tracer are optional: a missing tracer disables
// trace propagation on outbound requests, nothing else changes.
//
// Example usage with fx:
//
//	app := fx.New(
//	    httpclient.FXModule,
//	    logger.FXModule,
//	    fx.Provide(func() (httpclient.Config, error) {
//	        return httpclient.ConfigFromEnv("BILLING")
//	    }),
//	)
func NewClientWithDI(params ClientParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		client.logger = params.Logger
	}
	if params.Observer != nil {
		client.observer = params.Observer
	}
	if params.Tracer != nil {
		client.tracer = params.Tracer
	}

	return client, nil
}
