package server

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/svckit/dto"
	"github.com/aalemi-dev/svckit/metrics"
	"github.com/aalemi-dev/svckit/sentry"
	"github.com/aalemi-dev/svckit/tracing"
)

// FXModule is an fx module that provides the HTTP server.
//
// This module provides:
//   - *Server (concrete type) - with lifecycle hooks opening the listener
//     on application start and draining it on stop
//
// All collaborators are optional: the server picks up whatever the
// dependency graph contains. Readiness checks are collected from the
// "readiness_checks" value group; use ProvideReadinessCheck to contribute
// one per backend.
var FXModule = fx.Module("server",
	fx.Provide(NewServerWithDI),
	fx.Invoke(RegisterServerLifecycle),
)

// ServerParams groups the dependencies needed to create a Server via
// dependency injection. The embedded fx.In marker enables automatic
// injection of the struct fields from the dependency container.
type ServerParams struct {
	fx.In

	Config  Config
	Logger  Logger           `optional:"true"`
	Tracer  tracing.Tracer   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
	Sentry  *sentry.Client   `optional:"true"`
	Version *dto.Version     `optional:"true"`
	Checks  []Check          `group:"readiness_checks"`
}

// NewServerWithDI creates a new Server using dependency injection.
//
// Example usage with fx:
//
//	app := fx.New(
//	    server.FXModule,
//	    logger.FXModule,
//	    tracing.FXModule,
//	    fx.Provide(func() (server.Config, error) {
//	        return server.ConfigFromEnv()
//	    }),
//	    server.ProvideReadinessCheck("postgres", pg.Ready),
//	)
func NewServerWithDI(params ServerParams) *Server {
	deps := Dependencies{
		Logger:  params.Logger,
		Tracer:  params.Tracer,
		Metrics: params.Metrics,
		Checks:  params.Checks,
		Version: params.Version,
	}
	if params.Sentry != nil {
		deps.Reporter = params.Sentry
	}
	return NewServer(params.Config, deps)
}

// ProvideReadinessCheck contributes one readiness probe to the server's
// check group. The probe signature matches the Ready methods of the kit's
// storage clients.
func ProvideReadinessCheck(service string, probe func(ctx context.Context) (bool, string)) fx.Option {
	return fx.Supply(
		fx.Annotate(
			Check{Service: service, Probe: probe},
			fx.ResultTags(`group:"readiness_checks"`),
		),
	)
}

// ServerLifeCycleParams groups the dependencies needed for lifecycle
// management of the HTTP server.
type ServerLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Server    *Server
}

// RegisterServerLifecycle registers the hooks that open the listener on
// application start and drain it gracefully on stop. A port that cannot be
// bound aborts startup.
func RegisterServerLifecycle(params ServerLifeCycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Server.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return params.Server.Shutdown(ctx)
		},
	})
}
