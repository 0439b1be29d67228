package tracing

import (
	"context"
	"log"

	"go.uber.org/fx"
)

// FXModule provides a Uber FX module that configures distributed tracing for your application.
// This module registers the tracer client with the dependency injection system,
// installs it as the process-wide tracer returned by Current, and sets up proper
// lifecycle management to ensure spans are flushed on shutdown.
//
// The module provides:
// 1. *TracerClient (concrete type) for direct use
// 2. Tracer interface for dependency injection
// 3. Shutdown hooks to cleanly close tracer resources
//
// Usage:
//
//	app := fx.New(
//	    tracing.FXModule,
//	    // other modules...
//	)
//	app.Run()
//
// This module should be included in your main application to enable distributed tracing
// throughout your dependency graph without manual wiring.
var FXModule = fx.Module("tracing",
	fx.Provide(
		Configure, // Provides *TracerClient and installs it as the process-wide tracer
		// Also provide the Tracer interface
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers shutdown hooks for the tracer with the FX lifecycle.
// This function ensures that tracer resources are properly released when the application
// terminates, preventing resource leaks and ensuring traces are flushed to exporters.
//
// Parameters:
//   - lc: The FX lifecycle to register hooks with
//   - tracer: The tracer instance to manage lifecycle for
//
// The function registers an OnStop hook that:
// 1. Logs that the tracer is shutting down
// 2. Gracefully shuts down the tracer provider
// 3. Handles edge cases where the tracer might be nil
//
// This function is automatically invoked by the FXModule and normally doesn't need
// to be called directly.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.provider == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.provider.Shutdown(ctx)
		},
	})
}
