package postgres

import (
	"context"
	"sync"

	"github.com/aalemi-dev/svckit/observability"
	"go.uber.org/fx"
)

// FXModule is an fx module that provides the Postgres database component.
// It registers the Postgres constructor for dependency injection
// and sets up lifecycle hooks to properly initialize and shut down
// the database connection.
//
// This module provides:
//   - *Postgres (concrete type) - for direct use and lifecycle management
//   - Client (interface) - for consumers who want database abstraction
//
// Consumers can inject either:
//   - *Postgres for full access to all methods
//   - Client for interface-based programming
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresClientWithDI, // Returns *Postgres for internal lifecycle
		fx.Annotate(
			ProvideClient,      // Returns Client interface
			fx.As(new(Client)), // Expose as Client interface
		),
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// ProvideClient wraps the concrete *Postgres and returns it as Client interface.
// This enables applications to depend on the interface rather than concrete type.
func ProvideClient(pg *Postgres) Client {
	return pg
}

// PostgresParams groups the dependencies needed to create a Postgres Client via dependency injection.
// This struct is designed to work with Uber's fx dependency injection framework and provides
// the necessary parameters for initializing a Postgres database connection.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in provider functions.
type PostgresParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewPostgresClientWithDI creates a new Postgres Client using dependency injection.
// This function is designed to be used with Uber's fx dependency injection framework
// where the Config, Logger, and Observer dependencies are automatically provided via the PostgresParams struct.
//
// The returned client has no open connection pool yet. The lifecycle hook
// registered by RegisterPostgresLifecycle opens it with InitPool on application
// start, so construction never blocks on the database being reachable.
//
// Parameters:
//   - params: A PostgresParams struct containing the Config instance
//     and optionally a Logger and Observer instances
//     required to initialize the Postgres Client. This struct embeds fx.In to enable
//     automatic injection of these dependencies.
//
// Returns:
//   - *Postgres: An unconnected Postgres Client (concrete type).
//     The FX module also provides this as Client interface for consumers who want abstraction.
//
// Example usage with fx:
//
//	app := fx.New(
//	    postgres.FXModule,
//	    logger.FXModule,  // Optional: provides logger
//	    fx.Provide(
//	        func() postgres.Config {
//	            return loadPostgresConfig() // Your config loading function
//	        },
//	        func(metrics *prometheus.Metrics) observability.Observer {
//	            return &MyObserver{metrics: metrics}  // Optional observer
//	        },
//	    ),
//	)
func NewPostgresClientWithDI(params PostgresParams) *Postgres {
	// Create client with config
	client := NewPostgres(params.Config)

	// Inject logger if provided
	if params.Logger != nil {
		client.logger = params.Logger
	}

	// Inject observer if provided
	if params.Observer != nil {
		client.observer = params.Observer
	}

	return client
}

// PostgresLifeCycleParams groups the dependencies needed for Postgres lifecycle management.
// This struct combines all the components required to properly manage the lifecycle
// of a Postgres Client within an fx application, including startup, monitoring,
// and graceful shutdown.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in lifecycle registration functions.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle registers lifecycle hooks for the Postgres database component.
// It sets up:
// 1. Connection pool initialization on application start
// 2. Connection monitoring on application start
// 3. Automatic reconnection mechanism on application start
// 4. Graceful shutdown of database connections on application stop
//
// If the pool cannot be opened, OnStart returns the error and fx aborts startup.
// The function uses a WaitGroup to ensure that all goroutines complete
// before the application terminates.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Postgres.InitPool(ctx); err != nil {
				return err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Postgres.closeShutdownOnce.Do(func() {
				close(params.Postgres.shutdownSignal)
			})

			wg.Wait()

			params.Postgres.closeRetryChanOnce.Do(func() {
				close(params.Postgres.retryChanSignal)
			})

			// Close the connection pool and release all connections
			return params.Postgres.Close(ctx)
		},
	})
}

// GracefulShutdown stops the monitoring goroutines and closes the connection
// pool. It is safe to call more than once and on a client whose pool was never
// opened. Applications wired through FXModule normally rely on the registered
// OnStop hook instead of calling this directly.
func (p *Postgres) GracefulShutdown() error {
	if p.shutdownSignal != nil {
		p.closeShutdownOnce.Do(func() {
			close(p.shutdownSignal)
		})
	}

	if p.retryChanSignal != nil {
		p.closeRetryChanOnce.Do(func() {
			close(p.retryChanSignal)
		})
	}

	return p.Close(context.Background())
}
