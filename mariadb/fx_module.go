package mariadb

import (
	"context"
	"sync"

	"github.com/aalemi-dev/svckit/observability"
	"go.uber.org/fx"
)

// FXModule is an fx module that provides the MariaDB database component.
// It registers the MariaDB constructor for dependency injection
// and sets up lifecycle hooks to properly initialize and shut down
// the database connection.
//
// This module provides:
//   - *MariaDB (concrete type) - for direct use and lifecycle management
//   - Client (interface) - for consumers who want database abstraction
//
// Consumers can inject either:
//   - *MariaDB for full access to all methods
//   - Client for interface-based programming
var FXModule = fx.Module("mariadb",
	fx.Provide(
		NewMariaDBClientWithDI, // Returns *MariaDB for internal lifecycle
		fx.Annotate(
			ProvideClient,      // Returns Client interface
			fx.As(new(Client)), // Expose as Client interface
		),
	),
	fx.Invoke(RegisterMariaDBLifecycle),
)

// ProvideClient wraps the concrete *MariaDB and returns it as Client interface.
// This enables applications to depend on the interface rather than concrete type.
func ProvideClient(db *MariaDB) Client {
	return db
}

// MariaDBParams groups the dependencies needed to create a MariaDB Client via dependency injection.
// This struct is designed to work with Uber's fx dependency injection framework and provides
// the necessary parameters for initializing a MariaDB database connection.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in provider functions.
type MariaDBParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewMariaDBClientWithDI creates a new MariaDB Client using dependency injection.
// This function is designed to be used with Uber's fx dependency injection framework
// where the Config, Logger, and Observer dependencies are automatically provided via the MariaDBParams struct.
//
// The returned client has no open connection pool yet. The lifecycle hook
// registered by RegisterMariaDBLifecycle opens it with InitPool on application
// start, so construction never blocks on the database being reachable.
//
// Parameters:
//   - params: A MariaDBParams struct containing the Config instance
//     and optionally a Logger and Observer instances
//     required to initialize the MariaDB Client. This struct embeds fx.In to enable
//     automatic injection of these dependencies.
//
// Returns:
//   - *MariaDB: An unconnected MariaDB Client (concrete type).
//     The FX module also provides this as Client interface for consumers who want abstraction.
//
// Example usage with fx:
//
//	app := fx.New(
//	    mariadb.FXModule,
//	    logger.FXModule,  // Optional: provides logger
//	    fx.Provide(
//	        func() mariadb.Config {
//	            return loadMariaDBConfig() // Your config loading function
//	        },
//	        func(metrics *prometheus.Metrics) observability.Observer {
//	            return &MyObserver{metrics: metrics}  // Optional observer
//	        },
//	    ),
//	)
func NewMariaDBClientWithDI(params MariaDBParams) *MariaDB {
	// Create client with config
	client := NewMariaDB(params.Config)

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

// MariaDBLifeCycleParams groups the dependencies needed for MariaDB lifecycle management.
// This struct combines all the components required to properly manage the lifecycle
// of a MariaDB Client within an fx application, including startup, monitoring,
// and graceful shutdown.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in lifecycle registration functions.
type MariaDBLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	MariaDB   *MariaDB
}

// RegisterMariaDBLifecycle registers lifecycle hooks for the MariaDB database component.
// It sets up:
// 1. Connection pool initialization on application start
// 2. Connection monitoring on application start
// 3. Automatic reconnection mechanism on application start
// 4. Graceful shutdown of database connections on application stop
//
// If the pool cannot be opened, OnStart returns the error and fx aborts startup.
// The function uses a WaitGroup to ensure that all goroutines complete
// before the application terminates.
func RegisterMariaDBLifecycle(params MariaDBLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.MariaDB.InitPool(ctx); err != nil {
				return err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.MariaDB.MonitorConnection(ctx)
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.MariaDB.RetryConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.MariaDB.closeShutdownOnce.Do(func() {
				close(params.MariaDB.shutdownSignal)
			})

			wg.Wait()

			params.MariaDB.closeRetryChanOnce.Do(func() {
				close(params.MariaDB.retryChanSignal)
			})

			// Close the connection pool and release all connections
			return params.MariaDB.Close(ctx)
		},
	})
}

// GracefulShutdown stops the monitoring goroutines and closes the connection
// pool. It is safe to call more than once and on a client whose pool was never
// opened. Applications wired through FXModule normally rely on the registered
// OnStop hook instead of calling this directly.
func (m *MariaDB) GracefulShutdown() error {
	if m.shutdownSignal != nil {
		m.closeShutdownOnce.Do(func() {
			close(m.shutdownSignal)
		})
	}

	if m.retryChanSignal != nil {
		m.closeRetryChanOnce.Do(func() {
			close(m.retryChanSignal)
		})
	}

	return m.Close(context.Background())
}
