package redis

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/aalemi-dev/svckit/observability"
)

// FXModule is an fx module that provides the Redis component.
// It registers the Redis constructor for dependency injection
// and sets up lifecycle hooks to properly initialize and shut down
// the connection pools.
//
// This module provides:
//   - *Redis (concrete type) - for direct use and lifecycle management
//   - Client (interface) - for consumers who want Redis abstraction
//
// Consumers can inject either:
//   - *Redis for full access to all methods
//   - Client for interface-based programming
var FXModule = fx.Module("redis",
	fx.Provide(
		NewRedisClientWithDI, // Returns *Redis for internal lifecycle
		fx.Annotate(
			ProvideClient,      // Returns Client interface
			fx.As(new(Client)), // Expose as Client interface
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// ProvideClient wraps the concrete *Redis and returns it as Client interface.
// This enables applications to depend on the interface rather than concrete type.
func ProvideClient(r *Redis) Client {
	return r
}

// RedisParams groups the dependencies needed to create a Redis Client via dependency injection.
// This struct is designed to work with Uber's fx dependency injection framework and provides
// the necessary parameters for initializing a Redis connection.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in provider functions.
type RedisParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewRedisClientWithDI creates a new Redis Client using dependency injection.
// This function is designed to be used with Uber's fx dependency injection framework
// where the Config, Logger, and Observer dependencies are automatically provided via the RedisParams struct.
//
// The returned client has no open connection pool yet. The lifecycle hook
// registered by RegisterRedisLifecycle opens it with InitPool on application
// start, so construction never blocks on the server being reachable.
//
// Parameters:
//   - params: A RedisParams struct containing the Config instance
//     and optionally a Logger and Observer instances
//     required to initialize the Redis Client. This struct embeds fx.In to enable
//     automatic injection of these dependencies.
//
// Returns:
//   - *Redis: An unconnected Redis Client (concrete type).
//     The FX module also provides this as Client interface for consumers who want abstraction.
//
// Example usage with fx:
//
//	app := fx.New(
//	    redis.FXModule,
//	    logger.FXModule,  // Optional: provides logger
//	    fx.Provide(
//	        func() (redis.Config, error) {
//	            return redis.ConfigFromEnv()
//	        },
//	    ),
//	)
func NewRedisClientWithDI(params RedisParams) *Redis {
	// Create client with config
	client := NewRedis(params.Config)

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

// RedisLifeCycleParams groups the dependencies needed for Redis lifecycle management.
// This struct combines all the components required to properly manage the lifecycle
// of a Redis Client within an fx application, including startup, monitoring,
// and graceful shutdown.
//
// The embedded fx.In marker enables automatic injection of the struct fields from the
// dependency container when this struct is used as a parameter in lifecycle registration functions.
type RedisLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Redis     *Redis
}

// RegisterRedisLifecycle registers lifecycle hooks for the Redis component.
// It sets up:
// 1. Connection pool initialization on application start
// 2. Connection monitoring on application start
// 3. Graceful shutdown of the connection pools on application stop
//
// If the pools cannot be opened, OnStart returns the error and fx aborts startup.
// The function uses a WaitGroup to ensure the monitoring goroutine completes
// before the application terminates.
func RegisterRedisLifecycle(params RedisLifeCycleParams) {
	wg := &sync.WaitGroup{}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Redis.InitPool(ctx); err != nil {
				return err
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				params.Redis.MonitorConnection(ctx)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Redis.closeShutdownOnce.Do(func() {
				close(params.Redis.shutdownSignal)
			})

			wg.Wait()

			// Close the connection pools and release all connections
			return params.Redis.Close(ctx)
		},
	})
}

// GracefulShutdown stops the monitoring goroutine and closes the connection
// pools. It is safe to call more than once and on a client whose pool was
// never opened. Applications wired through FXModule normally rely on the
// registered OnStop hook instead of calling this directly.
func (r *Redis) GracefulShutdown() error {
	if r.shutdownSignal != nil {
		r.closeShutdownOnce.Do(func() {
			close(r.shutdownSignal)
		})
	}

	return r.Close(context.Background())
}
