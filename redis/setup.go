package redis

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncpool "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aalemi-dev/svckit/observability"
)

// Redis is a wrapper around go-redis that provides an explicit pool lifecycle,
// a distributed lock manager, connection monitoring, and standardized
// key/value operations.
//
// Implements the Client interface.
//
// Concurrency: the active connection bundle is stored in an atomic pointer and
// can be swapped during Close without blocking readers. go-redis maintains its
// own socket pool and re-dials on demand, so unlike the database clients there
// is no reconnection loop; the monitor only surfaces outages in the logs.
type Redis struct {
	cfg      Config
	client   atomic.Pointer[redisConn]
	locks    *LockManager
	observer observability.Observer
	logger   Logger

	shutdownSignal chan struct{}

	closeShutdownOnce sync.Once
}

// redisConn bundles the data client with the lock client and lock factory so
// the whole set installs and uninstalls atomically.
type redisConn struct {
	// data serves application key/value commands on Connection.DB.
	data *goredis.Client

	// locks serves distributed lock bookkeeping on Connection.LocksDB.
	locks *goredis.Client

	// rs mints mutexes backed by the locks client.
	rs *redsync.Redsync
}

// NewRedis creates a new Redis instance with the provided configuration.
// It does not connect: the connection pools are opened by InitPool, which the
// fx lifecycle calls on application start. Construction therefore never fails
// and a client can be built before the server is reachable.
//
// Returns *Redis concrete type (following Go best practice: "accept interfaces, return structs").
func NewRedis(cfg Config) *Redis {
	r := &Redis{
		cfg:            cfg,
		observer:       nil, // No observer by default
		logger:         nil, // No logger by default
		shutdownSignal: make(chan struct{}),
	}
	r.locks = &LockManager{r: r}
	return r
}

// InitPool dials the Redis server and installs the connection pools: one for
// application data (Connection.DB) and one for distributed lock bookkeeping
// (Connection.LocksDB). Both are pinged before being installed, so a
// misconfigured or unreachable server fails startup loudly instead of
// surfacing on the first command.
//
// Calling InitPool on a client whose pool is already open returns
// ErrPoolAlreadyInitialized; the existing pool is left untouched. When two
// goroutines race to initialize, exactly one wins and the loser's freshly
// dialed pools are closed again.
func (r *Redis) InitPool(ctx context.Context) error {
	if r.conn() != nil {
		return ErrPoolAlreadyInitialized
	}

	data, err := connectToRedis(ctx, r.cfg, r.cfg.Connection.DB)
	if err != nil {
		return fmt.Errorf("failed to open redis connection pool: %w", err)
	}

	locks, err := connectToRedis(ctx, r.cfg, r.cfg.Connection.LocksDB)
	if err != nil {
		_ = data.Close()
		return fmt.Errorf("failed to open redis connection pool for distributed locks: %w", err)
	}

	conn := &redisConn{
		data:  data,
		locks: locks,
		rs:    redsync.New(redsyncpool.NewPool(locks)),
	}

	if !r.client.CompareAndSwap(nil, conn) {
		_ = data.Close()
		_ = locks.Close()
		return ErrPoolAlreadyInitialized
	}

	r.logInfo(ctx, "redis pool opened", nil)
	return nil
}

// Close releases the connection pools. It is idempotent: closing a client
// whose pool was never opened (or was already closed) is a no-op, so teardown
// paths don't need to track initialization state.
//
// A failure to close the lock-side pool is logged and suppressed rather than
// propagated: it occurs during teardown when nothing can act on it, and held
// locks expire on their own.
func (r *Redis) Close(ctx context.Context) error {
	conn := r.client.Swap(nil)
	if conn == nil {
		return nil
	}

	if err := conn.locks.Close(); err != nil {
		r.logWarn(ctx, "cannot close redis connection for distributed lock", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := conn.data.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection pool: %w", err)
	}

	r.logInfo(ctx, "redis pool closed", nil)
	return nil
}

// Ready reports whether the Redis server currently answers a write/read probe.
// The probe sets a namespaced key with a short expiry and reads it back, which
// exercises the full command round trip instead of just the socket.
//
// It returns (false, message) instead of an error so readiness aggregation can
// collect per-service check results without branching on error types. An
// uninitialized pool reports not ready rather than failing the probe.
func (r *Redis) Ready(ctx context.Context) (bool, string) {
	conn := r.conn()
	if conn == nil {
		return false, "connection pool not initialized"
	}

	if err := conn.data.Set(ctx, readinessProbeKey, "123", readinessProbeTTL).Err(); err != nil {
		r.logError(ctx, "unknown connection error", map[string]interface{}{
			"error": err.Error(),
		})
		return false, err.Error()
	}
	if err := conn.data.Get(ctx, readinessProbeKey).Err(); err != nil {
		r.logError(ctx, "unknown connection error", map[string]interface{}{
			"error": err.Error(),
		})
		return false, err.Error()
	}
	return true, ""
}

// PoolStats returns the go-redis pool counters for the open data pool.
// It fails with ErrPoolNotInitialized before InitPool.
func (r *Redis) PoolStats() (*goredis.PoolStats, error) {
	conn := r.conn()
	if conn == nil {
		return nil, ErrPoolNotInitialized
	}
	return conn.data.PoolStats(), nil
}

// connectToRedis establishes a connection pool to the given logical database
// using the provided configuration, applying package defaults for pool fields
// left at zero. The pool is pinged before being returned, so callers receive
// either a working client or an error, never a silently broken one.
func connectToRedis(ctx context.Context, cfg Config, db int) (*goredis.Client, error) {
	details := cfg.ConnectionDetails

	poolSize := details.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	minIdleConns := details.MinIdleConns
	if minIdleConns <= 0 {
		minIdleConns = defaultMinIdleConns
	}
	dialTimeout := details.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	readTimeout := details.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := details.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         net.JoinHostPort(cfg.Connection.Host, cfg.Connection.Port),
		Password:     cfg.Connection.Password,
		DB:           db,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis database %d: %w", db, err)
	}

	return client, nil
}

// MonitorConnection periodically checks the health of the Redis connection and
// logs failures. It runs as a goroutine that performs health checks at regular
// intervals (10 seconds).
//
// A client whose pool is not open (not yet initialized, or explicitly closed)
// is skipped rather than treated as a failure, so monitoring never resurrects
// a closed pool. There is no reconnection step: go-redis re-dials broken
// sockets on the next command by itself.
//
// The function respects context cancellation and shutdown signals, ensuring
// proper resource cleanup and graceful termination when requested.
func (r *Redis) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.shutdownSignal:
			r.logInfo(ctx, "Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			if r.conn() == nil {
				continue
			}
			if err := r.healthCheck(); err != nil {
				r.logWarn(ctx, "redis health check failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck performs a health check on the Redis connection.
// It snapshots the current connection bundle, then attempts to ping the server
// with a timeout of 5 seconds to verify connectivity.
//
// It returns nil if the server is healthy, or an error with details about the issue.
func (r *Redis) healthCheck() error {
	// Snapshot the current connection; do not hold any package-level lock while pinging.
	conn := r.conn()
	if conn == nil {
		return ErrPoolNotInitialized
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.data.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed during health check: %w", err)
	}

	return nil
}

// WithObserver attaches an observer to the Redis client for observability hooks.
// This method uses the builder pattern and returns the client for method chaining.
//
// The observer will be notified of all key/value and lock operations, allowing
// external systems to track metrics, traces, or other observability data.
//
// Example:
//
//	client := redis.NewRedis(config).WithObserver(myObserver)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (r *Redis) WithObserver(observer observability.Observer) *Redis {
	r.observer = observer
	return r
}

// WithLogger attaches a logger to the Redis client for internal logging.
// This method uses the builder pattern and returns the client for method chaining.
//
// The logger will be used for lifecycle events, connection monitoring, and background operations.
//
// Example:
//
//	client := redis.NewRedis(config).WithLogger(myLogger)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (r *Redis) WithLogger(logger Logger) *Redis {
	r.logger = logger
	return r
}

// logInfo logs an informational message using the configured logger if available.
// This is used for lifecycle and background operation logging.
func (r *Redis) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
// This is used for non-critical issues during connection monitoring and teardown.
func (r *Redis) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
// This is only used for errors that can't be returned to the caller.
func (r *Redis) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
