// Package redis provides a Redis client built on top of go-redis, with
// distributed locks backed by redsync.
//
// The package exposes a small interface (`Client`) implemented by the concrete
// `*Redis`, which wraps two `*goredis.Client` pools (one for application data,
// one for lock bookkeeping) and adds:
//   - Explicit pool lifecycle (`InitPool` / `Close`) with readiness probing (`Ready`)
//   - A distributed lock manager (`Locks`) for cross-process mutual exclusion
//   - Standardized key/value helpers with observer hooks
//   - Periodic health checks (via `MonitorConnection`)
//   - Optional error normalization (`TranslateError`)
//
// # Pool lifecycle
//
// Construction never touches the network. `NewRedis` only captures configuration;
// the pools are opened later with `InitPool` and released with `Close`:
//
//	rdb := redis.NewRedis(cfg)
//	if err := rdb.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer rdb.Close(context.Background())
//
// Calling `InitPool` twice returns `ErrPoolAlreadyInitialized`. Operations invoked
// before the pool is opened return `ErrPoolNotInitialized`. `Close` is idempotent
// and a no-op on a client whose pool was never opened. `InitPool` pings both pools
// before installing them, so an unreachable server fails application startup
// loudly instead of surfacing on the first command.
//
// # Concurrency model
//
// The active connection bundle is stored in an `atomic.Pointer`. Calls snapshot it
// once and run the operation without holding any package-level locks. Unlike the
// database clients there is no reconnection loop: go-redis re-dials broken sockets
// on the next command by itself, so `MonitorConnection` only surfaces outages in
// the logs.
//
// Basic usage
//
//	cfg := redis.Config{
//	    Connection: redis.Connection{
//	        Host:    "localhost",
//	        Port:    "6379",
//	        DB:      0,
//	        LocksDB: 1,
//	    },
//	}
//
//	rdb := redis.NewRedis(cfg)
//	if err := rdb.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer rdb.GracefulShutdown()
//
//	if err := rdb.Set(ctx, "greeting", "hello", time.Hour); err != nil {
//	    // handle
//	}
//	val, err := rdb.Get(ctx, "greeting")
//
// # Distributed locks
//
// `Locks()` returns the lock manager. Lock keys live in the logical database
// selected by `Connection.LocksDB` (default 1), keeping them out of application
// data. Contention is a normal outcome, not an error: `Acquire` reports it
// through its boolean, `WithLock` through `ErrLockAlreadyHeld`.
//
//	err := rdb.Locks().WithLock(ctx, "reports:rebuild", func(ctx context.Context) error {
//	    return rebuildReports(ctx)
//	})
//	if errors.Is(err, redis.ErrLockAlreadyHeld) {
//	    // another instance owns this run; nothing to do
//	}
//
// Every acquired lock carries an expiry (default 10s, override with
// `WithLockExpiry`) as the crash safety net: a holder that dies blocks others
// only until the expiry elapses. Long-running holders keep ownership with
// `Extend`. Release failures inside `WithLock` are logged and suppressed, since
// they occur during teardown and the expiry reclaims the lock anyway.
//
// # Readiness
//
// `Ready` performs a full write/read probe (set a namespaced key with a short
// expiry, read it back) and reports `(ok, message)` instead of an error, so a
// readiness endpoint can aggregate per-service results and report degraded
// status rather than crashing the probe.
//
// # Observability (Observer hook)
//
// The Redis client supports optional observability through the unified
// `observability.Observer` interface (`github.com/aalemi-dev/svckit/observability`).
// If an observer is attached, it will be notified after each operation completes
// (success or error) with an `observability.OperationContext`.
//
// Non-Fx usage (builder pattern):
//
//	rdb := redis.NewRedis(cfg).WithObserver(myObserver)
//	if err := rdb.InitPool(ctx); err != nil {
//	    return err
//	}
//
// The Redis client emits (at least) the following operation names:
//   - Basic ops: "set", "get", "set_nx", "del", "exists", "expire", "ttl",
//     "incr", "incr_by", "ping"
//   - Locks: "lock_acquire", "lock_release", "lock_extend", "with_lock"
//
// Resource conventions:
//   - Resource: the key, or the lock name for lock operations; keyless
//     operations ("ping") fall back to the server address
//   - SubResource: unused
//
// # Fx integration
//
// The package provides `FXModule` which constructs `*Redis` and also exposes it
// as the `Client` interface. Lifecycle hooks open the pools on start, run the
// monitoring goroutine while the application lives, and close the pools on stop.
//
//	app := fx.New(
//	    redis.FXModule,
//	    fx.Provide(func() (redis.Config, error) {
//	        return redis.ConfigFromEnv()
//	    }),
//	)
package redis
