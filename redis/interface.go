// Package redis provides Redis key/value operations and distributed locking
// with an interface-first design. The Client interface defined here gives
// applications a stable API they can mock in tests and swap implementations
// behind.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client is the main Redis client interface providing key/value operations,
// distributed locking, and health introspection.
//
// This interface allows applications to:
//   - Mock Redis operations easily for testing
//   - Depend on abstractions rather than concrete implementations
//   - Share one wiring across services via the fx module
//
// The Redis type implements this interface.
type Client interface {
	// Pool lifecycle.
	//
	// A client is constructed without connecting. InitPool dials the server
	// and installs the connection pools (data and locks); calling it again
	// returns ErrPoolAlreadyInitialized. Close releases the pools and is a
	// no-op when they were never opened. Operations invoked before InitPool
	// return ErrPoolNotInitialized.
	InitPool(ctx context.Context) error
	Close(ctx context.Context) error

	// Basic key/value operations
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, value int64) (int64, error)
	Ping(ctx context.Context) error

	// Distributed locking.
	//
	// Locks returns the lock manager for cross-process mutual exclusion.
	// "Lock already held elsewhere" is a normal outcome of distributed
	// locking, reported through Acquire's boolean or WithLock's
	// ErrLockAlreadyHeld, never through an infrastructure error.
	Locks() *LockManager

	// Raw driver access for advanced use cases (pipelines, pub/sub, scripting).
	// Returns nil before InitPool. Use this when you need go-redis
	// functionality not covered by the wrapper methods.
	Conn() *goredis.Client

	// Health and pool introspection.
	//
	// Ready reports whether the server answers a write/read probe; on failure
	// the second return value carries the error message instead of an error,
	// so readiness aggregation never has to branch on error types.
	Ready(ctx context.Context) (bool, string)
	PoolStats() (*goredis.PoolStats, error)

	// Error translation / classification.
	//
	// The kit deliberately returns raw driver errors from key/value methods.
	// Use TranslateError to normalize errors to the exported sentinels
	// (ErrKeyNotFound, ErrWrongType, ...) at the point where the caller
	// branches on the failure kind.
	TranslateError(err error) error
	IsRetryableError(err error) bool

	// Lifecycle management
	GracefulShutdown() error
}

// Locker is the distributed lock surface of the package. The LockManager type
// implements it; consumers that only coordinate work can depend on this
// narrower interface instead of the full Client.
type Locker interface {
	// Acquire attempts to take the named lock, reporting contention through
	// the boolean: (nil, false, nil) means another process holds it.
	Acquire(ctx context.Context, name string, opts ...LockOption) (*Lock, bool, error)

	// WithLock runs fn while holding the named lock, releasing on every exit
	// path. It returns ErrLockAlreadyHeld without running fn when the lock is
	// held elsewhere.
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error, opts ...LockOption) error
}
