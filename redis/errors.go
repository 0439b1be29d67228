package redis

import (
	"context"
	"errors"
	"net"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

// Common Redis error types that can be used by consumers of this package.
// These provide a standardized set of errors that abstract away the
// underlying driver-specific error details.
var (
	// ErrKeyNotFound is returned when a read targets a key that doesn't exist
	ErrKeyNotFound = errors.New("key not found")

	// ErrWrongType is returned when an operation targets a key holding a
	// different data type (e.g., INCR on a hash)
	ErrWrongType = errors.New("wrong type for key")

	// ErrConnectionFailed is returned when a connection to the Redis server cannot be established
	ErrConnectionFailed = errors.New("redis connection failed")

	// ErrConnectionLost is returned when an established connection to the Redis server is lost
	ErrConnectionLost = errors.New("redis connection lost")

	// ErrTimeout is returned when an operation exceeds its deadline
	ErrTimeout = errors.New("operation timeout")

	// ErrCancelled is returned when an operation is cancelled through its context
	ErrCancelled = errors.New("operation cancelled")

	// ErrInvalidCredentials is returned when authentication with the server fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrServiceUnavailable is returned when the server is up but cannot serve
	// commands yet (loading its dataset, busy with a script, out of client slots)
	ErrServiceUnavailable = errors.New("redis service unavailable")

	// ErrOutOfMemory is returned when the server rejects a write because it
	// reached its configured maxmemory limit
	ErrOutOfMemory = errors.New("redis out of memory")

	// ErrReadOnlyReplica is returned when a write is sent to a read-only
	// replica, typically mid-failover
	ErrReadOnlyReplica = errors.New("write against read-only replica")

	// ErrPoolNotInitialized is returned when an operation requires an open
	// connection pool but InitPool has not been called (or the pool was closed)
	ErrPoolNotInitialized = errors.New("connection pool not initialized")

	// ErrPoolAlreadyInitialized is returned when InitPool is called on a client
	// whose connection pool is already open
	ErrPoolAlreadyInitialized = errors.New("connection pool already initialized")

	// ErrLockAlreadyHeld is returned by WithLock when the named lock is held by
	// another process. Contention is a normal outcome of distributed locking;
	// callers branch on it with errors.Is rather than escalating it.
	ErrLockAlreadyHeld = errors.New("lock already held elsewhere")

	// ErrLockNotHeld is returned when releasing or extending a lock that is no
	// longer held by the caller, usually because its expiry elapsed
	ErrLockNotHeld = errors.New("lock not held")
)

// TranslateError converts driver-specific errors into standardized application errors.
// This function provides abstraction from the underlying go-redis implementation
// details, allowing application code to handle errors in a driver-agnostic way.
//
// Basic operations deliberately return raw driver errors; call TranslateError at
// the point where the caller branches on the failure kind. If an error doesn't
// match any known type, it's returned unchanged.
func (r *Redis) TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, goredis.Nil) {
		return ErrKeyNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrCancelled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	// Server replies carry an uppercase prefix ("WRONGTYPE ...", "LOADING ...");
	// match on the lowered message so wrapped errors translate too.
	return r.translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translateByErrorMessage translates errors based on error message patterns (fallback)
func (r *Redis) translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	// Connection related
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "no such host"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "broken pipe"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "use of closed network connection"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "client is closed"):
		return ErrConnectionLost

	// Timeout related
	case strings.Contains(errMsg, "i/o timeout"):
		return ErrTimeout
	case strings.Contains(errMsg, "deadline exceeded"):
		return ErrTimeout

	// Server state replies
	case strings.Contains(errMsg, "loading redis is loading"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "busy redis is busy"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "max number of clients reached"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "masterdown"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "clusterdown"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "readonly"):
		return ErrReadOnlyReplica
	case strings.Contains(errMsg, "oom command not allowed"):
		return ErrOutOfMemory

	// Authentication replies
	case strings.Contains(errMsg, "noauth"):
		return ErrInvalidCredentials
	case strings.Contains(errMsg, "wrongpass"):
		return ErrInvalidCredentials
	case strings.Contains(errMsg, "invalid password"):
		return ErrInvalidCredentials
	case strings.Contains(errMsg, "noperm"):
		return ErrInvalidCredentials

	// Data type replies
	case strings.Contains(errMsg, "wrongtype"):
		return ErrWrongType
	case strings.Contains(errMsg, "not an integer or out of range"):
		return ErrWrongType

	default:
		// Return the original error if no pattern matches
		return originalErr
	}
}

// IsRetryableError returns true if the error describes a transient condition
// worth retrying: connection loss, timeouts, a server that is temporarily
// unable to serve, or a replica rejecting writes mid-failover.
//
// Lock contention (ErrLockAlreadyHeld) is not listed: whether to retry for a
// lock is a business decision, not a transport one.
func (r *Redis) IsRetryableError(err error) bool {
	translated := r.TranslateError(err)
	switch {
	case errors.Is(translated, ErrConnectionFailed),
		errors.Is(translated, ErrConnectionLost),
		errors.Is(translated, ErrTimeout),
		errors.Is(translated, ErrServiceUnavailable),
		errors.Is(translated, ErrReadOnlyReplica):
		return true
	default:
		return false
	}
}
