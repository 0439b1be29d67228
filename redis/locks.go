package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// Defaults applied when an Acquire call passes no overriding LockOption.
const (
	// defaultLockExpiry is how long an acquired lock stays held before the
	// server expires it. The expiry is the crash safety net: a process that
	// dies while holding a lock blocks others only until it elapses.
	defaultLockExpiry = 10 * time.Second

	// defaultLockTries is how many times Acquire attempts to take a contended
	// lock before reporting it held elsewhere.
	defaultLockTries = 3

	// defaultLockRetryDelay is the pause between acquisition attempts.
	defaultLockRetryDelay = 200 * time.Millisecond
)

// LockManager provides cross-process mutual exclusion backed by Redis.
// Locks are held in the logical database selected by Connection.LocksDB so
// their bookkeeping keys stay out of application data.
//
// The manager is created together with its Redis client and keeps its
// identity across pool open/close cycles; acquiring through it before
// InitPool fails with ErrPoolNotInitialized.
//
// Contention is a normal outcome, not an error: Acquire reports "held
// elsewhere" through its boolean, and WithLock through ErrLockAlreadyHeld.
// Only infrastructure failures (server unreachable, authentication) surface
// as other errors.
type LockManager struct {
	r *Redis
}

// Lock represents one held distributed lock. It is owned by the caller that
// acquired it and must be released exactly once with Unlock; a lock that is
// never released expires on its own after its expiry elapses.
type Lock struct {
	mutex *redsync.Mutex
	r     *Redis
	name  string
}

// LockOption overrides one acquisition parameter for a single Acquire or
// WithLock call.
type LockOption func(*lockOptions)

type lockOptions struct {
	expiry     time.Duration
	tries      int
	retryDelay time.Duration
}

// WithLockExpiry sets how long the lock stays held before the server expires
// it. Choose a value comfortably above the expected critical-section duration;
// use Extend from long-running holders.
func WithLockExpiry(expiry time.Duration) LockOption {
	return func(o *lockOptions) {
		o.expiry = expiry
	}
}

// WithLockTries sets how many acquisition attempts are made before the lock is
// reported held elsewhere. One try turns Acquire into a pure try-lock.
func WithLockTries(tries int) LockOption {
	return func(o *lockOptions) {
		if tries < 1 {
			tries = 1
		}
		o.tries = tries
	}
}

// WithLockRetryDelay sets the pause between acquisition attempts.
func WithLockRetryDelay(delay time.Duration) LockOption {
	return func(o *lockOptions) {
		o.retryDelay = delay
	}
}

func applyLockOptions(opts []LockOption) lockOptions {
	o := lockOptions{
		expiry:     defaultLockExpiry,
		tries:      defaultLockTries,
		retryDelay: defaultLockRetryDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Acquire attempts to take the named lock.
//
// It returns (lock, true, nil) when the lock was taken, and (nil, false, nil)
// when another process holds it: contention is a reported outcome, not an
// error. A non-nil error means the attempt itself failed (pool not
// initialized, server unreachable, context cancelled).
//
// Parameters:
//   - ctx: Context for the acquisition attempts
//   - name: The lock name, shared by all processes contending for it
//   - opts: Optional overrides for expiry, tries, and retry delay
//
// Example:
//
//	lock, ok, err := rdb.Locks().Acquire(ctx, "reports:rebuild")
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    return nil // another instance is already rebuilding
//	}
//	defer lock.Unlock(ctx)
func (l *LockManager) Acquire(ctx context.Context, name string, opts ...LockOption) (*Lock, bool, error) {
	conn := l.r.conn()
	if conn == nil {
		return nil, false, ErrPoolNotInitialized
	}

	o := applyLockOptions(opts)
	mutex := conn.rs.NewMutex(name,
		redsync.WithExpiry(o.expiry),
		redsync.WithTries(o.tries),
		redsync.WithRetryDelay(o.retryDelay),
	)

	start := time.Now()
	if err := mutex.LockContext(ctx); err != nil {
		// redsync reports a context cancelled mid-retry as a failed
		// acquisition; surface it as the cancellation it is.
		if ctxErr := ctx.Err(); ctxErr != nil {
			l.r.observeOperation("lock_acquire", name, "", time.Since(start), ctxErr, 0, nil)
			return nil, false, fmt.Errorf("failed to acquire lock %q: %w", name, ctxErr)
		}
		if isHeldElsewhere(err) {
			l.r.observeOperation("lock_acquire", name, "", time.Since(start), nil, 0, map[string]interface{}{
				"acquired": false,
			})
			return nil, false, nil
		}
		l.r.observeOperation("lock_acquire", name, "", time.Since(start), err, 0, nil)
		return nil, false, fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}

	l.r.observeOperation("lock_acquire", name, "", time.Since(start), nil, 0, map[string]interface{}{
		"acquired": true,
	})
	return &Lock{mutex: mutex, r: l.r, name: name}, true, nil
}

// WithLock runs fn while holding the named lock and releases it when fn
// returns, on every exit path including panics.
//
// When another process holds the lock it returns ErrLockAlreadyHeld without
// running fn; callers treat that as "someone else is doing the work" and
// branch on it with errors.Is. Errors from fn come back unchanged. A failure
// to release afterwards is logged and suppressed: it happens during teardown
// when nothing can act on it, and the lock expires on its own.
//
// Example:
//
//	err := rdb.Locks().WithLock(ctx, "billing:run:"+day, func(ctx context.Context) error {
//	    return runBilling(ctx, day)
//	})
//	if errors.Is(err, redis.ErrLockAlreadyHeld) {
//	    return nil // another instance owns this run
//	}
func (l *LockManager) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error, opts ...LockOption) error {
	start := time.Now()

	lock, ok, err := l.Acquire(ctx, name, opts...)
	if err != nil {
		return err
	}
	if !ok {
		l.r.observeOperation("with_lock", name, "", time.Since(start), ErrLockAlreadyHeld, 0, nil)
		return ErrLockAlreadyHeld
	}

	defer func() {
		if uerr := lock.Unlock(ctx); uerr != nil {
			l.r.logWarn(ctx, "cannot release distributed lock", map[string]interface{}{
				"lock":  name,
				"error": uerr.Error(),
			})
		}
	}()

	err = fn(ctx)
	l.r.observeOperation("with_lock", name, "", time.Since(start), err, 0, nil)
	return err
}

// Unlock releases the lock.
//
// It returns ErrLockNotHeld when the lock is no longer owned by this holder,
// which happens when the expiry elapsed and another process took it over.
// Work guarded by the lock should treat that as a sign it may have run past
// its exclusivity window.
func (l *Lock) Unlock(ctx context.Context) error {
	start := time.Now()
	ok, err := l.mutex.UnlockContext(ctx)
	switch {
	// The lock either expired (redsync reports the missing key) or expired and
	// was taken over (redsync reports the mismatched value as taken). Both mean
	// this holder no longer owns it.
	case errors.Is(err, redsync.ErrLockAlreadyExpired), isHeldElsewhere(err):
		l.r.observeOperation("lock_release", l.name, "", time.Since(start), ErrLockNotHeld, 0, nil)
		return ErrLockNotHeld
	case err != nil:
		l.r.observeOperation("lock_release", l.name, "", time.Since(start), err, 0, nil)
		return fmt.Errorf("failed to release lock %q: %w", l.name, err)
	case !ok:
		l.r.observeOperation("lock_release", l.name, "", time.Since(start), ErrLockNotHeld, 0, nil)
		return ErrLockNotHeld
	}
	l.r.observeOperation("lock_release", l.name, "", time.Since(start), nil, 0, nil)
	return nil
}

// Extend pushes the lock's expiry out by its full expiry duration again.
// Long-running holders call it periodically to keep exclusive ownership.
//
// It returns ErrLockNotHeld when the lock already expired or was taken over,
// in which case the holder no longer has exclusivity and should stop.
func (l *Lock) Extend(ctx context.Context) error {
	start := time.Now()
	ok, err := l.mutex.ExtendContext(ctx)
	switch {
	case errors.Is(err, redsync.ErrExtendFailed), errors.Is(err, redsync.ErrLockAlreadyExpired):
		l.r.observeOperation("lock_extend", l.name, "", time.Since(start), ErrLockNotHeld, 0, nil)
		return ErrLockNotHeld
	case err != nil:
		l.r.observeOperation("lock_extend", l.name, "", time.Since(start), err, 0, nil)
		return fmt.Errorf("failed to extend lock %q: %w", l.name, err)
	case !ok:
		l.r.observeOperation("lock_extend", l.name, "", time.Since(start), ErrLockNotHeld, 0, nil)
		return ErrLockNotHeld
	}
	l.r.observeOperation("lock_extend", l.name, "", time.Since(start), nil, 0, nil)
	return nil
}

// Name returns the lock's name.
func (l *Lock) Name() string {
	return l.name
}

// Until returns the time at which the server will expire the lock unless it
// is extended or released first.
func (l *Lock) Until() time.Time {
	return l.mutex.Until()
}

// isHeldElsewhere reports whether a redsync acquisition error means the lock
// is held by another process, as opposed to the attempt itself failing.
func isHeldElsewhere(err error) bool {
	if errors.Is(err, redsync.ErrFailed) {
		return true
	}
	var taken *redsync.ErrTaken
	if errors.As(err, &taken) {
		return true
	}
	var nodeTaken *redsync.ErrNodeTaken
	return errors.As(err, &nodeTaken)
}
