package redis

import (
	"context"
	"strings"
	"time"
)

// Set stores a value under the given key, overwriting any existing value.
// A zero expiration keeps the key until it is deleted or overwritten.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to write
//   - value: The value to store (string, []byte, number, or encoding.BinaryMarshaler)
//   - expiration: Time until the key expires; 0 means no expiry
//
// Returns a driver error if the write fails or nil on success.
// Use TranslateError() to convert to standardized error types if needed.
//
// Example:
//
//	err := rdb.Set(ctx, "session:"+id, payload, 30*time.Minute)
func (r *Redis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	conn := r.conn()
	if conn == nil {
		return ErrPoolNotInitialized
	}
	start := time.Now()
	err := conn.data.Set(ctx, key, value, expiration).Err()
	r.observeOperation("set", key, "", time.Since(start), err, valueSize(value), nil)
	return err
}

// Get retrieves the string value stored under the given key.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to read
//
// Returns the stored value, or redis.Nil (translated to ErrKeyNotFound by
// TranslateError) when the key does not exist.
//
// Example:
//
//	val, err := rdb.Get(ctx, "session:"+id)
//	if errors.Is(rdb.TranslateError(err), redis.ErrKeyNotFound) {
//	    // Handle missing session
//	}
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	conn := r.conn()
	if conn == nil {
		return "", ErrPoolNotInitialized
	}
	start := time.Now()
	val, err := conn.data.Get(ctx, key).Result()
	r.observeOperation("get", key, "", time.Since(start), err, int64(len(val)), nil)
	return val, err
}

// SetNX stores a value under the given key only if the key does not exist.
// It reports whether the value was written, which makes it the primitive for
// simple one-shot guards; for cross-process mutual exclusion with ownership
// checks and extension, use the lock manager instead.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to write
//   - value: The value to store
//   - expiration: Time until the key expires; 0 means no expiry
//
// Returns true when the key was set, false when it already existed.
func (r *Redis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	conn := r.conn()
	if conn == nil {
		return false, ErrPoolNotInitialized
	}
	start := time.Now()
	ok, err := conn.data.SetNX(ctx, key, value, expiration).Result()
	r.observeOperation("set_nx", key, "", time.Since(start), err, valueSize(value), map[string]interface{}{
		"written": ok,
	})
	return ok, err
}

// Del removes the given keys. Keys that do not exist are ignored.
//
// Returns the number of keys that were removed.
func (r *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	conn := r.conn()
	if conn == nil {
		return 0, ErrPoolNotInitialized
	}
	start := time.Now()
	removed, err := conn.data.Del(ctx, keys...).Result()
	r.observeOperation("del", strings.Join(keys, ","), "", time.Since(start), err, removed, nil)
	return removed, err
}

// Exists reports whether the given key exists.
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	conn := r.conn()
	if conn == nil {
		return false, ErrPoolNotInitialized
	}
	start := time.Now()
	count, err := conn.data.Exists(ctx, key).Result()
	r.observeOperation("exists", key, "", time.Since(start), err, count, nil)
	return count > 0, err
}

// Expire sets a time to live on the given key.
//
// Returns true when the expiry was set, false when the key does not exist.
func (r *Redis) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	conn := r.conn()
	if conn == nil {
		return false, ErrPoolNotInitialized
	}
	start := time.Now()
	ok, err := conn.data.Expire(ctx, key, expiration).Result()
	r.observeOperation("expire", key, "", time.Since(start), err, 0, nil)
	return ok, err
}

// TTL returns the remaining time to live of the given key.
//
// Following the Redis protocol, it returns -1s for a key with no expiry and
// -2s for a key that does not exist.
func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, error) {
	conn := r.conn()
	if conn == nil {
		return 0, ErrPoolNotInitialized
	}
	start := time.Now()
	ttl, err := conn.data.TTL(ctx, key).Result()
	r.observeOperation("ttl", key, "", time.Since(start), err, 0, nil)
	return ttl, err
}

// Incr atomically increments the integer value stored under the given key by
// one, creating the key with value 0 first when it does not exist.
//
// Returns the value after the increment, or ErrWrongType (via TranslateError)
// when the key holds a non-integer value.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	conn := r.conn()
	if conn == nil {
		return 0, ErrPoolNotInitialized
	}
	start := time.Now()
	val, err := conn.data.Incr(ctx, key).Result()
	r.observeOperation("incr", key, "", time.Since(start), err, 0, nil)
	return val, err
}

// IncrBy atomically increments the integer value stored under the given key
// by the given amount, creating the key with value 0 first when it does not
// exist. Negative amounts decrement.
//
// Returns the value after the increment.
func (r *Redis) IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	conn := r.conn()
	if conn == nil {
		return 0, ErrPoolNotInitialized
	}
	start := time.Now()
	val, err := conn.data.IncrBy(ctx, key, value).Result()
	r.observeOperation("incr_by", key, "", time.Since(start), err, 0, nil)
	return val, err
}

// Ping checks connectivity to the Redis server over the data pool.
//
// Health aggregation should prefer Ready, which exercises a full write/read
// round trip and reports (ok, message) pairs instead of errors.
func (r *Redis) Ping(ctx context.Context) error {
	conn := r.conn()
	if conn == nil {
		return ErrPoolNotInitialized
	}
	start := time.Now()
	err := conn.data.Ping(ctx).Err()
	r.observeOperation("ping", "", "", time.Since(start), err, 0, nil)
	return err
}

// valueSize reports the payload size for observer accounting when the value
// has an obvious byte length.
func valueSize(value interface{}) int64 {
	switch v := value.(type) {
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	default:
		return 0
	}
}
