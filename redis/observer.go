package redis

import (
	"net"
	"time"

	"github.com/aalemi-dev/svckit/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
// This is used internally to track Redis operations for metrics and tracing.
//
// Parameters:
//   - operation: The type of operation being performed (e.g., "get", "set", "lock_acquire")
//   - key: The key or lock name (used as resource); if empty it falls back to
//     the server address, so keyless operations like "ping" stay attributable
//   - subResource: Secondary identifier, unused by most operations
//   - duration: How long the operation took
//   - err: Any error that occurred during the operation
//   - size: The size in bytes of data transferred, where meaningful
//   - metadata: Additional metadata about the operation
func (r *Redis) observeOperation(operation, key, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	if key == "" {
		key = net.JoinHostPort(r.cfg.Connection.Host, r.cfg.Connection.Port)
	}

	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "redis",
		Operation:   operation,
		Resource:    key,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
