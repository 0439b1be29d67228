// Package observability provides a unified interface for observing operations
// across the kit's infrastructure packages.
//
// # Overview
//
// The observability package defines a single Observer interface that all
// infrastructure packages can use to emit operation events. This allows
// applications to implement metrics, tracing, and logging in a consistent way
// across all infrastructure layers.
//
// # Design Philosophy
//
// 1. **Optional**: infrastructure packages work perfectly without an observer
// 2. **Unified**: Same interface for all infrastructure (DB, cache, HTTP, etc.)
// 3. **Flexible**: Observer can implement metrics, tracing, logging, or all three
// 4. **Generic**: OperationContext works across different infrastructure types
// 5. **Non-intrusive**: Minimal code in infrastructure packages
//
// # Usage in Infrastructure Packages
//
// Infrastructure packages accept an optional Observer in their config:
//
//	// postgres/configs.go
//	import "github.com/aalemi-dev/svckit/observability"
//
//	type Config struct {
//	    Host     string
//	    Port     int
//	    Database string
//
//	    // Optional observer for operation tracking
//	    Observer observability.Observer
//	}
//
// Then call the observer when operations complete:
//
//	func (p *Postgres) Create(ctx context.Context, value interface{}) error {
//	    start := time.Now()
//	    err := p.db.WithContext(ctx).Create(value).Error
//
//	    // Notify observer if present
//	    if p.config.Observer != nil {
//	        p.config.Observer.ObserveOperation(observability.OperationContext{
//	            Component: "postgres",
//	            Operation: "insert",
//	            Resource:  extractTableName(value),
//	            Duration:  time.Since(start),
//	            Error:     err,
//	        })
//	    }
//
//	    return err
//	}
//
// # Usage in Applications
//
// Applications implement the Observer interface to handle operations:
//
//	type MetricsObserver struct {
//	    metrics *metrics.Client
//	}
//
//	func (o *MetricsObserver) ObserveOperation(ctx observability.OperationContext) {
//	    // Record metrics based on component and operation
//	    switch ctx.Component {
//	    case "postgres", "mariadb":
//	        o.metrics.RecordDatabaseQuery(ctx.Operation, ctx.Resource, ctx.Duration, ctx.Error)
//
//	    case "redis":
//	        o.metrics.RecordCacheOperation(ctx.Operation, ctx.Resource, ctx.Duration, ctx.Error)
//
//	    case "http_client":
//	        o.metrics.RecordOutboundCall(ctx.Operation, ctx.Resource, ctx.SubResource, ctx.Duration, ctx.Error)
//	    }
//	}
//
// # Multi-Purpose Observer
//
// A single observer can handle metrics, tracing, and logging:
//
//	type CompositeObserver struct {
//	    metrics *metrics.Client
//	    tracer  *tracing.TracerClient
//	    logger  logger.Logger
//	}
//
//	func (o *CompositeObserver) ObserveOperation(ctx observability.OperationContext) {
//	    // Record metrics
//	    o.metrics.RecordOperation(ctx)
//
//	    // Log failures
//	    if ctx.Error != nil {
//	        o.logger.Error("operation failed",
//	            zap.String("component", ctx.Component),
//	            zap.String("operation", ctx.Operation),
//	            zap.Error(ctx.Error),
//	        )
//	    }
//	}
//
// # FX Integration
//
// Wire the observer through dependency injection:
//
//	// Provide observer implementation
//	fx.Provide(
//	    fx.Annotate(
//	        NewMetricsObserver,
//	        fx.As(new(observability.Observer)),
//	    ),
//	)
//
//	// Observer automatically injected into all infrastructure config providers
//	func PostgresConfigProvider(cfg Config, observer observability.Observer) postgres.Config {
//	    return postgres.Config{
//	        Host:     cfg.GetHost(),
//	        Observer: observer,
//	    }
//	}
//
// # OperationContext Fields
//
// The OperationContext struct provides a flexible way to describe any infrastructure operation:
//
//   - Component: Which kit package (postgres, mariadb, redis, http_client)
//   - Operation: What was done (insert, get, lock, post, etc.)
//   - Resource:  Primary resource (table, key, host, etc.)
//   - SubResource: Secondary resource (savepoint, field, path, etc.)
//   - Duration:  How long it took
//   - Error:     Any error that occurred
//   - Size:      Size of data (rows, bytes, etc.)
//   - Metadata:  Additional context
//
// # Examples Across Different Infrastructure
//
// Database (Postgres/MariaDB):
//
//	OperationContext{
//	    Component: "postgres",
//	    Operation: "insert",
//	    Resource:  "users",
//	    Duration:  23 * time.Millisecond,
//	    Size:      1, // rows affected
//	}
//
// Cache and locks (Redis):
//
//	OperationContext{
//	    Component:   "redis",
//	    Operation:   "lock",
//	    Resource:    "report-builder",
//	    Duration:    4 * time.Millisecond,
//	    Metadata:    map[string]interface{}{"ttl": "30s"},
//	}
//
// Outbound HTTP:
//
//	OperationContext{
//	    Component:   "http_client",
//	    Operation:   "post",
//	    Resource:    "billing.internal",
//	    SubResource: "/v1/invoices",
//	    Duration:    145 * time.Millisecond,
//	    Size:        2048, // response bytes
//	    Metadata:    map[string]interface{}{"status_code": 201},
//	}
//
// # Performance
//
// The observer pattern adds minimal overhead:
//   - One nil check per operation
//   - One function call if observer is present
//   - ~1-5 nanoseconds overhead
//   - No allocations if observer is nil
//
// # Thread Safety
//
// Observer implementations must be thread-safe. They will be called concurrently
// from multiple goroutines.
package observability
