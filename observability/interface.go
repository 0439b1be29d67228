package observability

import "time"

// Observer is a unified interface for observing operations across the kit's
// infrastructure packages. It allows external code to observe operations
// happening in infrastructure packages (postgres, mariadb, redis, httpclient)
// without coupling them to specific observability implementations
// (metrics, tracing, logging).
//
// This interface is optional - infrastructure packages work perfectly fine
// without an observer.
type Observer interface {
	// ObserveOperation is called when an infrastructure operation completes.
	// It provides all context about the operation in a structured format.
	ObserveOperation(ctx OperationContext)
}

// OperationContext contains all information about an infrastructure operation.
// This struct is designed to be generic enough to work across all kit
// packages while providing enough detail for comprehensive observability.
type OperationContext struct {
	// Component identifies which kit package performed the operation.
	// Examples: "postgres", "mariadb", "redis", "http_client"
	Component string

	// Operation describes what operation was performed.
	// Examples:
	//   Database: "insert", "select", "update", "delete", "transaction"
	//   Redis:    "get", "set", "delete", "lock", "unlock"
	//   HTTP:     "get", "post", "put"
	Operation string

	// Resource identifies the primary resource being operated on.
	// Examples:
	//   Database: table name ("users", "files", "datasets")
	//   Redis:    key or lock name ("session:123", "report-builder")
	//   HTTP:     target host ("billing.internal")
	Resource string

	// SubResource provides additional resource context (optional).
	// Examples:
	//   Database: savepoint name within a transaction
	//   Redis:    hash field within a key
	//   HTTP:     request path ("/v1/invoices")
	SubResource string

	// Duration is how long the operation took from start to completion.
	Duration time.Duration

	// Error is the error returned by the operation, if any.
	// nil indicates successful operation.
	Error error

	// Size represents the size of data involved in the operation (optional).
	// Examples:
	//   Database: number of rows affected
	//   Redis:    payload size in bytes
	//   HTTP:     response body size in bytes
	Size int64

	// Metadata provides additional operation-specific information (optional).
	// This map can contain any extra context that doesn't fit in the standard fields.
	// Examples:
	//   Database: {"query_type": "join", "index_used": "idx_user_email"}
	//   Redis:    {"ttl": "30s", "already_held": true}
	//   HTTP:     {"status_code": 502, "attempt": 2}
	Metadata map[string]interface{}
}
