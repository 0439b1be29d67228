// Package mariadb provides a MariaDB/MySQL client built on top of GORM.
//
// The package exposes a small, database-agnostic interface (`Client`) plus a fluent
// query builder (`QueryBuilder`). The concrete implementation (`*MariaDB`) wraps a
// `*gorm.DB` and adds:
//   - Explicit pool lifecycle (`InitPool` / `Close`) with readiness probing (`Ready`)
//   - Context-scoped connection and transaction management (`WithConnection` / `WithTransaction`)
//   - Periodic health checks and automatic reconnection (via `MonitorConnection` + `RetryConnection`)
//   - Standardized CRUD and query-builder helpers
//   - Optional error normalization (`TranslateError`)
//
// # Pool lifecycle
//
// Construction never touches the network. `NewMariaDB` only captures configuration;
// the pool is opened later with `InitPool` and released with `Close`:
//
//	db := mariadb.NewMariaDB(cfg)
//	if err := db.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer db.Close(context.Background())
//
// Calling `InitPool` twice returns `ErrPoolAlreadyInitialized`. Operations invoked
// before the pool is opened return `ErrPoolNotInitialized` (the chained `Query`
// builder panics with it instead, since its API has no error return). `Close` is
// idempotent and a no-op on a client whose pool was never opened.
//
// # Concurrency model
//
// The active `*gorm.DB` connection pointer is stored in an `atomic.Pointer`. Calls that
// need a DB snapshot simply load the pointer and run the operation without holding any
// package-level locks. Reconnection swaps the pointer atomically.
//
// # Scoped connections and transactions
//
// `WithConnection` checks a single connection out of the pool, binds it to the
// context it passes to the callback, and releases it when the callback returns
// on any path. Nested calls on the same client reuse the already-bound
// connection instead of checking out another one:
//
//	err := db.WithConnection(ctx, func(ctx context.Context, conn mariadb.Client) error {
//	    // Both of these run on the same pooled connection.
//	    if err := conn.Create(ctx, &User{Name: "Alice"}); err != nil {
//	        return err
//	    }
//	    return db.WithConnection(ctx, func(ctx context.Context, inner mariadb.Client) error {
//	        return inner.First(ctx, &user, "name = ?", "Alice")
//	    })
//	})
//
// `WithTransaction` does the same and additionally wraps the callback in a
// transaction on that connection. Nesting `WithTransaction` calls creates
// savepoints, so an inner failure rolls back to the savepoint without
// aborting the outer transaction.
//
// Basic usage
//
//	cfg := mariadb.Config{
//	    Connection: mariadb.Connection{
//	        Host:      "localhost",
//	        Port:      "3306",
//	        User:      "root",
//	        Password:  "password",
//	        DbName:    "mydb",
//	        Charset:   "utf8mb4",
//	        ParseTime: true,
//	    },
//	}
//
//	db := mariadb.NewMariaDB(cfg)
//	if err := db.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer db.GracefulShutdown()
//
//	var users []User
//	if err := db.Find(ctx, &users, "age > ?", 18); err != nil {
//	    // handle
//	}
//
// Transaction usage
//
//	err := db.WithTransaction(ctx, func(ctx context.Context, tx mariadb.Client) error {
//	    if err := tx.Create(ctx, &User{Name: "Alice"}); err != nil {
//	        return err
//	    }
//	    return nil
//	})
//
// # Observability (Observer hook)
//
// The MariaDB client supports optional observability through the unified
// `observability.Observer` interface (`github.com/aalemi-dev/svckit/observability`).
// If an observer is attached, it will be notified after each operation completes
// (success or error) with an `observability.OperationContext`.
//
// Non-Fx usage (builder pattern):
//
//	db := mariadb.NewMariaDB(cfg).WithObserver(myObserver)
//	if err := db.InitPool(ctx); err != nil {
//	    return err
//	}
//
// Fx usage (optional injection):
//
//	app := fx.New(
//	    mariadb.FXModule,
//	    fx.Provide(loadMariaDBConfig),
//	    fx.Provide(func() observability.Observer {
//	        return myObserver
//	    }),
//	)
//
// The MariaDB client emits (at least) the following operation names:
//   - Basic ops: "find", "first", "create", "save", "update", "update_column",
//     "update_columns", "update_where", "delete", "count", "exec"
//   - Query builder terminal ops: "scan", "last", "pluck", "create_in_batches",
//     "first_or_init", "first_or_create"
//   - Scopes and transactions: "with_connection", "with_transaction", "transaction"
//   - Migrations: "auto_migrate", "migrate_up", "migrate_down", "migration_status"
//
// Resource conventions:
//   - Resource: table name when available (otherwise falls back to database name)
//   - SubResource: optional extra context (e.g. migration id / migrations dir)
//
// # Differences from the postgres package
//
// This package provides nearly identical functionality to the postgres package,
// with the following notable differences:
//
//   - Connection configuration uses MySQL DSN format instead of PostgreSQL format
//   - ForNoKeyUpdate() is a no-op (PostgreSQL-only feature)
//   - ForKeyShare() is a no-op (PostgreSQL-only feature)
//   - Returning() is a no-op (use LAST_INSERT_ID() for inserts)
//   - SKIP LOCKED and NOWAIT require MySQL 8.0+ or MariaDB 10.3+/10.6+
//
// # Fx integration
//
// The package provides `FXModule` which constructs `*MariaDB` and also exposes it as
// the `Client` interface. Lifecycle hooks open the pool on start, run the
// monitoring goroutines while the application lives, and close the pool on stop.
//
//	app := fx.New(
//	    mariadb.FXModule,
//	    fx.Provide(loadMariaDBConfig),
//	)
package mariadb
