// Package postgres provides a PostgreSQL client built on top of GORM.
//
// The package exposes a small, database-agnostic interface (`Client`) plus a fluent
// query builder (`QueryBuilder`). The concrete implementation (`*Postgres`) wraps a
// `*gorm.DB` and adds:
//   - Explicit pool lifecycle (`InitPool` / `Close`) with readiness probing (`Ready`)
//   - Context-scoped connection and transaction management (`WithConnection` / `WithTransaction`)
//   - Periodic health checks and automatic reconnection (via `MonitorConnection` + `RetryConnection`)
//   - Standardized CRUD and query-builder helpers
//   - Optional error normalization (`TranslateError`)
//
// # Pool lifecycle
//
// Construction never touches the network. `NewPostgres` only captures configuration;
// the pool is opened later with `InitPool` and released with `Close`:
//
//	pg := postgres.NewPostgres(cfg)
//	if err := pg.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer pg.Close(context.Background())
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
//	err := pg.WithConnection(ctx, func(ctx context.Context, conn postgres.Client) error {
//	    // Both of these run on the same pooled connection.
//	    if err := conn.Create(ctx, &User{Name: "Alice"}); err != nil {
//	        return err
//	    }
//	    return pg.WithConnection(ctx, func(ctx context.Context, inner postgres.Client) error {
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
//	cfg := postgres.Config{
//	    Connection: postgres.Connection{
//	        Host:     "localhost",
//	        Port:     "5432",
//	        User:     "postgres",
//	        Password: "password",
//	        DbName:   "mydb",
//	        SSLMode:  "disable",
//	    },
//	}
//
//	pg := postgres.NewPostgres(cfg)
//	if err := pg.InitPool(ctx); err != nil {
//	    // handle
//	}
//	defer pg.GracefulShutdown()
//
//	var users []User
//	if err := pg.Find(ctx, &users, "active = ?", true); err != nil {
//	    // handle
//	}
//
// Transaction usage
//
//	err := pg.WithTransaction(ctx, func(ctx context.Context, tx postgres.Client) error {
//	    if err := tx.Create(ctx, &User{Name: "Alice"}); err != nil {
//	        return err
//	    }
//	    return nil
//	})
//
// # Observability (Observer hook)
//
// The Postgres client supports optional observability through the unified
// `observability.Observer` interface (`github.com/aalemi-dev/svckit/observability`).
// If an observer is attached, it will be notified after each operation completes
// (success or error) with an `observability.OperationContext`.
//
// Non-Fx usage (builder pattern):
//
//	pg := postgres.NewPostgres(cfg).WithObserver(myObserver)
//	if err := pg.InitPool(ctx); err != nil {
//	    return err
//	}
//
// Fx usage (optional injection):
//
//	app := fx.New(
//	    postgres.FXModule,
//	    fx.Provide(loadPostgresConfig),
//	    fx.Provide(func() observability.Observer {
//	        return myObserver
//	    }),
//	)
//
// The Postgres client emits (at least) the following operation names:
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
// # Fx integration
//
// The package provides `FXModule` which constructs `*Postgres` and also exposes it as
// the `Client` interface. Lifecycle hooks open the pool on start, run the
// monitoring goroutines while the application lives, and close the pool on stop.
//
//	app := fx.New(
//	    postgres.FXModule,
//	    fx.Provide(loadPostgresConfig),
//	)
package postgres
