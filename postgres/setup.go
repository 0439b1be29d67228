package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aalemi-dev/svckit/observability"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Postgres is a wrapper around gorm.DB that provides an explicit pool lifecycle,
// context-scoped connection reuse, connection monitoring, automatic reconnection,
// and standardized database operations.
//
// Implements the Client interface.
//
// Concurrency: the active `*gorm.DB` pointer is stored in an atomic pointer and can be
// swapped during reconnection without blocking readers.
type Postgres struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	observer        observability.Observer
	logger          Logger
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	// owner points at the pool-owning client for scope clones; nil on the
	// pool-owning client itself. See scope.go.
	owner *Postgres

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres creates a new Postgres instance with the provided configuration.
// It does not connect: the connection pool is opened by InitPool, which the fx
// lifecycle calls on application start. Construction therefore never fails and
// a client can be built before the database is reachable.
//
// Returns *Postgres concrete type (following Go best practice: "accept interfaces, return structs").
func NewPostgres(cfg Config) *Postgres {
	return &Postgres{
		cfg:             cfg,
		observer:        nil, // No observer by default
		logger:          nil, // No logger by default
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
}

// InitPool dials the database and installs the connection pool.
//
// Calling InitPool on a client whose pool is already open returns
// ErrPoolAlreadyInitialized; the existing pool is left untouched. When two
// goroutines race to initialize, exactly one wins and the loser's freshly
// dialed pool is closed again.
func (p *Postgres) InitPool(ctx context.Context) error {
	if p.DB() != nil {
		return ErrPoolAlreadyInitialized
	}

	conn, err := connectToPostgres(p.cfg)
	if err != nil {
		return fmt.Errorf("failed to open connection pool: %w", err)
	}

	if !p.client.CompareAndSwap(nil, conn) {
		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return ErrPoolAlreadyInitialized
	}

	p.logInfo(ctx, "database pool opened", nil)
	return nil
}

// Close releases the connection pool. It is idempotent: closing a client whose
// pool was never opened (or was already closed) is a no-op, so teardown paths
// don't need to track initialization state.
func (p *Postgres) Close(ctx context.Context) error {
	dbConn := p.client.Swap(nil)
	if dbConn == nil {
		return nil
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during close: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close connection pool: %w", err)
	}

	p.logInfo(ctx, "database pool closed", nil)
	return nil
}

// Ready reports whether the database currently answers a probe query.
//
// It returns (false, message) instead of an error so readiness aggregation can
// collect per-service check results without branching on error types. An
// uninitialized pool reports not ready rather than failing the probe.
func (p *Postgres) Ready(ctx context.Context) (bool, string) {
	dbConn := p.DB()
	if dbConn == nil {
		return false, "connection pool not initialized"
	}

	var one int
	if err := dbConn.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		p.logError(ctx, "unknown connection error", map[string]interface{}{
			"error": err.Error(),
		})
		return false, err.Error()
	}
	return true, ""
}

// PoolStats returns the standard library pool counters for the open pool.
// It fails with ErrPoolNotInitialized before InitPool.
func (p *Postgres) PoolStats() (sql.DBStats, error) {
	dbConn := p.DB()
	if dbConn == nil {
		return sql.DBStats{}, ErrPoolNotInitialized
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get database instance for pool stats: %w", err)
	}
	return sqlDB.Stats(), nil
}

// connectToPostgres establishes a connection to the PostgresSQL database using the provided
// configuration. It sets up the connection string, opens the connection with GORM,
// and configures the connection pool with appropriate parameters for performance.
// Returns the initialized GORM DB instance or an error if the connection fails.
func connectToPostgres(postgresConfig Config) (*gorm.DB, error) {
	pgConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		postgresConfig.Connection.Host,
		postgresConfig.Connection.Port,
		postgresConfig.Connection.User,
		postgresConfig.Connection.Password,
		postgresConfig.Connection.DbName,
		postgresConfig.Connection.SSLMode)

	database, err := gorm.Open(
		postgres.Open(pgConnStr),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgresSQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgresSQL database instance: %w", err)
	}

	// Set connection pool parameters.
	// If config fields are not set (zero), apply package defaults to preserve prior behavior.
	maxOpen := postgresConfig.ConnectionDetails.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := postgresConfig.ConnectionDetails.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 25
	}
	maxLifetime := postgresConfig.ConnectionDetails.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 1 * time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpen)
	databaseInstance.SetMaxIdleConns(maxIdle)
	databaseInstance.SetConnMaxLifetime(maxLifetime)

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the PostgresSQL database when notified
// of a connection failure. It operates as a goroutine that waits for signals on retryChanSignal
// before attempting reconnection. The function respects context cancellation and shutdown signals,
// ensuring graceful termination when requested.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			p.logInfo(ctx, "Stopping RetryConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-p.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					// A pool that was closed while a retry was pending stays closed.
					if p.DB() == nil {
						continue outerLoop
					}
					newConn, err := connectToPostgres(p.cfg)
					if err != nil {
						p.logError(ctx, "PostgreSQL reconnection failed", map[string]interface{}{
							"error": err.Error(),
						})
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.client.Store(newConn)
					p.logInfo(ctx, "Successfully reconnected to PostgreSQL database", nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection periodically checks the health of the database connection
// and triggers reconnection attempts when necessary. It runs as a goroutine that
// performs health checks at regular intervals (10 seconds) and signals the
// RetryConnection goroutine when a failure is detected.
//
// A client whose pool is not open (not yet initialized, or explicitly closed)
// is skipped rather than treated as a failure, so monitoring never resurrects
// a closed pool.
//
// The function respects context cancellation and shutdown signals, ensuring
// proper resource cleanup and graceful termination when requested.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.logInfo(ctx, "Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			if p.DB() == nil {
				continue
			}
			err := p.healthCheck()
			if err != nil {
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck performs a health check on the Postgres database connection.
// It snapshots the current *gorm.DB, then attempts to ping the database with a
// timeout of 5 seconds to verify connectivity.
//
// It returns nil if the database is healthy, or an error with details about the issue.
func (p *Postgres) healthCheck() error {
	// Snapshot the current connection; do not hold any package-level lock while pinging.
	dbConn := p.DB()
	if dbConn == nil {
		return ErrPoolNotInitialized
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}

	return nil
}

// WithObserver attaches an observer to the Postgres client for observability hooks.
// This method uses the builder pattern and returns the client for method chaining.
//
// The observer will be notified of all database operations, allowing
// external systems to track metrics, traces, or other observability data.
//
// Example:
//
//	client := postgres.NewPostgres(config).WithObserver(myObserver)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (p *Postgres) WithObserver(observer observability.Observer) *Postgres {
	p.observer = observer
	return p
}

// WithLogger attaches a logger to the Postgres client for internal logging.
// This method uses the builder pattern and returns the client for method chaining.
//
// The logger will be used for lifecycle events, connection monitoring, and background operations.
//
// Example:
//
//	client := postgres.NewPostgres(config).WithLogger(myLogger)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (p *Postgres) WithLogger(logger Logger) *Postgres {
	p.logger = logger
	return p
}

// logInfo logs an informational message using the configured logger if available.
// This is used for lifecycle and background operation logging.
func (p *Postgres) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
// This is used for non-critical issues during connection monitoring.
func (p *Postgres) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
// This is only used for errors in background goroutines that can't be returned to the caller.
func (p *Postgres) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
