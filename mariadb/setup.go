package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aalemi-dev/svckit/observability"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MariaDB is a wrapper around gorm.DB that provides an explicit pool lifecycle,
// context-scoped connection reuse, connection monitoring, automatic reconnection,
// and standardized database operations for MariaDB/MySQL.
//
// Implements the Client interface.
//
// Concurrency: the active `*gorm.DB` pointer is stored in an atomic pointer and can be
// swapped during reconnection without blocking readers.
type MariaDB struct {
	cfg             Config
	client          atomic.Pointer[gorm.DB]
	observer        observability.Observer
	logger          Logger
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	// owner points at the pool-owning client for scope clones; nil on the
	// pool-owning client itself. See scope.go.
	owner *MariaDB

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewMariaDB creates a new MariaDB instance with the provided configuration.
// It does not connect: the connection pool is opened by InitPool, which the fx
// lifecycle calls on application start. Construction therefore never fails and
// a client can be built before the database is reachable.
//
// Returns *MariaDB concrete type (following Go best practice: "accept interfaces, return structs").
func NewMariaDB(cfg Config) *MariaDB {
	return &MariaDB{
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
func (m *MariaDB) InitPool(ctx context.Context) error {
	if m.DB() != nil {
		return ErrPoolAlreadyInitialized
	}

	conn, err := connectToMariaDB(m.cfg)
	if err != nil {
		return fmt.Errorf("failed to open connection pool: %w", err)
	}

	if !m.client.CompareAndSwap(nil, conn) {
		if sqlDB, dbErr := conn.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return ErrPoolAlreadyInitialized
	}

	m.logInfo(ctx, "database pool opened", nil)
	return nil
}

// Close releases the connection pool. It is idempotent: closing a client whose
// pool was never opened (or was already closed) is a no-op, so teardown paths
// don't need to track initialization state.
func (m *MariaDB) Close(ctx context.Context) error {
	dbConn := m.client.Swap(nil)
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

	m.logInfo(ctx, "database pool closed", nil)
	return nil
}

// Ready reports whether the database currently answers a probe query.
//
// It returns (false, message) instead of an error so readiness aggregation can
// collect per-service check results without branching on error types. An
// uninitialized pool reports not ready rather than failing the probe.
func (m *MariaDB) Ready(ctx context.Context) (bool, string) {
	dbConn := m.DB()
	if dbConn == nil {
		return false, "connection pool not initialized"
	}

	var one int
	if err := dbConn.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		m.logError(ctx, "unknown connection error", map[string]interface{}{
			"error": err.Error(),
		})
		return false, err.Error()
	}
	return true, ""
}

// PoolStats returns the standard library pool counters for the open pool.
// It fails with ErrPoolNotInitialized before InitPool.
func (m *MariaDB) PoolStats() (sql.DBStats, error) {
	dbConn := m.DB()
	if dbConn == nil {
		return sql.DBStats{}, ErrPoolNotInitialized
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get database instance for pool stats: %w", err)
	}
	return sqlDB.Stats(), nil
}

// connectToMariaDB establishes a connection to the MariaDB/MySQL database using the provided
// configuration. It sets up the connection DSN, opens the connection with GORM,
// and configures the connection pool with appropriate parameters for performance.
// Returns the initialized GORM DB instance or an error if the connection fails.
func connectToMariaDB(mariadbConfig Config) (*gorm.DB, error) {
	// Set defaults
	charset := mariadbConfig.Connection.Charset
	if charset == "" {
		charset = "utf8mb4"
	}

	parseTime := "True"
	if !mariadbConfig.Connection.ParseTime {
		parseTime = "False"
	}

	loc := mariadbConfig.Connection.Loc
	if loc == "" {
		loc = "Local"
	}

	// Build DSN (Data Source Name)
	// Format: username:password@tcp(host:port)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=%s&loc=%s",
		mariadbConfig.Connection.User,
		mariadbConfig.Connection.Password,
		mariadbConfig.Connection.Host,
		mariadbConfig.Connection.Port,
		mariadbConfig.Connection.DbName,
		charset,
		parseTime,
		loc,
	)

	// Add optional parameters
	if mariadbConfig.Connection.TLS != "" {
		dsn += "&tls=" + mariadbConfig.Connection.TLS
	}
	if mariadbConfig.Connection.Timeout != "" {
		dsn += "&timeout=" + mariadbConfig.Connection.Timeout
	}
	if mariadbConfig.Connection.ReadTimeout != "" {
		dsn += "&readTimeout=" + mariadbConfig.Connection.ReadTimeout
	}
	if mariadbConfig.Connection.WriteTimeout != "" {
		dsn += "&writeTimeout=" + mariadbConfig.Connection.WriteTimeout
	}

	database, err := gorm.Open(
		mysql.Open(dsn),
		&gorm.Config{
			TranslateError: true,
		})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB/MySQL database: %w", err)
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get MariaDB/MySQL database instance: %w", err)
	}

	// Set connection pool parameters
	maxOpenConns := mariadbConfig.ConnectionDetails.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 50
	}
	maxIdleConns := mariadbConfig.ConnectionDetails.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 25
	}
	connMaxLifetime := mariadbConfig.ConnectionDetails.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 1 * time.Minute
	}

	databaseInstance.SetMaxOpenConns(maxOpenConns)
	databaseInstance.SetMaxIdleConns(maxIdleConns)
	databaseInstance.SetConnMaxLifetime(connMaxLifetime)

	return database, nil
}

// RetryConnection continuously attempts to reconnect to the MariaDB database when notified
// of a connection failure. It operates as a goroutine that waits for signals on retryChanSignal
// before attempting reconnection. The function respects context cancellation and shutdown signals,
// ensuring graceful termination when requested.
//
// It implements two nested loops:
// - The outer loop waits for retry signals
// - The inner loop attempts reconnection until successful
func (m *MariaDB) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			m.logInfo(ctx, "Stopping RetryConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-m.retryChanSignal:
		innerLoop:
			for {
				select {
				case <-m.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					// A pool that was closed while a retry was pending stays closed.
					if m.DB() == nil {
						continue outerLoop
					}
					newConn, err := connectToMariaDB(m.cfg)
					if err != nil {
						m.logError(ctx, "MariaDB reconnection failed", map[string]interface{}{
							"error": err.Error(),
						})
						time.Sleep(time.Second)
						continue innerLoop
					}
					m.client.Store(newConn)
					m.logInfo(ctx, "Successfully reconnected to MariaDB/MySQL database", nil)
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
func (m *MariaDB) MonitorConnection(ctx context.Context) {
	defer m.closeRetryChanOnce.Do(func() {
		close(m.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdownSignal:
			m.logInfo(ctx, "Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			if m.DB() == nil {
				continue
			}
			err := m.healthCheck()
			if err != nil {
				select {
				case m.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck performs a health check on the MariaDB database connection.
// It snapshots the current *gorm.DB, then attempts to ping the database with a timeout
// of 5 seconds to verify connectivity.
//
// It returns nil if the database is healthy, or an error with details about the issue.
func (m *MariaDB) healthCheck() error {
	// Snapshot the current connection; do not hold any package-level lock while pinging.
	dbConn := m.DB()
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

// WithObserver attaches an observer to the MariaDB client for observability hooks.
// This method uses the builder pattern and returns the client for method chaining.
//
// The observer will be notified of all database operations, allowing
// external systems to track metrics, traces, or other observability data.
//
// Example:
//
//	client := mariadb.NewMariaDB(config).WithObserver(myObserver)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (m *MariaDB) WithObserver(observer observability.Observer) *MariaDB {
	m.observer = observer
	return m
}

// WithLogger attaches a logger to the MariaDB client for internal logging.
// This method uses the builder pattern and returns the client for method chaining.
//
// The logger will be used for lifecycle events, connection monitoring, and background operations.
//
// Example:
//
//	client := mariadb.NewMariaDB(config).WithLogger(myLogger)
//	if err := client.InitPool(ctx); err != nil {
//	    return err
//	}
//	defer client.GracefulShutdown()
func (m *MariaDB) WithLogger(logger Logger) *MariaDB {
	m.logger = logger
	return m
}

// logInfo logs an informational message using the configured logger if available.
// This is used for lifecycle and background operation logging.
func (m *MariaDB) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
// This is used for non-critical issues during connection monitoring.
func (m *MariaDB) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
// This is only used for errors in background goroutines that can't be returned to the caller.
func (m *MariaDB) logError(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.ErrorWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
