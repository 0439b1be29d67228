package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the complete configuration for a PostgresSQL database connection.
// It encapsulates both the basic connection parameters and detailed connection pool settings.
type Config struct {
	// Connection contains the essential parameters needed to establish a database connection
	Connection Connection `yaml:"connection"`

	// ConnectionDetails contains configuration for the connection pool behavior
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`
}

// Connection holds the basic parameters required to connect to a PostgresSQL database.
// These parameters are used to construct the database connection string.
type Connection struct {
	// Host specifies the database server hostname or IP address
	Host string `yaml:"host" envconfig:"POSTGRES_HOST"`

	// Port specifies the TCP port on which the database server is listening to
	Port string `yaml:"port" envconfig:"POSTGRES_PORT" default:"5432"`

	// User specifies the database username for authentication
	User string `yaml:"user" envconfig:"POSTGRES_USER"`

	// Password specifies the database user password for authentication
	Password string `json:"-" yaml:"password" envconfig:"POSTGRES_PASSWORD"` //nolint:gosec

	// DbName specifies the name of the database to connect to
	DbName string `yaml:"db_name" envconfig:"POSTGRES_DB_NAME"`

	// SSLMode specifies the SSL mode for the connection (e.g., "disable", "require", "verify-ca", "verify-full")
	// For production environments, it's recommended to use at least "require"
	SSLMode string `yaml:"ssl_mode" envconfig:"POSTGRES_SSL_MODE" default:"disable"`
}

// ConnectionDetails holds configuration settings for the database connection pool.
// These settings help optimize performance and resource usage by controlling
// how database connections are created, reused, and expired.
type ConnectionDetails struct {
	// MaxOpenConns controls the maximum number of open connections to the database.
	// Setting this appropriately helps prevent overwhelming the database with too many connections.
	// If set to 0, the package default is used.
	MaxOpenConns int `yaml:"max_open_conns" envconfig:"POSTGRES_MAX_OPEN_CONNS"`

	// MaxIdleConns controls the maximum number of connections in the idle connection pool.
	// A higher value can improve performance under a concurrent load but consumes more resources.
	// If set to 0, the package default is used.
	MaxIdleConns int `yaml:"max_idle_conns" envconfig:"POSTGRES_MAX_IDLE_CONNS"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	// Expired connections are closed and removed from the pool during connection acquisition.
	// This helps ensure database-enforced timeouts are respected.
	// If set to 0, the package default is used.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"POSTGRES_CONN_MAX_LIFETIME"`
}

// ConfigFromEnv loads the database configuration from POSTGRES_* environment
// variables using envconfig. Unset variables fall back to the struct tag
// defaults (port 5432, sslmode disable, pool sizes left to package defaults).
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load postgres config from environment: %w", err)
	}
	return cfg, nil
}

// Logger is an interface that matches the svckit logger.Logger context-aware subset.
// It provides context-aware structured logging with optional error and field parameters.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
