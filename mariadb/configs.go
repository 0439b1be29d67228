package mariadb

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the complete configuration for a MariaDB/MySQL database connection.
// It encapsulates both the basic connection parameters and detailed connection pool settings.
type Config struct {
	// Connection contains the essential parameters needed to establish a database connection
	Connection Connection `yaml:"connection"`

	// ConnectionDetails contains configuration for the connection pool behavior
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`
}

// Connection holds the basic parameters required to connect to a MariaDB/MySQL database.
// These parameters are used to construct the database connection DSN.
type Connection struct {
	// Host specifies the database server hostname or IP address
	Host string `yaml:"host" envconfig:"MARIADB_HOST"`

	// Port specifies the TCP port on which the database server is listening
	Port string `yaml:"port" envconfig:"MARIADB_PORT" default:"3306"`

	// User specifies the database username for authentication
	User string `yaml:"user" envconfig:"MARIADB_USER"`

	// Password specifies the database user password for authentication
	Password string `json:"-" yaml:"password" envconfig:"MARIADB_PASSWORD"` //nolint:gosec

	// DbName specifies the name of the database to connect to
	DbName string `yaml:"db_name" envconfig:"MARIADB_DB_NAME"`

	// Charset specifies the character set to use for the connection
	// Common values: "utf8mb4" (recommended), "utf8", "latin1"
	// Default: "utf8mb4"
	Charset string `yaml:"charset" envconfig:"MARIADB_CHARSET"`

	// ParseTime enables parsing of DATE and DATETIME values to time.Time
	// Recommended: true
	ParseTime bool `yaml:"parse_time" envconfig:"MARIADB_PARSE_TIME"`

	// Loc specifies the location for parsing timestamps
	// Common values: "Local", "UTC"
	// Default: "Local"
	Loc string `yaml:"loc" envconfig:"MARIADB_LOC"`

	// TLS specifies the TLS/SSL configuration name
	// Common values: "true", "false", "skip-verify", "preferred", or a custom TLS config name
	// Default: "false"
	TLS string `yaml:"tls" envconfig:"MARIADB_TLS"`

	// Timeout specifies the connection timeout
	// Example: "10s", "30s"
	Timeout string `yaml:"timeout" envconfig:"MARIADB_TIMEOUT"`

	// ReadTimeout specifies the I/O read timeout
	// Example: "30s"
	ReadTimeout string `yaml:"read_timeout" envconfig:"MARIADB_READ_TIMEOUT"`

	// WriteTimeout specifies the I/O write timeout
	// Example: "30s"
	WriteTimeout string `yaml:"write_timeout" envconfig:"MARIADB_WRITE_TIMEOUT"`
}

// ConnectionDetails holds configuration settings for the database connection pool.
// These settings help optimize performance and resource usage by controlling
// how database connections are created, reused, and expired.
type ConnectionDetails struct {
	// MaxOpenConns controls the maximum number of open connections to the database.
	// Setting this appropriately helps prevent overwhelming the database with too many connections.
	// If set to 0, the package default is used.
	MaxOpenConns int `yaml:"max_open_conns" envconfig:"MARIADB_MAX_OPEN_CONNS"`

	// MaxIdleConns controls the maximum number of connections in the idle connection pool.
	// A higher value can improve performance under a concurrent load but consumes more resources.
	// If set to 0, the package default is used.
	MaxIdleConns int `yaml:"max_idle_conns" envconfig:"MARIADB_MAX_IDLE_CONNS"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	// Expired connections are closed and removed from the pool during connection acquisition.
	// This helps ensure database-enforced timeouts are respected.
	// If set to 0, the package default is used.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"MARIADB_CONN_MAX_LIFETIME"`
}

// ConfigFromEnv loads the database configuration from MARIADB_* environment
// variables using envconfig. Unset variables fall back to the struct tag
// defaults (port 3306, pool sizes left to package defaults).
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load mariadb config from environment: %w", err)
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
