package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Package defaults applied when the corresponding Config fields are unset.
const (
	// defaultPoolSize is the connection pool size used when Config leaves it zero.
	defaultPoolSize = 10

	// defaultMinIdleConns is the number of idle connections kept warm when
	// Config leaves it zero.
	defaultMinIdleConns = 1

	// defaultDialTimeout bounds how long a single connection dial may take.
	defaultDialTimeout = 5 * time.Second

	// defaultReadTimeout and defaultWriteTimeout bound individual socket
	// reads/writes on established connections.
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second

	// readinessProbeKey is the key written and read back by Ready. It is
	// namespaced so the probe never collides with application data.
	readinessProbeKey = "svckit:readiness_probe"

	// readinessProbeTTL expires probe keys so they never accumulate.
	readinessProbeTTL = time.Minute
)

// Config represents the complete configuration for the Redis client.
// It encapsulates both the basic connection parameters and detailed
// connection pool settings.
type Config struct {
	// Connection contains the essential parameters needed to reach the Redis server
	Connection Connection `yaml:"connection"`

	// ConnectionDetails contains configuration for the connection pool behavior
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`
}

// Connection holds the basic parameters required to connect to a Redis server.
type Connection struct {
	// Host specifies the Redis server hostname or IP address
	Host string `yaml:"host" envconfig:"REDIS_HOST"`

	// Port specifies the TCP port on which the Redis server is listening to
	Port string `yaml:"port" envconfig:"REDIS_PORT" default:"6379"`

	// Password specifies the Redis server password, if authentication is required
	Password string `json:"-" yaml:"password" envconfig:"REDIS_PASSWORD"` //nolint:gosec

	// DB selects the logical database used for application data
	DB int `yaml:"db" envconfig:"REDIS_DB"`

	// LocksDB selects the logical database used for distributed lock
	// bookkeeping, keeping lock keys out of application data. ConfigFromEnv
	// defaults it to 1; a zero value keeps locks in database 0.
	LocksDB int `yaml:"locks_db" envconfig:"REDIS_LOCKS_DB" default:"1"`
}

// ConnectionDetails holds configuration settings for the Redis connection pool.
// These settings help optimize performance and resource usage by controlling
// how connections are created, kept warm, and bounded in time.
type ConnectionDetails struct {
	// PoolSize controls the maximum number of socket connections per client.
	// If set to 0, the package default is used.
	PoolSize int `yaml:"pool_size" envconfig:"REDIS_POOL_SIZE"`

	// MinIdleConns controls how many idle connections are kept open so bursts
	// don't pay the dial latency. If set to 0, the package default is used.
	MinIdleConns int `yaml:"min_idle_conns" envconfig:"REDIS_MIN_IDLE_CONNS"`

	// DialTimeout is the timeout for establishing new connections.
	// If set to 0, the package default is used.
	DialTimeout time.Duration `yaml:"dial_timeout" envconfig:"REDIS_DIAL_TIMEOUT"`

	// ReadTimeout is the timeout for socket reads on established connections.
	// If set to 0, the package default is used.
	ReadTimeout time.Duration `yaml:"read_timeout" envconfig:"REDIS_READ_TIMEOUT"`

	// WriteTimeout is the timeout for socket writes on established connections.
	// If set to 0, the package default is used.
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"REDIS_WRITE_TIMEOUT"`
}

// ConfigFromEnv loads the Redis configuration from REDIS_* environment
// variables using envconfig. Unset variables fall back to the struct tag
// defaults (port 6379, locks database 1, pool sizes left to package defaults).
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load redis config from environment: %w", err)
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
