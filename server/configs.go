package server

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Package defaults applied when the corresponding Config fields are unset.
const (
	// defaultComponent tags request spans when Config.Component is empty.
	defaultComponent = "http-server"

	// defaultReadTimeout bounds reading a whole request, header and body.
	defaultReadTimeout = 30 * time.Second

	// defaultWriteTimeout bounds writing a whole response.
	defaultWriteTimeout = 30 * time.Second

	// defaultIdleTimeout is how long a keep-alive connection may sit idle.
	defaultIdleTimeout = 60 * time.Second

	// defaultShutdownTimeout is how long Shutdown waits for in-flight
	// requests before the process gives up on them.
	defaultShutdownTimeout = 15 * time.Second
)

// Config holds the HTTP server settings.
type Config struct {
	// Host is the interface to bind, empty for all interfaces.
	Host string `yaml:"host" envconfig:"SERVER_HOST"`

	// Port is the TCP port to listen on.
	Port string `yaml:"port" envconfig:"SERVER_PORT" default:"8080"`

	// Component tags every request span with the service's component name.
	// If empty, the package default is used.
	Component string `yaml:"component" envconfig:"SERVER_COMPONENT"`

	// ReadTimeout bounds reading a whole request. If set to 0, the package
	// default is used.
	ReadTimeout time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`

	// WriteTimeout bounds writing a whole response. If set to 0, the package
	// default is used.
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`

	// IdleTimeout bounds how long keep-alive connections may sit idle.
	// If set to 0, the package default is used.
	IdleTimeout time.Duration `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`

	// ShutdownTimeout bounds the graceful drain on stop. If set to 0, the
	// package default is used.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`

	// EnableCORS mounts a permissive CORS policy, for services consumed
	// directly by browsers. Internal services leave it off.
	EnableCORS bool `yaml:"enable_cors" envconfig:"SERVER_ENABLE_CORS"`
}

// ConfigFromEnv loads the server configuration from SERVER_* environment
// variables using envconfig.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load server config from environment: %w", err)
	}
	return cfg, nil
}

// Logger is an interface that matches the svckit logger.Logger context-aware
// subset used by the server and its middleware stack.
type Logger interface {
	// DebugWithContext logs a debug-level message with trace context.
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// nopLogger is used when no logger is configured.
type nopLogger struct{}

func (nopLogger) DebugWithContext(context.Context, string, error, ...map[string]interface{}) {}
func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}
