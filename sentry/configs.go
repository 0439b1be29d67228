package sentry

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// defaultFlushTimeout bounds how long Close and the fx shutdown hook wait
// for buffered events to reach the backend.
const defaultFlushTimeout = 2 * time.Second

// Config holds the error reporting settings. A disabled or DSN-less
// configuration yields a no-op client, so services can carry the same wiring
// across environments and switch reporting on per deployment.
type Config struct {
	// DSN is the Sentry project ingestion URL. Empty disables reporting.
	DSN string `yaml:"dsn" envconfig:"SENTRY_DSN"`

	// Environment tags every event with the deployment environment,
	// e.g. "staging" or "production".
	Environment string `yaml:"environment" envconfig:"SENTRY_ENVIRONMENT"`

	// Release tags every event with the build version, normally the
	// dto.Version string ("<branch>-<build number>").
	Release string `yaml:"release" envconfig:"SENTRY_RELEASE"`

	// Enabled switches reporting on. Both Enabled and a non-empty DSN are
	// required for events to be sent.
	Enabled bool `yaml:"enabled" envconfig:"SENTRY_ENABLED"`

	// FlushTimeout bounds the wait for buffered events during shutdown.
	// If set to 0, the package default is used.
	FlushTimeout time.Duration `yaml:"flush_timeout" envconfig:"SENTRY_FLUSH_TIMEOUT"`
}

// ConfigFromEnv loads the error reporting configuration from SENTRY_*
// environment variables using envconfig.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load sentry config from environment: %w", err)
	}
	return cfg, nil
}
