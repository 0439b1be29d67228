package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// defaultTimeout bounds a whole request/response exchange when Config leaves
// Timeout zero.
const defaultTimeout = 10 * time.Second

// Config holds the settings for one outbound HTTP client. A service creates
// one Config (and one Client) per upstream dependency.
type Config struct {
	// BaseURL is the root of the upstream API, scheme and authority included,
	// e.g. "http://billing.internal:8080". Request paths are resolved
	// against it. Required.
	BaseURL string `yaml:"base_url" envconfig:"HOST"`

	// Timeout bounds the whole exchange: dial, write, server processing and
	// body read. If set to 0, the package default is used.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`

	// AppName identifies the calling service, sent as the x-app-name header
	// so upstreams can attribute traffic without parsing user agents.
	AppName string `yaml:"app_name" envconfig:"APP_NAME"`

	// AppVersion is the calling service's build version, sent as the
	// x-app-version header.
	AppVersion string `yaml:"app_version" envconfig:"APP_VERSION"`
}

// ConfigFromEnv loads a client configuration from prefixed environment
// variables using envconfig. The prefix keeps multiple upstream clients
// apart: ConfigFromEnv("BILLING") reads BILLING_HOST, BILLING_TIMEOUT,
// BILLING_APP_NAME and BILLING_APP_VERSION.
func ConfigFromEnv(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load http client config from environment: %w", err)
	}
	return cfg, nil
}

// Logger is an interface that matches the svckit logger.Logger context-aware subset.
// It provides context-aware structured logging with optional error and field parameters.
type Logger interface {
	// DebugWithContext logs a debug-level message with trace context.
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// ErrorWithContext logs an error message with trace context.
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
