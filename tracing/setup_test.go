package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_NoExport(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName:  "test-service",
		AppEnv:       "test",
		EnableExport: false,
	}

	client, err := NewClient(cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, client.provider)
	assert.NotNil(t, client.propagator)
}

func TestNewClient_EmptyServiceName(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName:  "",
		AppEnv:       "test",
		EnableExport: false,
	}

	client, err := NewClient(cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_EnableExport_NoCollector(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName:  "test-service",
		AppEnv:       "production",
		EnableExport: true,
	}

	// The OTLP HTTP exporter connects lazily, so NewClient succeeds even without a collector.
	// Spans will fail to export at flush time, but initialization itself is non-blocking.
	client, err := NewClient(cfg)

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClient_EnableExport_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately so the exporter handshake fails

	cfg := Config{
		ServiceName:  "test-service",
		AppEnv:       "test",
		EnableExport: true,
	}

	client, err := newClientWithContext(ctx, cfg)

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to initialize OTLP exporter")
}

func TestNewClient_PropagationFormats(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"", PropagationW3C, PropagationB3, PropagationJaeger} {
		cfg := Config{
			ServiceName: "test-service",
			AppEnv:      "test",
			Propagation: format,
		}

		client, err := NewClient(cfg)

		require.NoError(t, err, "format %q", format)
		assert.NotNil(t, client)
	}
}

func TestNewClient_UnsupportedPropagation(t *testing.T) {
	t.Parallel()
	cfg := Config{
		ServiceName: "test-service",
		AppEnv:      "test",
		Propagation: "datadog",
	}

	client, err := NewClient(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedPropagation)
	assert.Contains(t, err.Error(), "datadog")
	assert.Nil(t, client)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TRACING_SERVICE_NAME", "env-service")
	t.Setenv("TRACING_APP_ENV", "staging")
	t.Setenv("TRACING_PROPAGATION", "b3")
	t.Setenv("TRACING_ENABLE_EXPORT", "true")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := ConfigFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "env-service", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, PropagationB3, cfg.Propagation)
	assert.True(t, cfg.EnableExport)
	assert.InDelta(t, 0.25, cfg.SampleRatio, 1e-9)
}
