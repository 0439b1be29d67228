package tracing

import "github.com/kelseyhightower/envconfig"

// Propagation format names accepted by Config.Propagation.
// Each format determines the wire headers used by Inject and Extract.
const (
	// PropagationW3C uses the W3C Trace Context headers:
	// "traceparent" and "tracestate".
	PropagationW3C = "w3c"

	// PropagationB3 uses the Zipkin B3 multi headers:
	// "x-b3-traceid", "x-b3-spanid" and "x-b3-sampled".
	PropagationB3 = "b3"

	// PropagationJaeger uses the Jaeger native header:
	// "uber-trace-id".
	PropagationJaeger = "jaeger"
)

// Config defines the configuration for the tracing client.
// It controls service identification, propagation format, sampling,
// and whether spans are exported to an observability backend.
type Config struct {
	// ServiceName specifies the name of the service using this tracer.
	// This field is required and will appear in traces to identify the service
	// that generated the spans. It should be a descriptive, stable name that
	// uniquely identifies your service in your system architecture.
	//
	// Example values: "user-service", "payment-processor", "notification-worker"
	ServiceName string `yaml:"service_name" envconfig:"TRACING_SERVICE_NAME"`

	// AppEnv indicates the deployment environment where the service is running.
	// This helps separate traces from different environments in your observability system.
	// Common values include "development", "staging", "production".
	//
	// This field is used to set the "deployment.environment" and "environment"
	// resource attributes on all spans.
	AppEnv string `yaml:"app_env" envconfig:"TRACING_APP_ENV"`

	// Endpoint is the host:port of the OTLP HTTP collector spans are exported to,
	// for example "jaeger-collector:4318". When empty, the exporter falls back to
	// the standard OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string `yaml:"endpoint" envconfig:"TRACING_ENDPOINT"`

	// Propagation selects the wire format used to carry trace context between
	// processes. Valid values are "w3c" (default), "b3" and "jaeger".
	// The chosen format applies to both injection and extraction.
	Propagation string `yaml:"propagation" envconfig:"TRACING_PROPAGATION"`

	// EnableExport controls whether spans are exported to an observability backend.
	// When set to true, the tracer will configure an OTLP HTTP exporter to send
	// traces to a collector. When false, spans are only kept in memory and not exported.
	//
	// Note that even when this is false, tracing is still functional for request context
	// propagation; spans just won't be sent to external systems.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACING_ENABLE_EXPORT"`

	// SampleRatio is the fraction of new traces to sample, between 0 and 1.
	// Values at or above 1 (and the zero value) mean every trace is sampled.
	// The decision of a remote parent span always wins over the local ratio.
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"TRACING_SAMPLE_RATIO"`
}

// ConfigFromEnv builds a Config from TRACING_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
