package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// TracerClient provides a simplified API for distributed tracing with OpenTelemetry.
// It wraps the OpenTelemetry TracerProvider and provides convenient methods for
// creating spans, wrapping units of work, recording errors, and propagating trace
// context across service boundaries.
//
// TracerClient handles the complexity of trace context propagation, span creation,
// and attribute management, making it easier to implement distributed tracing in
// your applications.
//
// To use TracerClient effectively:
// 1. Wrap significant operations with WithSpan or the TraceFunc family
// 2. Add attributes to spans to provide context
// 3. Extract and inject trace context when crossing service boundaries
//
// The TracerClient is designed to be thread-safe and can be shared across goroutines.
// It implements the Tracer interface.
type TracerClient struct {
	provider   *trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// NewClient creates and initializes a new TracerClient instance with OpenTelemetry.
// This function sets up the OpenTelemetry tracer provider with the provided
// configuration, configures the OTLP exporter if enabled, builds the propagator
// for the configured wire format, and sets global OpenTelemetry settings.
//
// Parameters:
//   - cfg: Configuration for the tracer, including service name, environment,
//     propagation format, sampling ratio and export settings
//
// Returns:
//   - *TracerClient: A configured TracerClient instance ready for creating spans
//     and managing trace context
//
// If trace export is enabled in the configuration, this function will set up an
// OTLP HTTP exporter that sends traces to the configured endpoint. If export fails
// to initialize, it will return an error. An unknown propagation format also
// returns an error, before any exporter is dialed.
//
// The function also configures resource attributes for the service, including:
//   - Service name
//   - Deployment environment
//   - Environment tag
//
// Example:
//
//	cfg := tracing.Config{
//	    ServiceName: "user-service",
//	    AppEnv:      "production",
//	    Propagation: tracing.PropagationB3,
//	    EnableExport: true,
//	}
//
//	client, err := tracing.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, span := client.StartSpan(context.Background(), "process-request")
//	defer span.End()
func NewClient(cfg Config) (*TracerClient, error) {
	return newClientWithContext(context.Background(), cfg)
}

func newClientWithContext(ctx context.Context, cfg Config) (*TracerClient, error) {
	propagator, err := newPropagator(cfg.Propagation)
	if err != nil {
		return nil, err
	}

	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint), otlptracehttp.WithInsecure())
		}
		exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options,
		trace.WithSampler(newSampler(cfg.SampleRatio)),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.AppEnv),
			attribute.String("environment", cfg.AppEnv),
		)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &TracerClient{provider: tp, propagator: propagator}, nil
}

// TracerProvider exposes the underlying OpenTelemetry SDK provider, for
// integrations that need to register additional span processors or create
// tracers directly. Most code should use the TracerClient methods instead.
func (t *TracerClient) TracerProvider() *trace.TracerProvider {
	return t.provider
}

// newPropagator builds the text map propagator for the configured wire format.
// Baggage propagation is always composed in alongside the trace context format.
func newPropagator(format string) (propagation.TextMapPropagator, error) {
	switch format {
	case PropagationW3C, "":
		return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}), nil
	case PropagationB3:
		return propagation.NewCompositeTextMapPropagator(
			b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)),
			propagation.Baggage{},
		), nil
	case PropagationJaeger:
		return propagation.NewCompositeTextMapPropagator(jaeger.Jaeger{}, propagation.Baggage{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPropagation, format)
	}
}

// newSampler maps the configured ratio to an OpenTelemetry sampler.
// A remote parent's sampling decision always wins over the local ratio.
func newSampler(ratio float64) trace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return trace.ParentBased(trace.AlwaysSample())
	}
	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}
