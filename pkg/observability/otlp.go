package observability

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	derrors "github.com/matzehuels/dendro/pkg/errors"
)

// DefaultServiceName names the service in exported traces.
const DefaultServiceName = "dendro"

// TracingOptions configures the OTLP trace exporter.
type TracingOptions struct {
	// Endpoint is the collector's host:port. Empty falls back to
	// OTEL_EXPORTER_OTLP_ENDPOINT; when both are empty tracing is off.
	Endpoint string
	// Insecure sends spans over plain HTTP.
	Insecure bool
	// ServiceName defaults to OTEL_SERVICE_NAME, then [DefaultServiceName].
	ServiceName string
}

// NewTracerProvider builds a tracer provider that batches spans to an OTLP
// HTTP collector. It returns nil, nil when no endpoint is configured.
// Callers own the provider and must Shutdown it to flush pending spans.
func NewTracerProvider(ctx context.Context, opts TracingOptions) (*sdktrace.TracerProvider, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return nil, nil
	}

	exportOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if opts.Insecure {
		exportOpts = append(exportOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, exportOpts...)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "otlp exporter for %s", endpoint)
	}

	name := opts.ServiceName
	if name == "" {
		name = os.Getenv("OTEL_SERVICE_NAME")
	}
	if name == "" {
		name = DefaultServiceName
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(name))

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
