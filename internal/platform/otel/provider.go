// Package otel configures opt-in OpenTelemetry tracing for server processes.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Environment variable names controlling tracing.
const (
	EnvEnabled  = "ARIS_ASSIGN_OTEL_ENABLED"
	EnvEndpoint = "ARIS_ASSIGN_OTEL_ENDPOINT"
)

func noopShutdown(context.Context) error { return nil }

// enabled reports whether tracing is configured on. Tracing is opt-in: it
// requires an OTLP endpoint and is suppressed when explicitly disabled.
func enabled() bool {
	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return false
	}
	return os.Getenv(EnvEndpoint) != ""
}

// Setup initialises OpenTelemetry tracing for the given service and returns
// a shutdown function that flushes pending spans. When tracing is not
// configured it returns a no-op shutdown and registers no global provider.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	if !enabled() {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(os.Getenv(EnvEndpoint)),
	)
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
