// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package telemetry configures OpenTelemetry tracing for the HTTP server.
//
// Tracing is optional: without an OTLP endpoint the global no-op provider stays
// in place and the HTTP middleware produces non-recording spans.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

/*
Init installs an OTLP/HTTP tracer provider when endpoint is set.

Parameters:
  - ctx: Context for exporter construction
  - serviceName: Reported as service.name
  - endpoint: host:port of the OTLP collector (empty disables tracing)
  - logger: Structured logger for lifecycle events

Returns:
  - ShutdownFunc: Always non-nil
  - error: Exporter construction failures
*/
func Init(ctx context.Context, serviceName, endpoint string, logger *slog.Logger) (ShutdownFunc, error) {
	if endpoint == "" {
		logger.Info("tracing_disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing_enabled", slog.String("endpoint", endpoint))

	return func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutdown tracer provider: %w", err)
		}
		return nil
	}, nil
}

// Middleware wraps every request in a server span named after the operation.
func Middleware(operation string) func(http.Handler) http.Handler {
	return otelhttp.NewMiddleware(operation)
}
