package otelobs

import (
	"context"
	"errors"

	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config describes the SDK providers built by Setup.
type Config struct {
	ServiceName    string // Default: "toolagent"
	ServiceVersion string

	// TraceExporter receives finished spans. When nil spans are recorded
	// but not exported; trace ids still reach the logs.
	TraceExporter sdktrace.SpanExporter

	// MetricReader collects metrics. When nil no reader is attached.
	MetricReader sdkmetric.Reader

	// Prometheus additionally registers a Prometheus exporter with the
	// default registerer so metrics can be scraped from /metrics.
	Prometheus bool
}

// Setup builds tracer and meter providers for cfg and returns an Observer
// over them together with a shutdown function that flushes both.
func Setup(_ context.Context, cfg Config, opts ...Option) (*Observer, func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "toolagent"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TraceExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(cfg.TraceExporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if cfg.MetricReader != nil {
		mpOpts = append(mpOpts, sdkmetric.WithReader(cfg.MetricReader))
	}
	if cfg.Prometheus {
		promExp, err := promexporter.New()
		if err != nil {
			return nil, nil, err
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(promExp))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return New(tp, mp, opts...), shutdown, nil
}
