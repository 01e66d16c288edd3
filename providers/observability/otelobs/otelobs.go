package otelobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/leofalp/toolagent/providers/observability"
)

const instrumentationName = "github.com/leofalp/toolagent"

// Observer implements observability.Provider on OpenTelemetry tracer and
// meter providers. Log records go to a slog.Logger enriched with the trace
// and span ids of the active span.
type Observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger *slog.Logger

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

var _ observability.Provider = (*Observer)(nil)

type Option func(*Observer)

// WithLogger sets the logger used for log records. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Observer) {
		o.logger = logger
	}
}

// New creates an Observer on the given providers.
func New(tp trace.TracerProvider, mp metric.MeterProvider, opts ...Option) *Observer {
	o := &Observer{
		tracer:     tp.Tracer(instrumentationName),
		meter:      mp.Meter(instrumentationName),
		logger:     slog.Default(),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, s := o.tracer.Start(ctx, name, trace.WithAttributes(convert(attrs)...))
	wrapped := &span{span: s}
	return observability.ContextWithSpan(ctx, wrapped), wrapped
}

type span struct {
	span trace.Span
}

func (s *span) End() {
	s.span.End()
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(convert(attrs)...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.counters[name]
	if !ok {
		var err error
		c, err = o.meter.Int64Counter(name)
		if err != nil {
			o.logger.Warn("otelobs: create counter", slog.String("metric", name), slog.Any("error", err))
			return noopCounter{}
		}
		o.counters[name] = c
	}
	return counter{c}
}

func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()

	h, ok := o.histograms[name]
	if !ok {
		var err error
		h, err = o.meter.Float64Histogram(name)
		if err != nil {
			o.logger.Warn("otelobs: create histogram", slog.String("metric", name), slog.Any("error", err))
			return noopHistogram{}
		}
		o.histograms[name] = h
	}
	return histogram{h}
}

type counter struct{ c metric.Int64Counter }

func (c counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.c.Add(ctx, value, metric.WithAttributes(convert(attrs)...))
}

type histogram struct{ h metric.Float64Histogram }

func (h histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.h.Record(ctx, value, metric.WithAttributes(convert(attrs)...))
}

type noopCounter struct{}

func (noopCounter) Add(context.Context, int64, ...observability.Attribute) {}

type noopHistogram struct{}

func (noopHistogram) Record(context.Context, float64, ...observability.Attribute) {}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	out := make([]slog.Attr, 0, len(attrs)+2)
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		out = append(out,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, level, msg, out...)
}

// convert maps observability attributes onto OpenTelemetry ones. Durations
// are recorded in milliseconds; unknown types use their fmt representation.
func convert(attrs []observability.Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case string:
			out = append(out, attribute.String(attr.Key, v))
		case int:
			out = append(out, attribute.Int(attr.Key, v))
		case int64:
			out = append(out, attribute.Int64(attr.Key, v))
		case float64:
			out = append(out, attribute.Float64(attr.Key, v))
		case bool:
			out = append(out, attribute.Bool(attr.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(attr.Key+"_ms", v.Milliseconds()))
		case []string:
			out = append(out, attribute.StringSlice(attr.Key, v))
		default:
			out = append(out, attribute.String(attr.Key, fmt.Sprint(v)))
		}
	}
	return out
}
