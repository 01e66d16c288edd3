package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leofalp/toolagent/providers/observability"
)

// Observer implements observability.Provider with a slog.Logger.
type Observer struct {
	logger *slog.Logger

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Observer)(nil)

// New creates an Observer.
//
//	observer := slogobs.New(slogobs.WithLevel(slog.LevelDebug))
func New(opts ...Option) *Observer {
	return &Observer{
		logger:     applyOptions(opts...).newLogger(),
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

// Logger returns the underlying slog logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// CounterValue returns the running total of the named counter.
func (o *Observer) CounterValue(name string) int64 {
	o.mu.Lock()
	c, ok := o.counters[name]
	o.mu.Unlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// HistogramCount returns how many values the named histogram has recorded.
func (o *Observer) HistogramCount(name string) int {
	o.mu.Lock()
	h, ok := o.histograms[name]
	o.mu.Unlock()
	if !ok {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	s := &span{
		name:   name,
		start:  time.Now(),
		logger: o.logger,
		attrs:  append([]observability.Attribute(nil), attrs...),
	}
	if parent, ok := observability.SpanFromContext(ctx).(*span); ok {
		s.parent = parent.name
	}

	o.logger.LogAttrs(ctx, slog.LevelDebug, "span started", s.logAttrs("span.start", attrs...)...)
	return observability.ContextWithSpan(ctx, s), s
}

type span struct {
	name   string
	parent string
	start  time.Time
	logger *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
	ended bool
}

func (s *span) logAttrs(event string, extra ...observability.Attribute) []slog.Attr {
	out := []slog.Attr{slog.String("span", s.name), slog.String("event", event)}
	if s.parent != "" {
		out = append(out, slog.String("parent", s.parent))
	}
	return append(out, toSlog(extra)...)
}

func (s *span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	attrs := append(s.logAttrs("span.end", s.attrs...), slog.Duration("duration", time.Since(s.start)))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "span ended", attrs...)
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String("status_description", description))
	}
}

// RecordError keeps the error on the span; it is logged with the span end
// record rather than at error level, since callers decide whether a failure
// deserves an error log.
func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.Error(err))
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "span event", s.logAttrs(name, attrs...)...)
}

func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.counters[name]
	if !ok {
		c = &counter{name: name, logger: o.logger}
		o.counters[name] = c
	}
	return c
}

func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()
	h, ok := o.histograms[name]
	if !ok {
		h = &histogram{name: name, logger: o.logger}
		o.histograms[name] = h
	}
	return h
}

type counter struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	value int64
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	total := c.value
	c.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("metric", c.name),
		slog.Int64("delta", value),
		slog.Int64("value", total),
	}, toSlog(attrs)...)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "counter", logAttrs...)
}

type histogram struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	count int
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("metric", h.name),
		slog.Float64("value", value),
	}, toSlog(attrs)...)
	h.logger.LogAttrs(ctx, slog.LevelDebug, "histogram", logAttrs...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelDebug, msg, toSlog(attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelInfo, msg, toSlog(attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelWarn, msg, toSlog(attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelError, msg, toSlog(attrs)...)
}

func toSlog(attrs []observability.Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}
