// Package otelobs implements observability.Provider with OpenTelemetry.
//
// Spans map onto an OpenTelemetry tracer, counters and histograms onto a
// meter, and log records onto log/slog with trace_id and span_id attached.
// [Setup] wires SDK providers for a service; [New] accepts existing ones.
package otelobs
