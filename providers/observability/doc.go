// Package observability defines the tracing, metrics and logging interfaces
// used throughout toolagent, together with the attribute, span and metric
// names recorded by the agent loop and its tools.
//
// A [Provider] and the active [Span] travel in a [context.Context]; see
// [ContextWithObserver] and [ContextWithSpan]. Concrete backends are
// slogobs (log/slog only) and otelobs (OpenTelemetry).
package observability
