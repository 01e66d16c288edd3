// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metric updates are written as debug records and counters are
// kept in memory, which makes the observer suitable for the CLI and for
// tests that want to assert on what the agent recorded. Output format and
// level come from [WithFormat] and [WithLevel] or, when unset, from the
// TOOLAGENT_LOG_FORMAT and TOOLAGENT_LOG_LEVEL environment variables.
package slogobs
