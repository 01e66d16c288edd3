// Package ai defines the provider-agnostic conversation types shared by the
// agent loop and every completion backend.
//
// A conversation is a slice of [Message] values. Assistant turns may carry
// [ToolCall] requests; the matching answers travel back as a tool turn whose
// [ToolResult] entries are correlated by call ID. Backends implement
// [Provider] and, optionally, [StreamProvider]; [ChatStream] accumulates
// streamed deltas into a [ChatResponse].
package ai
