// Package tool defines callable tools and the registry an agent dispatches
// model tool calls through.
//
// A [Tool] wraps a typed Go function; its parameter schema is derived from
// the input type with the jsonschema package. A [Registry] keeps tools in
// registration order, produces the definitions sent with each model request
// and turns every [ai.ToolCall] into exactly one [ai.ToolResult], including
// for unknown tools and malformed arguments.
package tool
