package observability

// Attribute keys.
const (
	AttrAgentPreambleSet   = "agent.preamble_set"
	AttrAgentMaxIterations = "agent.max_tool_iterations"
	AttrAgentIteration     = "agent.iteration"
	AttrAgentPrompt        = "agent.prompt"
	AttrAgentOutcome       = "agent.outcome"

	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMEndpoint     = "llm.endpoint"
	AttrLLMResponseID   = "llm.response.id"
	AttrLLMFinishReason = "llm.finish_reason"
	AttrLLMStreaming    = "llm.streaming"

	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- LLM tokens, not credentials
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101
	AttrLLMTokensTotal      = "llm.tokens.total"      // #nosec G101

	AttrRequestMessagesCount = "request.messages_count"
	AttrRequestToolsCount    = "request.tools_count"
	AttrResponseToolCalls    = "response.tool_calls"

	AttrToolName      = "tool.name"
	AttrToolCallID    = "tool.call_id"
	AttrToolInput     = "tool.input"
	AttrToolOutput    = "tool.output"
	AttrToolDuration  = "tool.duration"
	AttrToolError     = "tool.error"
	AttrToolErrorKind = "tool.error.kind"
	AttrToolCount     = "tool.count"

	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryTotalMessages = "memory.total_messages"

	AttrError    = "error"
	AttrDuration = "duration"
	AttrStatus   = "status"
)

// Span names.
const (
	SpanAgentPrompt   = "agent.prompt"
	SpanAgentStream   = "agent.stream"
	SpanLLMRequest    = "llm.request"
	SpanToolExecution = "tool.execution"
)

// Event names.
const (
	EventLLMRequestStart    = "llm.request.start"
	EventLLMRequestEnd      = "llm.request.end"
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventMemoryAppend       = "memory.append"
	EventMemoryClear        = "memory.clear"
)

// Metric names.
const (
	MetricAgentPromptCount      = "toolagent.agent.prompt.count"
	MetricLLMRequestCount       = "toolagent.llm.request.count"
	MetricLLMRequestDuration    = "toolagent.llm.request.duration"
	MetricLLMTokensTotal        = "toolagent.llm.tokens.total"
	MetricToolCallCount         = "toolagent.tool.call.count"
	MetricToolFailureCount      = "toolagent.tool.failure.count"
	MetricToolExecutionDuration = "toolagent.tool.execution.duration"
)
