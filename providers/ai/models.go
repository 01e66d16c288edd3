package ai

import (
	"encoding/json"

	"github.com/leofalp/toolagent/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is one model request: the whole conversation so far plus the
// tool definitions the model may call.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	Messages         []Message         `json:"messages"` // Ordered conversation, system turn included
	Tools            []ToolDescription `json:"tools,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// ToolDescription is the definition of a tool as sent to the provider.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`   // role=assistant
	ToolResults []ToolResult `json:"tool_results,omitempty"` // role=tool, one entry per answered call

	Reasoning string `json:"reasoning,omitempty"` // Reasoning text returned by reasoning models
}

type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
	ReasoningTokens  int `json:"reasoning_tokens,omitempty"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// ChatResponse is the assistant turn returned by a provider.
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Created      int64      `json:"created"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
	Reasoning    string     `json:"reasoning,omitempty"`
}

// AssistantMessage converts the response into the assistant turn appended to
// the conversation.
func (r *ChatResponse) AssistantMessage() Message {
	msg := Message{
		Role:      RoleAssistant,
		Content:   r.Content,
		Reasoning: r.Reasoning,
	}
	if len(r.ToolCalls) > 0 {
		msg.ToolCalls = make([]ToolCall, len(r.ToolCalls))
		copy(msg.ToolCalls, r.ToolCalls)
	}
	return msg
}

/*
	##### TOOLS #####
*/

// ToolCall is a model request to invoke a tool.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// Error kinds reported in failed ToolResults.
const (
	ToolErrorUnknownTool     = "unknown_tool"
	ToolErrorArgumentParse   = "argument_parse_error"
	ToolErrorExecutionFailed = "tool_execution_failed"
)

// ToolResult is the outcome of one ToolCall, correlated by CallID.
// Exactly one of Output (Success) or Error/Message (failure) is meaningful.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name,omitempty"`
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`   // Machine-readable kind, e.g. "unknown_tool"
	Message string `json:"message,omitempty"` // Human-readable failure summary
}

// NewToolResultSuccess builds a successful result for the call callID.
func NewToolResultSuccess(callID, name, output string) ToolResult {
	return ToolResult{
		CallID:  callID,
		Name:    name,
		Success: true,
		Output:  output,
	}
}

// NewToolResultError builds a failed result for the call callID.
// errorType should be one of the ToolError* kinds.
func NewToolResultError(callID, name, errorType, message string) ToolResult {
	return ToolResult{
		CallID:  callID,
		Name:    name,
		Success: false,
		Error:   errorType,
		Message: message,
	}
}

// Content returns the text handed back to the model for this result. Success
// returns the tool output verbatim; failures are encoded as a small JSON
// object so the model can tell them apart from regular output.
func (tr ToolResult) Content() string {
	if tr.Success {
		return tr.Output
	}

	payload := struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message,omitempty"`
	}{false, tr.Error, tr.Message}

	raw, err := json.Marshal(payload)
	if err != nil {
		return tr.Message
	}
	return string(raw)
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)
