package deepseek

import (
	"encoding/json"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/leofalp/toolagent/providers/ai"
)

func (p *DeepSeekProvider) buildParams(request ai.ChatRequest) (oai.ChatCompletionNewParams, error) {
	model := request.Model
	if model == "" {
		model = p.model
	}

	var messages []oai.ChatCompletionMessageParamUnion
	for _, m := range request.Messages {
		converted, err := convertMessage(m)
		if err != nil {
			return oai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, converted...)
	}

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}

	if gc := request.GenerationConfig; gc != nil {
		if gc.Temperature != 0 {
			params.Temperature = param.NewOpt(float64(gc.Temperature))
		}
		if gc.TopP != 0 {
			params.TopP = param.NewOpt(float64(gc.TopP))
		}
		if gc.MaxTokens > 0 {
			params.MaxTokens = param.NewOpt(int64(gc.MaxTokens))
		}
	}

	for _, td := range request.Tools {
		parameters, err := td.Parameters.ToMap()
		if err != nil {
			return oai.ChatCompletionNewParams{}, fmt.Errorf("tool %s: %w", td.Name, err)
		}
		toolParam := oai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:       td.Name,
				Parameters: shared.FunctionParameters(parameters),
			},
		}
		if td.Description != "" {
			toolParam.Function.Description = param.NewOpt(td.Description)
		}
		params.Tools = append(params.Tools, toolParam)
	}

	return params, nil
}

// convertMessage maps one conversation turn onto the wire. A tool turn
// becomes one tool message per result.
func convertMessage(m ai.Message) ([]oai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case ai.RoleSystem:
		return []oai.ChatCompletionMessageParamUnion{oai.SystemMessage(m.Content)}, nil

	case ai.RoleUser:
		return []oai.ChatCompletionMessageParamUnion{oai.UserMessage(m.Content)}, nil

	case ai.RoleAssistant:
		asst := oai.ChatCompletionAssistantMessageParam{}
		if m.Content != "" {
			asst.Content.OfString = oai.String(m.Content)
		}
		for _, tc := range m.ToolCalls {
			asst.ToolCalls = append(asst.ToolCalls, oai.ChatCompletionMessageToolCallParam{
				ID: tc.ID,
				Function: oai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		return []oai.ChatCompletionMessageParamUnion{{OfAssistant: &asst}}, nil

	case ai.RoleTool:
		if len(m.ToolResults) == 0 {
			return nil, fmt.Errorf("tool message without results")
		}
		out := make([]oai.ChatCompletionMessageParamUnion, 0, len(m.ToolResults))
		for _, r := range m.ToolResults {
			out = append(out, oai.ToolMessage(r.Content(), r.CallID))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown message role %q", m.Role)
	}
}

// reasoningContent extracts DeepSeek's reasoning_content extension field,
// which the SDK types do not declare.
func reasoningContent(rawJSON string) string {
	if rawJSON == "" {
		return ""
	}
	var extra struct {
		ReasoningContent string `json:"reasoning_content"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &extra); err != nil {
		return ""
	}
	return extra.ReasoningContent
}

func responseToGeneric(resp *oai.ChatCompletion) *ai.ChatResponse {
	choice := resp.Choices[0]
	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Reasoning:    reasoningContent(choice.Message.RawJSON()),
		Usage:        usageToGeneric(resp.Usage),
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ai.ToolCall{
			ID:   tc.ID,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return out
}

func usageToGeneric(u oai.CompletionUsage) *ai.Usage {
	if u.TotalTokens == 0 && u.PromptTokens == 0 && u.CompletionTokens == 0 {
		return nil
	}
	return &ai.Usage{
		PromptTokens:     int(u.PromptTokens),
		CompletionTokens: int(u.CompletionTokens),
		TotalTokens:      int(u.TotalTokens),
		ReasoningTokens:  int(u.CompletionTokensDetails.ReasoningTokens),
		CachedTokens:     int(u.PromptTokensDetails.CachedTokens),
	}
}
