package deepseek

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"

	"github.com/leofalp/toolagent/providers/ai"
)

// StreamMessage implements ai.StreamProvider. The HTTP response stays open
// until the returned stream's iterator finishes or the consumer breaks out.
func (p *DeepSeekProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	params, err := p.buildParams(request)
	if err != nil {
		return nil, fmt.Errorf("deepseek: build params: %w", err)
	}
	params.StreamOptions = oai.ChatCompletionStreamOptionsParam{IncludeUsage: oai.Bool(true)}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("deepseek: start stream: %w", err)
	}

	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		defer func() { _ = stream.Close() }()

		var finishReason string
		for stream.Next() {
			chunk := stream.Current()
			for _, event := range chunkToStreamEvents(&chunk) {
				if !yield(event, nil) {
					return
				}
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].FinishReason != "" {
				finishReason = chunk.Choices[0].FinishReason
			}
		}

		if err := stream.Err(); err != nil {
			yield(ai.StreamEvent{}, fmt.Errorf("deepseek: stream: %w", err))
			return
		}
		yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: finishReason}, nil)
	}), nil
}

// chunkToStreamEvents converts one SSE chunk into zero or more events, in
// the order reasoning, content, tool calls, usage.
func chunkToStreamEvents(chunk *oai.ChatCompletionChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	if len(chunk.Choices) > 0 {
		delta := chunk.Choices[0].Delta
		if reasoning := reasoningContent(delta.RawJSON()); reasoning != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventReasoning, Reasoning: reasoning})
		}
		if delta.Content != "" {
			events = append(events, ai.StreamEvent{Type: ai.StreamEventContent, Content: delta.Content})
		}
		for _, tc := range delta.ToolCalls {
			events = append(events, ai.StreamEvent{
				Type: ai.StreamEventToolCall,
				ToolCall: &ai.ToolCallDelta{
					Index:     int(tc.Index),
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
	}

	if usage := usageToGeneric(chunk.Usage); usage != nil {
		events = append(events, ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage})
	}

	return events
}
