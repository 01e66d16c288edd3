package ai

import (
	"iter"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	StreamEventContent   StreamEventType = "content"
	StreamEventReasoning StreamEventType = "reasoning"
	StreamEventToolCall  StreamEventType = "tool_call"
	StreamEventUsage     StreamEventType = "usage"
	StreamEventDone      StreamEventType = "done"
)

// ToolCallDelta is an incremental fragment of a streamed tool call. ID and
// Name usually arrive on the first fragment for an Index; later fragments
// only carry Arguments.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// StreamEvent is a single delta of a streamed response.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`
	Reasoning    string          `json:"reasoning,omitempty"`
	ToolCall     *ToolCallDelta  `json:"tool_call,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"` // Set on StreamEventDone
}

// ChatStream wraps a streaming iterator. Consume it either by ranging over
// Iter (breaking early is fine) or by calling Collect; providers may hold an
// open response body until the iterator returns.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw iterator. A non-nil error
// yielded by the iterator terminates the stream.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewSingleEventStream replays a complete ChatResponse as a stream. It backs
// streaming for providers that only implement SendMessage.
func NewSingleEventStream(response *ChatResponse) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		if response.Reasoning != "" {
			if !yield(StreamEvent{Type: StreamEventReasoning, Reasoning: response.Reasoning}, nil) {
				return
			}
		}
		if response.Content != "" {
			if !yield(StreamEvent{Type: StreamEventContent, Content: response.Content}, nil) {
				return
			}
		}
		for i, call := range response.ToolCalls {
			delta := &ToolCallDelta{
				Index:     i,
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			}
			if !yield(StreamEvent{Type: StreamEventToolCall, ToolCall: delta}, nil) {
				return
			}
		}
		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason}, nil)
	})
}

// Iter returns the underlying iterator for range-over-func loops.
func (s *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return s.iterator
}

// Collect drains the stream into a ChatResponse. On a mid-stream error the
// partial response accumulated so far is returned together with the error.
func (s *ChatStream) Collect() (*ChatResponse, error) {
	return s.CollectWith(nil)
}

// CollectWith drains the stream like Collect and hands every event to onEvent
// before accumulating it. A nil onEvent behaves like Collect.
func (s *ChatStream) CollectWith(onEvent func(StreamEvent)) (*ChatResponse, error) {
	out := &ChatResponse{}
	var builders []toolCallBuilder

	for event, err := range s.iterator {
		if err != nil {
			out.ToolCalls = finishToolCalls(builders)
			return out, err
		}
		if onEvent != nil {
			onEvent(event)
		}

		switch event.Type {
		case StreamEventContent:
			out.Content += event.Content
		case StreamEventReasoning:
			out.Reasoning += event.Reasoning
		case StreamEventToolCall:
			if event.ToolCall != nil {
				builders = accumulateToolCallDelta(builders, event.ToolCall)
			}
		case StreamEventUsage:
			if event.Usage != nil {
				out.Usage = event.Usage
			}
		case StreamEventDone:
			out.FinishReason = event.FinishReason
		}
	}

	out.ToolCalls = finishToolCalls(builders)
	return out, nil
}

type toolCallBuilder struct {
	id        string
	name      string
	arguments string
}

func accumulateToolCallDelta(builders []toolCallBuilder, delta *ToolCallDelta) []toolCallBuilder {
	if delta.Index < 0 {
		return builders
	}
	for len(builders) <= delta.Index {
		builders = append(builders, toolCallBuilder{})
	}

	b := &builders[delta.Index]
	if delta.ID != "" {
		b.id = delta.ID
	}
	if delta.Name != "" {
		b.name = delta.Name
	}
	b.arguments += delta.Arguments
	return builders
}

func finishToolCalls(builders []toolCallBuilder) []ToolCall {
	if len(builders) == 0 {
		return nil
	}
	calls := make([]ToolCall, 0, len(builders))
	for i := range builders {
		calls = append(calls, ToolCall{
			ID:   builders[i].id,
			Type: "function",
			Function: ToolCallFunction{
				Name:      builders[i].name,
				Arguments: builders[i].arguments,
			},
		})
	}
	return calls
}
