package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/memory"
	"github.com/leofalp/toolagent/providers/observability"
)

// ArrayMemory is a slice-backed, concurrency-safe conversation store.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

var _ memory.Provider = (*ArrayMemory)(nil)

func New() *ArrayMemory {
	return &ArrayMemory{}
}

// AppendMessage stores a copy of message; nil is ignored. Tool calls and
// tool results are copied as well, so later changes by the caller do not
// leak into the history. With a span in ctx a memory.append event is added.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	stored := *message
	stored.ToolCalls = append([]ai.ToolCall(nil), message.ToolCalls...)
	stored.ToolResults = append([]ai.ToolResult(nil), message.ToolResults...)

	m.mu.Lock()
	m.messages = append(m.messages, stored)
	total := len(m.messages)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryTotalMessages, total),
		)
	}
}

func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

func (m *ArrayMemory) FilterByRole(_ context.Context, role ai.MessageRole) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []ai.Message{}
	for _, msg := range m.messages {
		if msg.Role == role {
			out = append(out, msg)
		}
	}
	return out, nil
}
