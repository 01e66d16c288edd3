package memory

import (
	"context"

	"github.com/leofalp/toolagent/providers/ai"
)

// Provider stores one conversation. Conversations are append-only: turns
// are never reordered or removed while the conversation is in use.
type Provider interface {
	// AppendMessage stores a copy of message at the end of the history.
	AppendMessage(ctx context.Context, message *ai.Message)
	// AllMessages returns the history in order as an independent slice.
	AllMessages(ctx context.Context) ([]ai.Message, error)
	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)
	// FilterByRole returns the messages with the given role, in order.
	FilterByRole(ctx context.Context, role ai.MessageRole) ([]ai.Message, error)
}
