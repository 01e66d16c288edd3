package ai

import (
	"context"
)

// Provider is the completion client every LLM backend implements.
type Provider interface {
	// SendMessage sends the conversation and tool definitions and returns the
	// assistant turn. Transport and API failures are returned as errors and
	// are not retried by callers in this module.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// StreamProvider is an optional interface for providers that support
// streaming responses. Callers detect it via type assertion and fall back to
// [NewSingleEventStream] over SendMessage otherwise.
type StreamProvider interface {
	Provider
	// StreamMessage returns a ChatStream yielding deltas as they arrive.
	// Pre-stream errors (auth, bad request, network) are returned directly;
	// mid-stream errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}
