package middleware

import (
	"context"
	"time"

	"github.com/leofalp/toolagent/providers/ai"
)

// NewTimeout bounds every provider call by timeout. For streams the deadline
// covers the whole stream, not only the time to the first event. A shorter
// deadline already on the caller's context still wins. A non-positive
// timeout disables the middleware.
func NewTimeout(timeout time.Duration) Config {
	return Config{
		Send: func(next SendFunc) SendFunc {
			if timeout <= 0 {
				return next
			}
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return next(ctx, request)
			}
		},
		Stream: func(next StreamFunc) StreamFunc {
			if timeout <= 0 {
				return next
			}
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				stream, err := next(ctx, request)
				if err != nil {
					cancel()
					return nil, err
				}
				return onStreamEnd(stream, func(ai.StreamEvent, error, bool) { cancel() }), nil
			}
		},
	}
}
