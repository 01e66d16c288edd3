package middleware

import (
	"context"
	"errors"

	"github.com/leofalp/toolagent/providers/ai"
)

// SendFunc is one step of the SendMessage chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// StreamFunc is one step of the StreamMessage chain.
type StreamFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error)

// Middleware wraps the next SendFunc.
type Middleware func(next SendFunc) SendFunc

// StreamMiddleware wraps the next StreamFunc. It may wrap the returned
// stream to observe its events.
type StreamMiddleware func(next StreamFunc) StreamFunc

// Config pairs a send middleware with its optional streaming counterpart.
// Send is required; a nil Stream lets streaming calls bypass this entry.
type Config struct {
	Send   Middleware
	Stream StreamMiddleware
}

// Provider is an ai.Provider with a middleware chain in front of it.
type Provider struct {
	base   ai.Provider
	send   SendFunc
	stream StreamFunc
}

var _ ai.StreamProvider = (*Provider)(nil)

// Wrap puts middlewares in front of provider. The first entry is the
// outermost wrapper: it sees the request first and the response last.
//
// The wrapped provider always streams. When provider does not implement
// ai.StreamProvider, StreamMessage falls back to SendMessage and replays the
// response as a single-event stream, still passing through the stream chain.
func Wrap(provider ai.Provider, middlewares ...Config) (*Provider, error) {
	if provider == nil {
		return nil, errors.New("middleware: provider is nil")
	}
	for _, m := range middlewares {
		if m.Send == nil {
			return nil, errors.New("middleware: Send must not be nil")
		}
	}

	return &Provider{
		base:   provider,
		send:   buildSendChain(provider, middlewares),
		stream: buildStreamChain(provider, middlewares),
	}, nil
}

// Unwrap returns the provider behind the chain.
func (p *Provider) Unwrap() ai.Provider {
	return p.base
}

func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.send(ctx, request)
}

func (p *Provider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	return p.stream(ctx, request)
}

func buildSendChain(provider ai.Provider, middlewares []Config) SendFunc {
	chain := SendFunc(provider.SendMessage)
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}
	return chain
}

func buildStreamChain(provider ai.Provider, middlewares []Config) StreamFunc {
	var chain StreamFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
		if sp, ok := provider.(ai.StreamProvider); ok {
			return sp.StreamMessage(ctx, request)
		}
		response, err := provider.SendMessage(ctx, request)
		if err != nil {
			return nil, err
		}
		return ai.NewSingleEventStream(response), nil
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Stream != nil {
			chain = middlewares[i].Stream(chain)
		}
	}
	return chain
}

// onStreamEnd returns a stream yielding the events of stream and calling
// done exactly once when it ends: after the done event, after an error, when
// the consumer stops early, or when the source is exhausted.
func onStreamEnd(stream *ai.ChatStream, done func(last ai.StreamEvent, err error, abandoned bool)) *ai.ChatStream {
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		var last ai.StreamEvent
		for event, err := range stream.Iter() {
			if err != nil {
				done(last, err, false)
				yield(event, err)
				return
			}
			last = event
			if !yield(event, nil) {
				done(last, nil, true)
				return
			}
			if event.Type == ai.StreamEventDone {
				break
			}
		}
		done(last, nil, false)
	})
}
