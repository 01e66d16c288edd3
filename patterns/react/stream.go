package react

import (
	"context"
	"errors"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/observability"
)

// Stream sends the preamble and prompt without tool definitions and returns
// the reply as a lazy stream. Providers implementing ai.StreamProvider
// stream natively; others are called through SendMessage and the complete
// response is replayed as a single-event stream.
//
// The returned stream must be consumed or abandoned by breaking out of its
// iterator; the agent.stream span ends when iteration stops.
func (a *Agent) Stream(ctx context.Context, prompt string) (*ai.ChatStream, error) {
	observer := a.observerFor(ctx)
	var span observability.Span
	if observer != nil {
		ctx = observability.ContextWithObserver(ctx, observer)
		ctx, span = observer.StartSpan(ctx, observability.SpanAgentStream,
			observability.Bool(observability.AttrAgentPreambleSet, a.preamble != ""),
			observability.String(observability.AttrAgentPrompt, observability.TruncateString(prompt, 0)),
		)
	}

	conversation := a.newConversation(ctx, prompt)
	messages, err := conversation.AllMessages(ctx)
	if err != nil {
		endStreamSpan(span, err)
		return nil, err
	}
	request := ai.ChatRequest{
		Model:            a.model,
		Messages:         messages,
		GenerationConfig: a.generationConfig,
	}

	stream, native, err := a.openStream(ctx, request)
	if err != nil {
		endStreamSpan(span, err)
		return nil, err
	}
	if span == nil {
		return stream, nil
	}
	span.SetAttributes(observability.Bool(observability.AttrLLMStreaming, native))

	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		var streamErr error
		defer func() { endStreamSpan(span, streamErr) }()

		for event, err := range stream.Iter() {
			if err != nil {
				streamErr = err
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}), nil
}

func (a *Agent) openStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, bool, error) {
	if sp, ok := a.provider.(ai.StreamProvider); ok {
		stream, err := sp.StreamMessage(ctx, request)
		if err != nil {
			return nil, true, err
		}
		if stream == nil {
			return nil, true, errors.New("react: provider returned no stream")
		}
		return stream, true, nil
	}

	response, err := a.provider.SendMessage(ctx, request)
	if err != nil {
		return nil, false, err
	}
	if response == nil {
		return nil, false, errors.New("react: provider returned no response")
	}
	return ai.NewSingleEventStream(response), false, nil
}

func endStreamSpan(span observability.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, err.Error())
	} else {
		span.SetStatus(observability.StatusOK, "")
	}
	span.End()
}
