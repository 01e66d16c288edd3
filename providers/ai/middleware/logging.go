package middleware

import (
	"context"
	"time"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/observability"
)

// Detail controls how much the logging middleware records per call.
type Detail int

const (
	// DetailMinimal logs model, duration and token counts.
	DetailMinimal Detail = iota
	// DetailStandard adds message and tool counts and the finish reason.
	DetailStandard
	// DetailVerbose adds the last message and the response content,
	// truncated. It logs user data; keep it to local debugging.
	DetailVerbose
)

// NewLogging logs every provider call to logger: one Debug entry when the
// request leaves, one Info entry when it completes and one Error entry when
// it fails. Streams are logged when they end.
func NewLogging(logger observability.Logger, detail Detail) Config {
	return Config{
		Send: func(next SendFunc) SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				logger.Debug(ctx, "llm send", requestAttrs(request, detail)...)

				start := time.Now()
				response, err := next(ctx, request)
				if err != nil {
					logger.Error(ctx, "llm send failed", failureAttrs(request, start, err)...)
					return nil, err
				}

				logger.Info(ctx, "llm send completed", responseAttrs(response, time.Since(start), detail)...)
				return response, nil
			}
		},
		Stream: func(next StreamFunc) StreamFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
				logger.Debug(ctx, "llm stream", requestAttrs(request, detail)...)

				start := time.Now()
				stream, err := next(ctx, request)
				if err != nil {
					logger.Error(ctx, "llm stream failed", failureAttrs(request, start, err)...)
					return nil, err
				}

				var usage *ai.Usage
				counted := ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
					for event, err := range stream.Iter() {
						if event.Type == ai.StreamEventUsage && event.Usage != nil {
							usage = event.Usage
						}
						if !yield(event, err) || err != nil {
							return
						}
					}
				})

				return onStreamEnd(counted, func(last ai.StreamEvent, err error, abandoned bool) {
					switch {
					case err != nil:
						logger.Error(ctx, "llm stream failed", failureAttrs(request, start, err)...)
					case abandoned:
						logger.Info(ctx, "llm stream abandoned",
							observability.String(observability.AttrLLMModel, request.Model),
							observability.Duration(observability.AttrDuration, time.Since(start)),
						)
					default:
						attrs := []observability.Attribute{
							observability.String(observability.AttrLLMModel, request.Model),
							observability.Duration(observability.AttrDuration, time.Since(start)),
						}
						if detail >= DetailStandard && last.FinishReason != "" {
							attrs = append(attrs, observability.String(observability.AttrLLMFinishReason, last.FinishReason))
						}
						attrs = append(attrs, usageAttrs(usage)...)
						logger.Info(ctx, "llm stream completed", attrs...)
					}
				}), nil
			}
		},
	}
}

func requestAttrs(request ai.ChatRequest, detail Detail) []observability.Attribute {
	attrs := []observability.Attribute{observability.String(observability.AttrLLMModel, request.Model)}
	if detail >= DetailStandard {
		attrs = append(attrs,
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}
	if detail >= DetailVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			observability.String(observability.AttrMemoryMessageRole, string(last.Role)),
			observability.String("request.last_message", observability.TruncateString(last.Content, 0)),
		)
	}
	return attrs
}

func responseAttrs(response *ai.ChatResponse, elapsed time.Duration, detail Detail) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, response.Model),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	attrs = append(attrs, usageAttrs(response.Usage)...)
	if detail >= DetailStandard {
		if response.FinishReason != "" {
			attrs = append(attrs, observability.String(observability.AttrLLMFinishReason, response.FinishReason))
		}
		attrs = append(attrs, observability.Int(observability.AttrResponseToolCalls, len(response.ToolCalls)))
	}
	if detail >= DetailVerbose && response.Content != "" {
		attrs = append(attrs, observability.String("response.content", observability.TruncateString(response.Content, 0)))
	}
	return attrs
}

func usageAttrs(usage *ai.Usage) []observability.Attribute {
	if usage == nil {
		return nil
	}
	return []observability.Attribute{
		observability.Int(observability.AttrLLMTokensPrompt, usage.PromptTokens),
		observability.Int(observability.AttrLLMTokensCompletion, usage.CompletionTokens),
		observability.Int(observability.AttrLLMTokensTotal, usage.TotalTokens),
	}
}

func failureAttrs(request ai.ChatRequest, start time.Time, err error) []observability.Attribute {
	return []observability.Attribute{
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Duration(observability.AttrDuration, time.Since(start)),
		observability.Error(err),
	}
}
