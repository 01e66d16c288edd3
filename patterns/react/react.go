package react

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/toolagent/core/cost"
	"github.com/leofalp/toolagent/core/overview"
	"github.com/leofalp/toolagent/patterns"
	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/memory"
	"github.com/leofalp/toolagent/providers/observability"
	"github.com/leofalp/toolagent/providers/tool"
)

var _ patterns.Pattern = (*Agent)(nil)

// Agent answers prompts by letting the model call tools until it produces a
// final answer. Its configuration is fixed at construction; every Prompt
// runs on a conversation of its own, so one Agent may serve concurrent
// prompts.
type Agent struct {
	provider ai.Provider
	registry *tool.Registry

	preamble         string
	model            string
	maxIterations    int
	generationConfig *ai.GenerationConfig
	modelCost        *cost.ModelCost

	observer  observability.Provider
	newMemory func() memory.Provider
}

// New creates an agent over provider. Tool names in cfg must be unique;
// otherwise New returns an error wrapping tool.ErrDuplicateToolName.
func New(provider ai.Provider, cfg Config, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is nil", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	registry, err := tool.NewRegistry(cfg.Tools...)
	if err != nil {
		return nil, err
	}
	registry.SetConcurrencyLimit(cfg.ToolConcurrency)

	maxIterations := cfg.MaxToolIterations
	if maxIterations == 0 {
		maxIterations = DefaultMaxToolIterations
	}

	a := &Agent{
		provider:         provider,
		registry:         registry,
		preamble:         cfg.Preamble,
		model:            cfg.Model,
		maxIterations:    maxIterations,
		generationConfig: cfg.GenerationConfig,
		modelCost:        cfg.ModelCost,
		newMemory:        defaultMemory,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Definitions returns the tool definitions sent with every request.
func (a *Agent) Definitions() []ai.ToolDescription {
	return a.registry.Definitions()
}

// MaxToolIterations returns the effective iteration bound.
func (a *Agent) MaxToolIterations() int {
	return a.maxIterations
}

// Execute runs Prompt and returns the overview of the run. On failure the
// overview is still returned with whatever was recorded before the error.
func (a *Agent) Execute(ctx context.Context, prompt string) (*overview.Overview, error) {
	ov := &overview.Overview{ModelCost: a.modelCost}
	ov.StartExecution()
	_, err := a.Prompt(ov.ToContext(ctx), prompt)
	ov.EndExecution()
	return ov, err
}

// Prompt sends prompt in a fresh conversation and returns the model's final
// answer. Tool calls requested by the model are executed concurrently and
// their results fed back, at most MaxToolIterations times; if the model is
// still calling tools after that, Prompt fails with ErrMaxIterationsExceeded.
// Provider errors are returned unchanged.
//
// When ctx carries an overview.Overview, every request, response and tool
// result is recorded into it.
func (a *Agent) Prompt(ctx context.Context, prompt string) (answer string, err error) {
	observer := a.observerFor(ctx)
	var span observability.Span
	if observer != nil {
		ctx = observability.ContextWithObserver(ctx, observer)
		ctx, span = observer.StartSpan(ctx, observability.SpanAgentPrompt,
			observability.Bool(observability.AttrAgentPreambleSet, a.preamble != ""),
			observability.Int(observability.AttrAgentMaxIterations, a.maxIterations),
			observability.Int(observability.AttrToolCount, a.registry.Len()),
			observability.String(observability.AttrAgentPrompt, observability.TruncateString(prompt, 0)),
		)
		defer func() {
			a.finishPrompt(ctx, observer, span, err)
			span.End()
		}()
	}

	conversation := a.newConversation(ctx, prompt)
	ov := overview.FromContext(ctx)

	for iteration := 0; ; {
		if span != nil {
			span.SetAttributes(observability.Int(observability.AttrAgentIteration, iteration))
		}

		messages, err := conversation.AllMessages(ctx)
		if err != nil {
			return "", err
		}
		request := ai.ChatRequest{
			Model:            a.model,
			Messages:         messages,
			Tools:            a.registry.Definitions(),
			GenerationConfig: a.generationConfig,
		}

		response, err := a.send(ctx, observer, &request)
		if err != nil {
			return "", err
		}

		assistant := response.AssistantMessage()
		assignCallIDs(assistant.ToolCalls)
		conversation.AppendMessage(ctx, &assistant)

		if len(assistant.ToolCalls) == 0 {
			return assistant.Content, nil
		}

		results := a.registry.DispatchAll(ctx, assistant.ToolCalls)
		conversation.AppendMessage(ctx, &ai.Message{Role: ai.RoleTool, ToolResults: results})
		if ov != nil {
			ov.AddToolResults(results)
		}

		iteration++
		if iteration >= a.maxIterations {
			return "", fmt.Errorf("%w: model still requested %d tool call(s) after %d iteration(s)",
				ErrMaxIterationsExceeded, len(assistant.ToolCalls), iteration)
		}
	}
}

func (a *Agent) newConversation(ctx context.Context, prompt string) memory.Provider {
	conversation := a.newMemory()
	if a.preamble != "" {
		conversation.AppendMessage(ctx, &ai.Message{Role: ai.RoleSystem, Content: a.preamble})
	}
	conversation.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: prompt})
	return conversation
}

// send performs one model request and records it.
func (a *Agent) send(ctx context.Context, observer observability.Provider, request *ai.ChatRequest) (*ai.ChatResponse, error) {
	ov := overview.FromContext(ctx)
	if ov != nil {
		ov.AddRequest(request)
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart,
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}

	start := time.Now()
	response, err := a.provider.SendMessage(ctx, *request)
	duration := time.Since(start)
	if err == nil && response == nil {
		err = errors.New("react: provider returned no response")
	}

	if observer != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		attrs := []observability.Attribute{
			observability.String(observability.AttrLLMModel, request.Model),
			observability.String(observability.AttrStatus, status),
		}
		observer.Counter(observability.MetricLLMRequestCount).Add(ctx, 1, attrs...)
		observer.Histogram(observability.MetricLLMRequestDuration).Record(ctx, duration.Seconds(), attrs...)
	}
	if err != nil {
		return nil, err
	}

	if ov != nil {
		ov.AddResponse(response)
	}

	if span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrLLMResponseID, response.Id),
			observability.String(observability.AttrLLMFinishReason, response.FinishReason),
			observability.Int(observability.AttrResponseToolCalls, len(response.ToolCalls)),
			observability.Duration(observability.AttrDuration, duration),
		}
		if response.Usage != nil {
			attrs = append(attrs, observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens))
		}
		span.AddEvent(observability.EventLLMRequestEnd, attrs...)
	}
	if observer != nil && response.Usage != nil {
		observer.Counter(observability.MetricLLMTokensTotal).Add(ctx, int64(response.Usage.TotalTokens),
			observability.String(observability.AttrLLMModel, request.Model))
	}

	return response, nil
}

func (a *Agent) finishPrompt(ctx context.Context, observer observability.Provider, span observability.Span, err error) {
	outcome := "done"
	switch {
	case errors.Is(err, ErrMaxIterationsExceeded):
		outcome = "max_iterations_exceeded"
	case err != nil:
		outcome = "failed"
	}

	observer.Counter(observability.MetricAgentPromptCount).Add(ctx, 1,
		observability.String(observability.AttrAgentOutcome, outcome))
	span.SetAttributes(observability.String(observability.AttrAgentOutcome, outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, err.Error())
		observer.Error(ctx, "prompt failed", observability.Error(err))
		return
	}
	span.SetStatus(observability.StatusOK, "")
}

func (a *Agent) observerFor(ctx context.Context) observability.Provider {
	if a.observer != nil {
		return a.observer
	}
	return observability.ObserverFromContext(ctx)
}

// assignCallIDs gives every call an id so results can be correlated even
// when the provider omits them.
func assignCallIDs(calls []ai.ToolCall) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.NewString()
		}
		if calls[i].Type == "" {
			calls[i].Type = "function"
		}
	}
}
