package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/observability"
)

// Registry holds the tools available to one agent, keyed by name and kept in
// registration order. It is safe for concurrent use, but tools must not be
// registered while a dispatch that relies on them is in flight.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
	order []string

	limit int
}

// NewRegistry creates a registry holding tools, in order. It fails with
// ErrDuplicateToolName if two tools share a name.
func NewRegistry(tools ...GenericTool) (*Registry, error) {
	r := &Registry{tools: make(map[string]GenericTool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. Names are case-sensitive; a second tool with the same name
// is rejected rather than replacing the first.
func (r *Registry) Register(t GenericTool) error {
	name := t.ToolInfo().Name
	if name == "" {
		return errors.New("tool: empty tool name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateToolName, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// SetConcurrencyLimit caps how many calls DispatchAll runs at once.
// Zero or a negative value means one goroutine per call.
func (r *Registry) SetConcurrencyLimit(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = n
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (GenericTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Definitions returns the tool definitions in registration order. The slice
// is built fresh on every call.
func (r *Registry) Definitions() []ai.ToolDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	defs := make([]ai.ToolDescription, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].ToolInfo())
	}
	return defs
}

// Dispatch executes call and always returns a result for it: unknown tools,
// unparsable arguments and tool errors become failed results so the model
// can react to them.
func (r *Registry) Dispatch(ctx context.Context, call ai.ToolCall) ai.ToolResult {
	name := call.Function.Name
	observer := observability.ObserverFromContext(ctx)

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanToolExecution,
			observability.String(observability.AttrToolName, name),
			observability.String(observability.AttrToolCallID, call.ID),
		)
		defer span.End()
	}

	start := time.Now()
	result := r.dispatch(ctx, call)
	duration := time.Since(start)

	if observer != nil {
		attrs := []observability.Attribute{observability.String(observability.AttrToolName, name)}
		observer.Counter(observability.MetricToolCallCount).Add(ctx, 1, attrs...)
		observer.Histogram(observability.MetricToolExecutionDuration).Record(ctx, duration.Seconds(), attrs...)

		span.SetAttributes(observability.Duration(observability.AttrToolDuration, duration))
		if result.Success {
			span.SetAttributes(observability.String(observability.AttrToolOutput, observability.TruncateString(result.Output, 0)))
			span.SetStatus(observability.StatusOK, "")
		} else {
			observer.Counter(observability.MetricToolFailureCount).Add(ctx, 1,
				append(attrs, observability.String(observability.AttrToolErrorKind, result.Error))...)
			span.SetAttributes(
				observability.String(observability.AttrToolErrorKind, result.Error),
				observability.String(observability.AttrToolError, result.Message),
			)
			span.SetStatus(observability.StatusError, result.Message)
			observer.Warn(ctx, "tool call failed",
				observability.String(observability.AttrToolName, name),
				observability.String(observability.AttrToolErrorKind, result.Error),
				observability.String(observability.AttrToolError, result.Message),
			)
		}
	}

	return result
}

func (r *Registry) dispatch(ctx context.Context, call ai.ToolCall) ai.ToolResult {
	name := call.Function.Name

	t, ok := r.Get(name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownTool, name)
		return ai.NewToolResultError(call.ID, name, ai.ToolErrorUnknownTool, err.Error())
	}

	output, err := t.Call(ctx, call.Function.Arguments)
	switch {
	case errors.Is(err, ErrArgumentParse):
		return ai.NewToolResultError(call.ID, name, ai.ToolErrorArgumentParse, err.Error())
	case err != nil:
		return ai.NewToolResultError(call.ID, name, ai.ToolErrorExecutionFailed, err.Error())
	}
	return ai.NewToolResultSuccess(call.ID, name, output)
}

// DispatchAll runs every call concurrently and waits for all of them. The
// result at index i answers calls[i] and carries its CallID; consumers
// should still match on CallID rather than position.
func (r *Registry) DispatchAll(ctx context.Context, calls []ai.ToolCall) []ai.ToolResult {
	results := make([]ai.ToolResult, len(calls))
	if len(calls) == 0 {
		return results
	}

	r.mu.RLock()
	limit := r.limit
	r.mu.RUnlock()

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, call := range calls {
		g.Go(func() error {
			results[i] = r.Dispatch(ctx, call)
			return nil
		})
	}
	_ = g.Wait() // Dispatch never fails; errors travel inside results

	return results
}
