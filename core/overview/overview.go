package overview

import (
	"context"
	"time"

	"github.com/leofalp/toolagent/core/cost"
	"github.com/leofalp/toolagent/providers/ai"
)

type contextKey struct{}

// Overview collects what happened during one agent run: every request and
// response, summed token usage and per-tool call statistics. It is not safe
// for concurrent use; the agent records into it from its own goroutine.
type Overview struct {
	LastResponse  *ai.ChatResponse   `json:"last_response,omitempty"`
	Requests      []*ai.ChatRequest  `json:"requests"`
	Responses     []*ai.ChatResponse `json:"responses"`
	TotalUsage    ai.Usage           `json:"total_usage"`
	ToolCallStats map[string]int     `json:"tool_calls,omitempty"`
	ToolFailures  map[string]int     `json:"tool_failures,omitempty"`
	// ModelCost prices TotalUsage; nil leaves the run unpriced.
	ModelCost *cost.ModelCost `json:"model_cost,omitempty"`

	ExecutionStartTime time.Time `json:"execution_start_time,omitempty"`
	ExecutionEndTime   time.Time `json:"execution_end_time,omitempty"`
}

// FromContext returns the Overview stored in ctx, or nil.
func FromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	o, _ := ctx.Value(contextKey{}).(*Overview)
	return o
}

// ToContext returns a copy of ctx carrying the overview.
func (o *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, o)
}

// IncludeUsage adds usage to the totals; nil is ignored.
func (o *Overview) IncludeUsage(usage *ai.Usage) {
	if usage == nil {
		return
	}
	o.TotalUsage.PromptTokens += usage.PromptTokens
	o.TotalUsage.CompletionTokens += usage.CompletionTokens
	o.TotalUsage.TotalTokens += usage.TotalTokens
	o.TotalUsage.ReasoningTokens += usage.ReasoningTokens
	o.TotalUsage.CachedTokens += usage.CachedTokens
}

// AddRequest records a request. The request is stored as given, so callers
// must not modify it afterwards.
func (o *Overview) AddRequest(request *ai.ChatRequest) {
	o.Requests = append(o.Requests, request)
}

// AddResponse records a response, its usage, and makes it the last response.
func (o *Overview) AddResponse(response *ai.ChatResponse) {
	o.Responses = append(o.Responses, response)
	o.LastResponse = response
	o.IncludeUsage(response.Usage)
}

// AddToolResults counts the answered calls per tool name, and the failed
// ones separately.
func (o *Overview) AddToolResults(results []ai.ToolResult) {
	if o.ToolCallStats == nil {
		o.ToolCallStats = make(map[string]int)
	}
	for _, r := range results {
		o.ToolCallStats[r.Name]++
		if !r.Success {
			if o.ToolFailures == nil {
				o.ToolFailures = make(map[string]int)
			}
			o.ToolFailures[r.Name]++
		}
	}
}

func (o *Overview) StartExecution() {
	o.ExecutionStartTime = time.Now()
}

func (o *Overview) EndExecution() {
	o.ExecutionEndTime = time.Now()
}

// ExecutionDuration is zero until both StartExecution and EndExecution ran.
func (o *Overview) ExecutionDuration() time.Duration {
	if o.ExecutionStartTime.IsZero() || o.ExecutionEndTime.IsZero() {
		return 0
	}
	return o.ExecutionEndTime.Sub(o.ExecutionStartTime)
}

func (o *Overview) SetModelCost(modelCost *cost.ModelCost) {
	o.ModelCost = modelCost
}

// CostSummary prices the summed usage, or returns nil without a ModelCost.
func (o *Overview) CostSummary() *cost.Summary {
	if o.ModelCost == nil {
		return nil
	}
	s := o.ModelCost.Summarize(o.TotalUsage.PromptTokens, o.TotalUsage.CompletionTokens, o.TotalUsage.CachedTokens)
	return &s
}
