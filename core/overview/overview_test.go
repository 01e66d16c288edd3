package overview

import (
	"context"
	"testing"
	"time"

	"github.com/leofalp/toolagent/core/cost"
	"github.com/leofalp/toolagent/providers/ai"
)

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil overview in empty context")
	}

	o := &Overview{}
	if FromContext(o.ToContext(context.Background())) != o {
		t.Error("expected the stored overview back")
	}
}

func TestAddResponseAccumulatesUsage(t *testing.T) {
	o := &Overview{}
	o.AddResponse(&ai.ChatResponse{Content: "a", Usage: &ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}})
	o.AddResponse(&ai.ChatResponse{Content: "b"})
	o.AddResponse(&ai.ChatResponse{Content: "c", Usage: &ai.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3, ReasoningTokens: 4}})

	if len(o.Responses) != 3 || o.LastResponse.Content != "c" {
		t.Fatalf("unexpected responses %+v", o.Responses)
	}
	want := ai.Usage{PromptTokens: 11, CompletionTokens: 7, TotalTokens: 18, ReasoningTokens: 4}
	if o.TotalUsage != want {
		t.Errorf("expected usage %+v, got %+v", want, o.TotalUsage)
	}
}

func TestAddToolResults(t *testing.T) {
	o := &Overview{}
	o.AddToolResults([]ai.ToolResult{
		ai.NewToolResultSuccess("1", "calculator", "1"),
		ai.NewToolResultError("2", "calculator", ai.ToolErrorExecutionFailed, "bad"),
		ai.NewToolResultSuccess("3", "get_weather", "sunny"),
	})

	if o.ToolCallStats["calculator"] != 2 || o.ToolCallStats["get_weather"] != 1 {
		t.Errorf("unexpected call stats %v", o.ToolCallStats)
	}
	if o.ToolFailures["calculator"] != 1 || o.ToolFailures["get_weather"] != 0 {
		t.Errorf("unexpected failure stats %v", o.ToolFailures)
	}
}

func TestExecutionDuration(t *testing.T) {
	o := &Overview{}
	if o.ExecutionDuration() != 0 {
		t.Error("expected zero before start")
	}
	o.StartExecution()
	if o.ExecutionDuration() != 0 {
		t.Error("expected zero before end")
	}
	o.ExecutionStartTime = o.ExecutionStartTime.Add(-time.Second)
	o.EndExecution()
	if o.ExecutionDuration() < time.Second {
		t.Errorf("unexpected duration %v", o.ExecutionDuration())
	}
}

func TestCostSummary(t *testing.T) {
	o := &Overview{}
	if o.CostSummary() != nil {
		t.Fatal("expected no summary without a model cost")
	}

	o.SetModelCost(&cost.ModelCost{InputCostPerMillion: 2, OutputCostPerMillion: 4})
	o.IncludeUsage(&ai.Usage{PromptTokens: 500_000, CompletionTokens: 250_000, TotalTokens: 750_000})

	s := o.CostSummary()
	if s == nil || s.TotalCost != 2 {
		t.Errorf("expected total cost 2, got %+v", s)
	}
}
