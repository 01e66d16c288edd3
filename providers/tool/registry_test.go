package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/observability"
	"github.com/leofalp/toolagent/providers/observability/slogobs"
)

// mockTool is a GenericTool whose behavior is set per test.
type mockTool struct {
	name  string
	delay time.Duration
	call  func(ctx context.Context, input string) (string, error)
}

func (m *mockTool) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{Name: m.name, Description: "mock " + m.name}
}

func (m *mockTool) Call(ctx context.Context, input string) (string, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.call != nil {
		return m.call(ctx, input)
	}
	return `"` + m.name + `"`, nil
}

func call(id, name, args string) ai.ToolCall {
	return ai.ToolCall{ID: id, Type: "function", Function: ai.ToolCallFunction{Name: name, Arguments: args}}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r, err := NewRegistry(&mockTool{name: "calculator"})
	if err != nil {
		t.Fatal(err)
	}

	err = r.Register(&mockTool{name: "calculator"})
	if !errors.Is(err, ErrDuplicateToolName) {
		t.Fatalf("expected ErrDuplicateToolName, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("duplicate must not be inserted, have %d tools", r.Len())
	}

	if _, err := NewRegistry(&mockTool{name: "a"}, &mockTool{name: "a"}); !errors.Is(err, ErrDuplicateToolName) {
		t.Errorf("NewRegistry: expected ErrDuplicateToolName, got %v", err)
	}
	if err := r.Register(&mockTool{name: ""}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestDefinitionsKeepRegistrationOrder(t *testing.T) {
	names := []string{"zeta", "alpha", "get_weather", "calculator", "beta"}
	r, _ := NewRegistry()
	for _, n := range names {
		if err := r.Register(&mockTool{name: n}); err != nil {
			t.Fatal(err)
		}
	}

	for attempt := 0; attempt < 3; attempt++ {
		defs := r.Definitions()
		if len(defs) != len(names) {
			t.Fatalf("expected %d definitions, got %d", len(names), len(defs))
		}
		for i, def := range defs {
			if def.Name != names[i] {
				t.Fatalf("position %d: expected %s, got %s", i, names[i], def.Name)
			}
		}
	}

	if got := strings.Join(r.Names(), ","); got != strings.Join(names, ",") {
		t.Errorf("Names() = %s", got)
	}

	empty, _ := NewRegistry()
	if empty.Definitions() != nil {
		t.Error("empty registry should have no definitions")
	}
}

func TestDispatchOutcomes(t *testing.T) {
	r, _ := NewRegistry(
		addTool(),
		&mockTool{name: "broken", call: func(context.Context, string) (string, error) {
			return "", errors.New("disk on fire")
		}},
	)

	tests := []struct {
		name        string
		call        ai.ToolCall
		wantSuccess bool
		wantKind    string
		wantOutput  string
	}{
		{name: "success", call: call("c1", "add", `{"a":1,"b":2}`), wantSuccess: true, wantOutput: `{"sum":3}`},
		{name: "unknown tool", call: call("c2", "nope", `{}`), wantKind: ai.ToolErrorUnknownTool},
		{name: "bad arguments", call: call("c3", "add", `{"a":1}`), wantKind: ai.ToolErrorArgumentParse},
		{name: "tool failure", call: call("c4", "broken", `{}`), wantKind: ai.ToolErrorExecutionFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Dispatch(context.Background(), tc.call)
			if result.CallID != tc.call.ID {
				t.Errorf("expected call id %s, got %s", tc.call.ID, result.CallID)
			}
			if result.Success != tc.wantSuccess {
				t.Fatalf("expected success=%v, got %+v", tc.wantSuccess, result)
			}
			if tc.wantSuccess && result.Output != tc.wantOutput {
				t.Errorf("expected output %s, got %s", tc.wantOutput, result.Output)
			}
			if !tc.wantSuccess && (result.Error != tc.wantKind || result.Message == "") {
				t.Errorf("expected kind %s with message, got %+v", tc.wantKind, result)
			}
		})
	}
}

func TestDispatchAllCorrelatesByID(t *testing.T) {
	const n = 8
	r, _ := NewRegistry()
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("tool_%d", i)
		// Earlier calls sleep longer so completion order is reversed.
		if err := r.Register(&mockTool{name: name, delay: time.Duration(n-i) * 5 * time.Millisecond}); err != nil {
			t.Fatal(err)
		}
	}

	calls := make([]ai.ToolCall, n)
	for i := range calls {
		calls[i] = call(fmt.Sprintf("call_%d", i), fmt.Sprintf("tool_%d", i), "{}")
	}

	results := r.DispatchAll(context.Background(), calls)
	if len(results) != n {
		t.Fatalf("expected %d results, got %d", n, len(results))
	}

	seen := map[string]bool{}
	for _, res := range results {
		if seen[res.CallID] {
			t.Fatalf("duplicate result for %s", res.CallID)
		}
		seen[res.CallID] = true
		want := `"` + strings.Replace(res.CallID, "call_", "tool_", 1) + `"`
		if !res.Success || res.Output != want {
			t.Errorf("result %s: expected %s, got %+v", res.CallID, want, res)
		}
	}
}

func TestDispatchAllRunsConcurrently(t *testing.T) {
	var active, peak atomic.Int32
	slow := func(context.Context, string) (string, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return `"ok"`, nil
	}

	r, _ := NewRegistry(&mockTool{name: "slow", call: slow})
	calls := []ai.ToolCall{call("a", "slow", "{}"), call("b", "slow", "{}"), call("c", "slow", "{}"), call("d", "slow", "{}")}

	r.DispatchAll(context.Background(), calls)
	if peak.Load() < 2 {
		t.Errorf("expected concurrent execution, peak was %d", peak.Load())
	}

	peak.Store(0)
	r.SetConcurrencyLimit(1)
	r.DispatchAll(context.Background(), calls)
	if peak.Load() != 1 {
		t.Errorf("limit 1 should serialize calls, peak was %d", peak.Load())
	}
}

func TestDispatchAllEmpty(t *testing.T) {
	r, _ := NewRegistry()
	if got := r.DispatchAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestDispatchRecordsMetrics(t *testing.T) {
	observer := slogobs.New(slogobs.WithOutput(&strings.Builder{}))
	ctx := observability.ContextWithObserver(context.Background(), observer)

	r, _ := NewRegistry(addTool())
	r.DispatchAll(ctx, []ai.ToolCall{
		call("1", "add", `{"a":1,"b":1}`),
		call("2", "missing", `{}`),
	})

	if got := observer.CounterValue(observability.MetricToolCallCount); got != 2 {
		t.Errorf("expected 2 tool calls counted, got %d", got)
	}
	if got := observer.CounterValue(observability.MetricToolFailureCount); got != 1 {
		t.Errorf("expected 1 failure counted, got %d", got)
	}
	if got := observer.HistogramCount(observability.MetricToolExecutionDuration); got != 2 {
		t.Errorf("expected 2 duration samples, got %d", got)
	}
}
