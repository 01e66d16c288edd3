package observability

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attribute
		key   string
		value any
	}{
		{"string", String(AttrToolName, "calculator"), AttrToolName, "calculator"},
		{"int", Int(AttrAgentIteration, 2), AttrAgentIteration, 2},
		{"int64", Int64(AttrLLMTokensTotal, 99), AttrLLMTokensTotal, int64(99)},
		{"float64", Float64("ratio", 0.5), "ratio", 0.5},
		{"bool", Bool(AttrLLMStreaming, true), AttrLLMStreaming, true},
		{"duration", Duration(AttrToolDuration, time.Second), AttrToolDuration, time.Second},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.attr.Key != tc.key || tc.attr.Value != tc.value {
				t.Errorf("got %s=%v, want %s=%v", tc.attr.Key, tc.attr.Value, tc.key, tc.value)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("unexpected truncation %q", got)
	}

	got := TruncateString(strings.Repeat("x", 20), 5)
	if !strings.HasPrefix(got, "xxxxx...") || !strings.Contains(got, "total: 20") {
		t.Errorf("unexpected truncation %q", got)
	}

	long := strings.Repeat("y", DefaultMaxStringLength+1)
	if got := TruncateString(long, 0); !strings.Contains(got, "truncated") {
		t.Errorf("non-positive limit should use the default, got %d chars", len(got))
	}
}
