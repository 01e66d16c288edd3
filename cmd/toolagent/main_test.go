package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leofalp/toolagent/internal/config"
	"github.com/leofalp/toolagent/patterns/react"
	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/tool"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestToolsListsDefinitions(t *testing.T) {
	out, err := runCLI(t, "", "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var defs []ai.ToolDescription
	if err := json.Unmarshal([]byte(out), &defs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(defs) != 2 || defs[0].Name != "calculator" || defs[1].Name != "get_weather" {
		t.Errorf("unexpected definitions %+v", defs)
	}
	if defs[0].Parameters == nil || defs[0].Parameters.Required[0] != "expression" {
		t.Errorf("calculator parameters missing: %+v", defs[0].Parameters)
	}
}

func TestToolsRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"calculator", []string{"calculator", `{"expression":"(15+25)*2"}`}, `"(15+25)*2 = 80"`, false},
		{"weather alias", []string{"get_weather", `{"city":"上海"}`}, "Shanghai", false},
		{"division by zero", []string{"calculator", `{"expression":"8/0"}`}, "tool_execution_failed", true},
		{"missing arguments", []string{"calculator"}, "argument_parse_error", true},
		{"unknown tool", []string{"search", `{}`}, "unknown_tool", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, "", append([]string{"tools", "run"}, tc.args...)...)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("expected output to contain %q, got %q", tc.want, out)
			}
		})
	}
}

func TestBuildToolsRejectsUnknown(t *testing.T) {
	if _, err := buildTools([]string{"calculator", "search"}); !errors.Is(err, tool.ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv(config.EnvModel, "")
	cfg, err := loadConfig(&rootOptions{
		model:     "deepseek-reasoner",
		logLevel:  "debug",
		logFormat: "json",
		backend:   "NONE",
		envFiles:  []string{filepath.Join(t.TempDir(), "none.env")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "deepseek-reasoner" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Observability.Backend != config.BackendNone {
		t.Errorf("expected backend none, got %q", cfg.Observability.Backend)
	}

	if _, err := loadConfig(&rootOptions{backend: "statsd"}); err == nil {
		t.Error("expected validation error for unknown backend")
	}
}

type scriptedProvider struct {
	answers []string
	n       int
}

func (p *scriptedProvider) SendMessage(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.n >= len(p.answers) {
		return nil, errors.New("out of answers")
	}
	answer := p.answers[p.n]
	p.n++
	return &ai.ChatResponse{Content: answer}, nil
}

func TestRunInteractive(t *testing.T) {
	agent, err := react.New(&scriptedProvider{answers: []string{"Hi there!"}}, react.Config{})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	in := strings.NewReader("hello\n\nsecond\nexit\nnever sent\n")
	if err := runInteractive(context.Background(), in, &out, agent, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Hi there!") {
		t.Errorf("missing first answer in %q", got)
	}
	if !strings.Contains(got, "error: out of answers") {
		t.Errorf("failed prompt should be reported and the loop continue: %q", got)
	}
}

func TestChatAgainstServer(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		if requests == 1 {
			fmt.Fprint(w, `{"id":"1","object":"chat.completion","created":1,"model":"deepseek-chat","choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"calculator","arguments":"{\"expression\":\"123+456\"}"}}]}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)
			return
		}
		fmt.Fprint(w, `{"id":"2","object":"chat.completion","created":1,"model":"deepseek-chat","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"123 + 456 = 579"}}],"usage":{"prompt_tokens":20,"completion_tokens":6,"total_tokens":26}}`)
	}))
	defer srv.Close()

	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv(config.EnvBaseURL, srv.URL)

	out, err := runCLI(t, "", "chat", "--observability", "none", "--overview", "What is 123 + 456?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "123 + 456 = 579") {
		t.Errorf("missing answer in %q", out)
	}
	if !strings.Contains(out, `"calculator": 1`) || !strings.Contains(out, `"requests": 2`) {
		t.Errorf("overview missing tool stats: %q", out)
	}
	if !strings.Contains(out, `"currency": "USD"`) {
		t.Errorf("overview missing cost estimate: %q", out)
	}
	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	if _, err := runCLI(t, "", "chat", "--observability", "none", "hi"); err == nil {
		t.Fatal("expected missing API key error")
	}
}
