package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
	if !reflect.DeepEqual(cfg.Agent.Tools, KnownTools) {
		t.Errorf("default tools %v, want %v", cfg.Agent.Tools, KnownTools)
	}
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
provider:
  model: deepseek-reasoner
  timeout: 30s
agent:
  preamble: Answer briefly.
  max_tool_iterations: 3
  tool_concurrency: 2
  tools: [calculator]
log:
  format: json
observability:
  backend: otel
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Model != "deepseek-reasoner" || cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("unexpected provider %+v", cfg.Provider)
	}
	if cfg.Provider.BaseURL != Default().Provider.BaseURL {
		t.Errorf("unset fields must keep defaults, got base URL %q", cfg.Provider.BaseURL)
	}
	if cfg.Agent.Preamble != "Answer briefly." || cfg.Agent.MaxToolIterations != 3 || cfg.Agent.ToolConcurrency != 2 {
		t.Errorf("unexpected agent %+v", cfg.Agent)
	}
	if !reflect.DeepEqual(cfg.Agent.Tools, []string{"calculator"}) {
		t.Errorf("unexpected tools %v", cfg.Agent.Tools)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log %+v", cfg.Log)
	}
	if cfg.Observability.Backend != BackendOtel {
		t.Errorf("unexpected backend %q", cfg.Observability.Backend)
	}
}

func TestLoadFromReaderEmptyDocument(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty profile should yield defaults: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("agent:\n  max_iterations: 3\n"))
	if err == nil || !strings.Contains(err.Error(), "max_iterations") {
		t.Errorf("expected unknown field error, got %v", err)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Provider.BaseURL = ""
	cfg.Agent.MaxToolIterations = 0
	cfg.Agent.ToolConcurrency = -1
	cfg.Agent.Tools = []string{"calculator", "search", "calculator"}
	cfg.Log.Format = "xml"
	cfg.Log.Level = "loud"
	cfg.Observability.Backend = "datadog"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"provider.base_url",
		"agent.max_tool_iterations",
		"agent.tool_concurrency",
		`agent.tools[1] "search" is unknown`,
		`agent.tools[2] "calculator" is a duplicate of agent.tools[0]`,
		"log.format",
		"log.level",
		"observability.backend",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseURL:                    "http://localhost:8080",
		EnvModel:                      "deepseek-reasoner",
		EnvMaxToolIterations:          "7",
		EnvBackend:                    "OTEL",
		"TOOLAGENT_LOG_LEVEL":         "debug",
		"TOOLAGENT_LOG_FORMAT":        "json",
		"UNRELATED_VARIABLE_FOR_TEST": "x",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(cfg, lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.BaseURL != "http://localhost:8080" || cfg.Provider.Model != "deepseek-reasoner" {
		t.Errorf("unexpected provider %+v", cfg.Provider)
	}
	if cfg.Agent.MaxToolIterations != 7 {
		t.Errorf("expected 7 iterations, got %d", cfg.Agent.MaxToolIterations)
	}
	if cfg.Observability.Backend != BackendOtel {
		t.Errorf("expected otel backend, got %q", cfg.Observability.Backend)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log %+v", cfg.Log)
	}

	env[EnvMaxToolIterations] = "many"
	if err := ApplyEnv(Default(), lookup); err == nil {
		t.Error("expected error for non-numeric iteration bound")
	}
}

func TestLoadFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()

	profile := filepath.Join(dir, "agent.yaml")
	if err := os.WriteFile(profile, []byte("provider:\n  api_key_env: TOOLAGENT_TEST_KEY\nagent:\n  tools: [get_weather]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("TOOLAGENT_TEST_KEY=sk-from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TOOLAGENT_TEST_KEY", "")
	os.Unsetenv("TOOLAGENT_TEST_KEY")
	t.Setenv(EnvModel, "deepseek-reasoner")

	if err := LoadDotEnv(dotenv, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg, err := Load(profile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey() != "sk-from-dotenv" {
		t.Errorf("expected API key from .env, got %q", cfg.APIKey())
	}
	if cfg.Provider.Model != "deepseek-reasoner" {
		t.Errorf("environment must override the profile, got model %q", cfg.Provider.Model)
	}
	if !reflect.DeepEqual(cfg.Agent.Tools, []string{"get_weather"}) {
		t.Errorf("unexpected tools %v", cfg.Agent.Tools)
	}

	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing profile")
	}
}
