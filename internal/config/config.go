package config

import (
	"time"

	"github.com/leofalp/toolagent/patterns/react"
	"github.com/leofalp/toolagent/providers/ai/deepseek"
	"github.com/leofalp/toolagent/providers/tool/calculator"
	"github.com/leofalp/toolagent/providers/tool/weather"
)

// Config is the agent profile: which endpoint to talk to, how the agent
// behaves and how it reports.
type Config struct {
	Provider      ProviderConfig      `yaml:"provider"`
	Agent         AgentConfig         `yaml:"agent"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key. The key
	// itself never lives in the profile.
	APIKeyEnv  string        `yaml:"api_key_env"`
	Model      string        `yaml:"model"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

type AgentConfig struct {
	Preamble          string   `yaml:"preamble"`
	MaxToolIterations int      `yaml:"max_tool_iterations"`
	ToolConcurrency   int      `yaml:"tool_concurrency"`
	Tools             []string `yaml:"tools"`
	Temperature       float32  `yaml:"temperature"`
	MaxTokens         int      `yaml:"max_tokens"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Backend selects the observability implementation.
type Backend string

const (
	BackendNone Backend = "none"
	BackendSlog Backend = "slog"
	BackendOtel Backend = "otel"
)

// IsValid reports whether b is a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendNone, BackendSlog, BackendOtel:
		return true
	}
	return false
}

type ObservabilityConfig struct {
	Backend     Backend `yaml:"backend"`
	ServiceName string  `yaml:"service_name"`
}

const (
	DefaultAPIKeyEnv   = "DEEPSEEK_API_KEY"
	DefaultServiceName = "toolagent"
	DefaultPreamble    = "You are a helpful assistant."
)

// KnownTools lists the tool names a profile may enable.
var KnownTools = []string{calculator.Name, weather.Name}

// Default returns the profile used when no file is given.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:   deepseek.DefaultBaseURL,
			APIKeyEnv: DefaultAPIKeyEnv,
			Model:     deepseek.ModelChat,
			Timeout:   60 * time.Second,
		},
		Agent: AgentConfig{
			Preamble:          DefaultPreamble,
			MaxToolIterations: react.DefaultMaxToolIterations,
			Tools:             append([]string(nil), KnownTools...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			Backend:     BackendSlog,
			ServiceName: DefaultServiceName,
		},
	}
}
