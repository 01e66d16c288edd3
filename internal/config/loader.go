package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/toolagent/providers/observability/slogobs"
)

// Environment variables that override profile values.
const (
	EnvBaseURL           = "DEEPSEEK_BASE_URL"
	EnvModel             = "DEEPSEEK_MODEL"
	EnvMaxToolIterations = "TOOLAGENT_MAX_TOOL_ITERATIONS"
	EnvBackend           = "TOOLAGENT_OBSERVABILITY"
)

// LoadDotEnv loads variables from the given .env files, or ".env" when none
// are given, without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %q: %w", path, err)
		}
	}
	return nil
}

// Load builds the effective configuration: defaults, then the YAML profile
// at path (if path is not empty), then environment overrides. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		defer f.Close()

		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML profile from r over the defaults and
// validates the result. Environment variables are not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with the variables found through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.Provider.BaseURL = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		cfg.Provider.Model = v
	}
	if v, ok := lookup(slogobs.EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(slogobs.EnvLogFormat); ok && v != "" {
		cfg.Log.Format = v
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		cfg.Observability.Backend = Backend(strings.ToLower(v))
	}
	if v, ok := lookup(EnvMaxToolIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxToolIterations, err)
		}
		cfg.Agent.MaxToolIterations = n
	}
	return nil
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Provider.BaseURL == "" {
		errs = append(errs, errors.New("provider.base_url is required"))
	}
	if cfg.Provider.APIKeyEnv == "" {
		errs = append(errs, errors.New("provider.api_key_env is required"))
	}
	if cfg.Provider.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("provider.max_retries %d must not be negative", cfg.Provider.MaxRetries))
	}
	if cfg.Provider.Timeout < 0 {
		errs = append(errs, fmt.Errorf("provider.timeout %s must not be negative", cfg.Provider.Timeout))
	}

	if cfg.Agent.MaxToolIterations < 1 {
		errs = append(errs, fmt.Errorf("agent.max_tool_iterations %d must be at least 1", cfg.Agent.MaxToolIterations))
	}
	if cfg.Agent.ToolConcurrency < 0 {
		errs = append(errs, fmt.Errorf("agent.tool_concurrency %d must not be negative", cfg.Agent.ToolConcurrency))
	}
	seen := make(map[string]int, len(cfg.Agent.Tools))
	for i, name := range cfg.Agent.Tools {
		prefix := fmt.Sprintf("agent.tools[%d]", i)
		if !slices.Contains(KnownTools, name) {
			errs = append(errs, fmt.Errorf("%s %q is unknown; valid values: %s", prefix, name, strings.Join(KnownTools, ", ")))
		}
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("%s %q is a duplicate of agent.tools[%d]", prefix, name, prev))
		}
		seen[name] = i
	}

	if f := strings.ToLower(cfg.Log.Format); f != "" && f != string(slogobs.FormatText) && f != string(slogobs.FormatJSON) {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", cfg.Log.Format))
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}

	if !cfg.Observability.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("observability.backend %q is invalid; valid values: none, slog, otel", cfg.Observability.Backend))
	}

	return errors.Join(errs...)
}

// APIKey returns the API key from the variable named by Provider.APIKeyEnv.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}
