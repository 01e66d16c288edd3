package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/toolagent/internal/config"
	"github.com/leofalp/toolagent/patterns/react"
	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/ai/deepseek"
	"github.com/leofalp/toolagent/providers/ai/middleware"
	"github.com/leofalp/toolagent/providers/observability"
	"github.com/leofalp/toolagent/providers/observability/otelobs"
	"github.com/leofalp/toolagent/providers/observability/slogobs"
	"github.com/leofalp/toolagent/providers/tool"
	"github.com/leofalp/toolagent/providers/tool/calculator"
	"github.com/leofalp/toolagent/providers/tool/weather"
)

// loadConfig reads .env files, the profile and the environment, then applies
// command-line overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.model != "" {
		cfg.Provider.Model = opts.model
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if opts.backend != "" {
		cfg.Observability.Backend = config.Backend(strings.ToLower(opts.backend))
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newObserver builds the configured backend. The returned shutdown function
// is never nil.
func newObserver(ctx context.Context, cfg *config.Config) (observability.Provider, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	logger := slogobs.New(
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)),
		slogobs.WithLevel(slogobs.ParseLevel(cfg.Log.Level)),
	)

	switch cfg.Observability.Backend {
	case config.BackendNone:
		return nil, noop, nil
	case config.BackendOtel:
		observer, shutdown, err := otelobs.Setup(ctx, otelobs.Config{
			ServiceName: cfg.Observability.ServiceName,
			Prometheus:  true,
		}, otelobs.WithLogger(logger.Logger()))
		if err != nil {
			return nil, noop, fmt.Errorf("setup opentelemetry: %w", err)
		}
		return observer, shutdown, nil
	default:
		return logger, noop, nil
	}
}

// serveMetrics exposes the Prometheus registry on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, observer observability.Provider) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && observer != nil {
			observer.Error(ctx, "metrics server stopped", observability.Error(err))
		}
	}()
}

// newProvider builds the DeepSeek client behind a per-call timeout and, when
// an observer is configured, request logging.
func newProvider(cfg *config.Config, observer observability.Provider) (*middleware.Provider, error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s or add it to a .env file", deepseek.ErrMissingAPIKey, cfg.Provider.APIKeyEnv)
	}
	base, err := deepseek.NewDeepSeekProvider(deepseek.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.Provider.BaseURL,
		Model:      cfg.Provider.Model,
		MaxRetries: cfg.Provider.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	chain := []middleware.Config{middleware.NewTimeout(cfg.Provider.Timeout)}
	if observer != nil {
		detail := middleware.DetailStandard
		if strings.EqualFold(cfg.Log.Level, "debug") {
			detail = middleware.DetailVerbose
		}
		chain = append(chain, middleware.NewLogging(observer, detail))
	}
	return middleware.Wrap(base, chain...)
}

// buildTools instantiates the named tools in order.
func buildTools(names []string) ([]tool.GenericTool, error) {
	tools := make([]tool.GenericTool, 0, len(names))
	for _, name := range names {
		switch name {
		case calculator.Name:
			tools = append(tools, calculator.NewCalculatorTool())
		case weather.Name:
			tools = append(tools, weather.NewWeatherTool())
		default:
			return nil, fmt.Errorf("%w: %s", tool.ErrUnknownTool, name)
		}
	}
	return tools, nil
}

type agentOverrides struct {
	preamble      string
	noTools       bool
	maxIterations int
}

func newAgent(provider ai.Provider, cfg *config.Config, observer observability.Provider, o agentOverrides) (*react.Agent, error) {
	agentCfg := react.Config{
		Preamble:          cfg.Agent.Preamble,
		MaxToolIterations: cfg.Agent.MaxToolIterations,
		ToolConcurrency:   cfg.Agent.ToolConcurrency,
	}
	if mc, ok := deepseek.GetModelCost(cfg.Provider.Model); ok {
		agentCfg.ModelCost = &mc
	}
	if cfg.Agent.Temperature != 0 || cfg.Agent.MaxTokens != 0 {
		agentCfg.GenerationConfig = &ai.GenerationConfig{
			Temperature: cfg.Agent.Temperature,
			MaxTokens:   cfg.Agent.MaxTokens,
		}
	}
	if o.preamble != "" {
		agentCfg.Preamble = o.preamble
	}
	if o.maxIterations > 0 {
		agentCfg.MaxToolIterations = o.maxIterations
	}
	if !o.noTools {
		tools, err := buildTools(cfg.Agent.Tools)
		if err != nil {
			return nil, err
		}
		agentCfg.Tools = tools
	}

	var opts []react.Option
	if observer != nil {
		opts = append(opts, react.WithObserver(observer))
	}
	return react.New(provider, agentCfg, opts...)
}

// session bundles what every model-backed command needs.
type session struct {
	cfg      *config.Config
	observer observability.Provider
	provider *middleware.Provider
	shutdown func(context.Context) error
}

func openSession(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	observer, shutdown, err := newObserver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	provider, err := newProvider(cfg, observer)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	return &session{cfg: cfg, observer: observer, provider: provider, shutdown: shutdown}, nil
}

func (s *session) close() {
	_ = s.shutdown(context.Background())
}
