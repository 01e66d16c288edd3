package react

import (
	"errors"
	"fmt"

	"github.com/leofalp/toolagent/core/cost"
	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/memory"
	"github.com/leofalp/toolagent/providers/memory/inmemory"
	"github.com/leofalp/toolagent/providers/observability"
	"github.com/leofalp/toolagent/providers/tool"
)

// DefaultMaxToolIterations applies when Config.MaxToolIterations is zero.
const DefaultMaxToolIterations = 5

var (
	// ErrMaxIterationsExceeded is returned when the model still requests
	// tools after MaxToolIterations rounds of tool execution.
	ErrMaxIterationsExceeded = errors.New("react: max tool iterations exceeded")

	// ErrInvalidConfig is returned by New for unusable configuration.
	ErrInvalidConfig = errors.New("react: invalid config")
)

// Config is fixed when the agent is created.
type Config struct {
	// Preamble is sent as the system turn of every conversation. Empty means
	// no system turn.
	Preamble string

	// Tools available to the model, advertised in this order.
	Tools []tool.GenericTool

	// MaxToolIterations bounds the rounds of tool execution per prompt, and
	// with it the number of model requests. Zero means
	// DefaultMaxToolIterations.
	MaxToolIterations int

	// Model is passed through to the provider; empty uses its default.
	Model string

	// ToolConcurrency caps parallel tool calls within one turn; zero runs
	// every call of the turn at once.
	ToolConcurrency int

	GenerationConfig *ai.GenerationConfig

	// ModelCost prices the usage recorded by Execute. Nil leaves the
	// overview unpriced.
	ModelCost *cost.ModelCost
}

func (c Config) validate() error {
	var errs []error
	if c.MaxToolIterations < 0 {
		errs = append(errs, errors.New("max tool iterations must not be negative"))
	}
	if c.ToolConcurrency < 0 {
		errs = append(errs, errors.New("tool concurrency must not be negative"))
	}
	for i, t := range c.Tools {
		if t == nil {
			errs = append(errs, fmt.Errorf("tool %d is nil", i))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Option customizes an Agent.
type Option func(*Agent)

// WithObserver reports spans, metrics and logs to observer. Without it the
// agent uses the observer found in the prompt's context, if any.
func WithObserver(observer observability.Provider) Option {
	return func(a *Agent) {
		a.observer = observer
	}
}

// WithMemory sets the factory for per-prompt conversation stores. Each
// prompt gets a store of its own.
func WithMemory(factory func() memory.Provider) Option {
	return func(a *Agent) {
		a.newMemory = factory
	}
}

func defaultMemory() memory.Provider {
	return inmemory.New()
}
