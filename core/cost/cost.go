package cost

import (
	"fmt"
)

// Currency of every rate and summary in this package.
const Currency = "USD"

// ModelCost represents the per-token pricing of a model.
//
// Example:
//
//	ModelCost{
//	    InputCostPerMillion:       0.28,
//	    OutputCostPerMillion:      0.42,
//	    CachedInputCostPerMillion: 0.028,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost per 1 million uncached input tokens.
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost per 1 million output tokens. Reasoning
	// tokens are billed as output.
	OutputCostPerMillion float64 `json:"output_cost_per_million"`

	// CachedInputCostPerMillion is the discounted cost per 1 million input
	// tokens served from the prompt cache. Zero bills them at the input rate.
	CachedInputCostPerMillion float64 `json:"cached_input_cost_per_million,omitempty"`
}

func perMillion(tokens int, rate float64) float64 {
	return (float64(tokens) / 1_000_000.0) * rate
}

// CalculateInputCost prices promptTokens input tokens of which cachedTokens
// were cache hits. cachedTokens is clamped to promptTokens.
func (mc ModelCost) CalculateInputCost(promptTokens, cachedTokens int) float64 {
	cachedTokens = max(0, min(cachedTokens, promptTokens))
	if mc.CachedInputCostPerMillion <= 0 {
		return perMillion(promptTokens, mc.InputCostPerMillion)
	}
	return perMillion(promptTokens-cachedTokens, mc.InputCostPerMillion) +
		perMillion(cachedTokens, mc.CachedInputCostPerMillion)
}

// CalculateOutputCost calculates the cost for the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return perMillion(tokens, mc.OutputCostPerMillion)
}

// Summarize prices a usage total.
func (mc ModelCost) Summarize(promptTokens, completionTokens, cachedTokens int) Summary {
	input := mc.CalculateInputCost(promptTokens, cachedTokens)
	output := mc.CalculateOutputCost(completionTokens)
	return Summary{
		InputCost:  input,
		OutputCost: output,
		TotalCost:  input + output,
		Currency:   Currency,
	}
}

func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M, Cached: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion, mc.CachedInputCostPerMillion)
}

// Summary is the estimated price of one execution.
type Summary struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
	Currency   string  `json:"currency"`
}

func (s Summary) String() string {
	return fmt.Sprintf("$%.6f %s (input $%.6f, output $%.6f)", s.TotalCost, s.Currency, s.InputCost, s.OutputCost)
}
