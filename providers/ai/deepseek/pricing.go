package deepseek

import (
	"github.com/leofalp/toolagent/core/cost"
)

// ModelPricing holds list prices in USD per million tokens.
// Source: https://api-docs.deepseek.com/quick_start/pricing (September 2025)
//
// Both models share one price. Cache hits are billed at the cached rate and
// reasoning tokens count as output.
var ModelPricing = map[string]cost.ModelCost{
	ModelChat: {
		InputCostPerMillion:       0.28,
		OutputCostPerMillion:      0.42,
		CachedInputCostPerMillion: 0.028,
	},
	ModelReasoner: {
		InputCostPerMillion:       0.28,
		OutputCostPerMillion:      0.42,
		CachedInputCostPerMillion: 0.028,
	},
}

// GetModelCost returns the pricing of model. An empty name means ModelChat;
// unknown models report false.
func GetModelCost(model string) (cost.ModelCost, bool) {
	if model == "" {
		model = ModelChat
	}
	mc, ok := ModelPricing[model]
	return mc, ok
}
