package gemini

import (
	"strings"

	"github.com/leofalp/mathagent/core/cost"
	"github.com/leofalp/mathagent/providers/ai"
)

// Model names.
const (
	Model25Pro       = "gemini-2.5-pro"
	Model25Flash     = "gemini-2.5-flash"
	Model25FlashLite = "gemini-2.5-flash-lite"
	Model20Flash     = "gemini-2.0-flash"
	Model20FlashLite = "gemini-2.0-flash-lite"
)

// ModelPricing lists standard-tier prices in USD per million tokens.
// Source: https://ai.google.dev/gemini-api/docs/pricing
var ModelPricing = map[string]cost.ModelCost{
	Model25Pro:       {InputCostPerMillion: 1.25, OutputCostPerMillion: 10.00},
	Model25Flash:     {InputCostPerMillion: 0.30, OutputCostPerMillion: 2.50},
	Model25FlashLite: {InputCostPerMillion: 0.10, OutputCostPerMillion: 0.40},
	Model20Flash:     {InputCostPerMillion: 0.10, OutputCostPerMillion: 0.40},
	Model20FlashLite: {InputCostPerMillion: 0.075, OutputCostPerMillion: 0.30},
}

// GetModelCost returns the pricing of model. Versioned names such as
// "gemini-2.5-flash-001" or "models/gemini-2.5-flash" resolve to their base
// model; unknown models cost zero.
func GetModelCost(model string) cost.ModelCost {
	name := strings.TrimPrefix(model, "models/")
	if pricing, ok := ModelPricing[name]; ok {
		return pricing
	}

	best := ""
	for known := range ModelPricing {
		if strings.HasPrefix(name, known+"-") && len(known) > len(best) {
			best = known
		}
	}
	return ModelPricing[best]
}

// CalculateCost returns the estimated USD price of usage on model.
func CalculateCost(model string, usage *ai.Usage) float64 {
	if usage == nil {
		return 0
	}
	return GetModelCost(model).Cost(usage.PromptTokens, usage.CompletionTokens)
}
