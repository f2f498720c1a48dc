package llm

// ModelCost is the list price of a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call or a sum of calls.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost prices the models the provider aliases resolve to. The
// aliases themselves are accepted too. Other models return nil and are
// shown without a cost.
func LookupCost(model string) *ModelCost {
	for _, aliases := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		model = resolveModel(model, aliases)
	}
	if c, ok := taggingModelCosts[model]; ok {
		return &c
	}
	return nil
}

// taggingModelCosts lists published prices as of 2026-02.
var taggingModelCosts = map[string]ModelCost{
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5-20250929": {3, 15},
	"gpt-4o-mini":                {0.15, 0.6},
	"gpt-4.1-nano":               {0.1, 0.4},
	"gemini-2.5-flash":           {0.3, 2.5},
	"gemini-2.5-flash-lite":      {0.1, 0.4},
}
