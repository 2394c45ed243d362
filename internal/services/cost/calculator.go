package cost

import (
	"strings"

	"github.com/thomas-vilte/matechangelog/internal/models"
)

type PricingTable struct {
	InputPricePerMillion  float64
	OutputPricePerMillion float64
}

// https://ai.google.dev/gemini-api/docs/pricing
var geminiPricing = map[string]PricingTable{
	"gemini-2.5-flash-lite": {InputPricePerMillion: 0.10, OutputPricePerMillion: 0.40},
	"gemini-2.5-flash":      {InputPricePerMillion: 0.30, OutputPricePerMillion: 2.50},
	"gemini-2.5-pro":        {InputPricePerMillion: 1.25, OutputPricePerMillion: 10.00},
}

// Calculator estimates what a classification cost from its token usage.
type Calculator struct {
	pricing map[string]PricingTable
}

func NewCalculator() *Calculator {
	p := make(map[string]PricingTable, len(geminiPricing))
	for model, table := range geminiPricing {
		p[model] = table
	}
	return &Calculator{pricing: p}
}

// EstimateCost returns the cost in USD of usage, or 0 when usage is nil or
// the model has no known price.
func (c *Calculator) EstimateCost(usage *models.TokenUsage) float64 {
	if usage == nil {
		return 0
	}
	table, ok := c.GetPricing(usage.Model)
	if !ok {
		return 0
	}

	inputCost := (float64(usage.InputTokens) / 1_000_000) * table.InputPricePerMillion
	outputCost := (float64(usage.OutputTokens) / 1_000_000) * table.OutputPricePerMillion
	return inputCost + outputCost
}

// GetPricing looks model up exactly, then by the longest known prefix so
// versioned names like "gemini-2.5-flash-001" still resolve.
func (c *Calculator) GetPricing(model string) (PricingTable, bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if table, ok := c.pricing[model]; ok {
		return table, true
	}

	best := ""
	for name := range c.pricing {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return PricingTable{}, false
	}
	return c.pricing[best], true
}

// AddPricing registers or overrides the price of a model.
func (c *Calculator) AddPricing(model string, table PricingTable) {
	c.pricing[strings.ToLower(model)] = table
}
