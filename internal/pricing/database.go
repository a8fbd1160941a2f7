package pricing

import (
	"fmt"
	"time"
)

// Database represents pricing information for LLM models
type Database struct {
	LastUpdated time.Time
	Models      map[string]*ModelPricing
}

// ModelPricing represents pricing for a specific model
type ModelPricing struct {
	Provider         string
	Model            string
	InputPerMillion  float64 // Cost per 1M input tokens
	OutputPerMillion float64 // Cost per 1M output tokens
}

// GetDatabase returns the embedded pricing database
func GetDatabase() *Database {
	// Last updated: 2026-07-30
	return &Database{
		LastUpdated: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		Models: map[string]*ModelPricing{
			"gpt-4o": {
				Provider:         "openai",
				Model:            "gpt-4o",
				InputPerMillion:  2.50,
				OutputPerMillion: 10.00,
			},
			"gpt-4o-mini": {
				Provider:         "openai",
				Model:            "gpt-4o-mini",
				InputPerMillion:  0.15,
				OutputPerMillion: 0.60,
			},
			"gpt-4-turbo": {
				Provider:         "openai",
				Model:            "gpt-4-turbo",
				InputPerMillion:  10.00,
				OutputPerMillion: 30.00,
			},
			"claude-sonnet-4-5-20250924": {
				Provider:         "anthropic",
				Model:            "claude-sonnet-4-5-20250924",
				InputPerMillion:  3.00,
				OutputPerMillion: 15.00,
			},
			"claude-3-5-haiku-20241022": {
				Provider:         "anthropic",
				Model:            "claude-3-5-haiku-20241022",
				InputPerMillion:  0.80,
				OutputPerMillion: 4.00,
			},
		},
	}
}

// GetPricing returns pricing for a specific model, or nil when unknown
// (Ollama models are always unknown: they are free).
func (db *Database) GetPricing(model string) *ModelPricing {
	return db.Models[model]
}

// CalculateCost calculates the cost for a given number of input and output tokens
func (mp *ModelPricing) CalculateCost(inputTokens, outputTokens int) float64 {
	inputCost := float64(inputTokens) / 1_000_000.0 * mp.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * mp.OutputPerMillion
	return inputCost + outputCost
}

// FormatTokenUsage formats token usage information
func FormatTokenUsage(inputTokens, outputTokens int, mp *ModelPricing, lastUpdated time.Time) string {
	result := "Token usage:\n"
	result += fmt.Sprintf("  Input:  %d tokens\n", inputTokens)
	result += fmt.Sprintf("  Output: %d tokens\n", outputTokens)
	result += fmt.Sprintf("  Total:  %d tokens\n", inputTokens+outputTokens)

	if mp != nil {
		cost := mp.CalculateCost(inputTokens, outputTokens)
		result += fmt.Sprintf("  Cost:   $%.4f (estimated, based on %s pricing)", cost, lastUpdated.Format("2006-01-02"))
	} else {
		result += "  Cost:   Free (local model)"
	}

	return result
}
