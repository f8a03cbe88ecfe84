// Package utils provides tiktoken-based token counting and cost
// estimation utilities.
package utils

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter provides token counting for different models.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter creates a token counter for the specified model. Claude
// and Gemini tokenization is approximated with the GPT-4 encoding.
func NewTokenCounter(model string) (*TokenCounter, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec for model %s: %w", model, err)
	}
	return &TokenCounter{codec: codec}, nil
}

// CountTokens returns the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(text string) int {
	if tc.codec == nil {
		// Fallback to character-based estimation (4 chars ≈ 1 token)
		return len(text) / 4
	}
	count, err := tc.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

// CountTokensSimple counts tokens without requiring a TokenCounter
// instance. Uses GPT-4 encoding.
func CountTokensSimple(text string) int {
	counter, err := NewTokenCounter("gpt-4")
	if err != nil {
		return len(text) / 4
	}
	return counter.CountTokens(text)
}

// modelPricing holds cost per million tokens, input and output.
type modelPricing struct {
	inPerMillion  float64
	outPerMillion float64
}

// Published list prices, USD per million tokens. Unknown models estimate
// at zero rather than guessing.
//
//nolint:gochecknoglobals
var pricingTable = map[string]modelPricing{
	"claude-sonnet-4-20250514": {inPerMillion: 3.00, outPerMillion: 15.00},
	"claude-3-5-haiku-latest":  {inPerMillion: 0.80, outPerMillion: 4.00},
	"claude-opus-4-20250514":   {inPerMillion: 15.00, outPerMillion: 75.00},
	"gpt-4o":                   {inPerMillion: 2.50, outPerMillion: 10.00},
	"gpt-4o-mini":              {inPerMillion: 0.15, outPerMillion: 0.60},
	"o3":                       {inPerMillion: 2.00, outPerMillion: 8.00},
	"gemini-2.5-pro":           {inPerMillion: 1.25, outPerMillion: 10.00},
	"gemini-2.5-flash":         {inPerMillion: 0.30, outPerMillion: 2.50},
}

// EstimateCost returns the estimated USD cost for a request against the
// given model. Local (ollama-prefixed) and unknown models cost zero.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	if strings.HasPrefix(model, "ollama:") {
		return 0
	}
	pricing, ok := pricingTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*pricing.inPerMillion +
		float64(outputTokens)/1e6*pricing.outPerMillion
}
