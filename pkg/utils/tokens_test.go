package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	counter, err := NewTokenCounter("gpt-4")
	require.NoError(t, err)

	count := counter.CountTokens("Hello, world!")
	assert.Greater(t, count, 0)
	assert.Less(t, count, 10)
}

func TestCountTokensEmptyString(t *testing.T) {
	counter, err := NewTokenCounter("gpt-4")
	require.NoError(t, err)
	assert.Equal(t, 0, counter.CountTokens(""))
}

func TestCountTokensFallback(t *testing.T) {
	counter := &TokenCounter{} // nil codec forces the character fallback
	text := strings.Repeat("word ", 20)
	assert.Equal(t, len(text)/4, counter.CountTokens(text))
}

func TestCountTokensSimple(t *testing.T) {
	assert.Greater(t, CountTokensSimple("The quick brown fox jumps over the lazy dog"), 5)
}

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost("claude-sonnet-4-20250514", 1_000_000, 1_000_000)
	assert.InDelta(t, 18.0, cost, 0.001)

	cost = EstimateCost("gpt-4o-mini", 2_000_000, 0)
	assert.InDelta(t, 0.30, cost, 0.001)
}

func TestEstimateCostLocalAndUnknownModelsAreFree(t *testing.T) {
	assert.Equal(t, 0.0, EstimateCost("ollama:llama3", 10_000, 10_000))
	assert.Equal(t, 0.0, EstimateCost("mystery-model", 10_000, 10_000))
}
