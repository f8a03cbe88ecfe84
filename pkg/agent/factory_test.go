package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llm/ollama"
)

func TestNewClientForModelRejectsUnknownProvider(t *testing.T) {
	_, err := NewClientForModel(llm.Config{Model: "mystery-9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provider")
}

func TestNewRetryingClientForModel(t *testing.T) {
	bare, err := NewRetryingClientForModel(llm.Config{Model: "ollama:llama3"}, 0)
	require.NoError(t, err)
	_, isProvider := bare.(*ollama.Client)
	assert.True(t, isProvider, "a zero budget returns the provider client unwrapped")

	wrapped, err := NewRetryingClientForModel(llm.Config{Model: "ollama:llama3"}, 3)
	require.NoError(t, err)
	_, isProvider = wrapped.(*ollama.Client)
	assert.False(t, isProvider, "a positive budget wraps the client in the retry middleware")
	assert.Equal(t, "llama3", wrapped.ModelName())
}
