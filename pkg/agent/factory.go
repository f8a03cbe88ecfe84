package agent

import (
	"fmt"
	"strings"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llm/anthropic"
	"hypeproof/pkg/agent/llm/google"
	"hypeproof/pkg/agent/llm/ollama"
	"hypeproof/pkg/agent/llm/openai"
	"hypeproof/pkg/config"
)

// DefaultModel is the model agents use when their config names none.
const DefaultModel = "claude-sonnet-4-20250514"

// Secret names for provider credentials, resolved through the config
// secrets store with env fallback.
const (
	anthropicKeyName = "ANTHROPIC_API_KEY"
	openaiKeyName    = "OPENAI_API_KEY"
	geminiKeyName    = "GEMINI_API_KEY"
)

// NewClientForModel provisions a provider client for the given config,
// selecting the provider from the model name. Ollama models carry an
// "ollama:" prefix and need no credential.
func NewClientForModel(cfg llm.Config) (llm.Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	model := cfg.Model

	switch {
	case strings.HasPrefix(model, "ollama:"):
		cfg.Model = strings.TrimPrefix(model, "ollama:")
		return ollama.New(cfg)

	case strings.HasPrefix(model, "claude"):
		key, err := config.GetSecret(anthropicKeyName)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		cfg.APIKey = key
		return anthropic.New(cfg)

	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		key, err := config.GetSecret(openaiKeyName)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		cfg.APIKey = key
		return openai.New(cfg)

	case strings.HasPrefix(model, "gemini"):
		key, err := config.GetSecret(geminiKeyName)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		cfg.APIKey = key
		return google.New(cfg)

	default:
		return nil, fmt.Errorf("no provider for model %q", model)
	}
}

// NewRetryingClientForModel provisions a provider client wrapped with the
// bounded-retry middleware.
func NewRetryingClientForModel(cfg llm.Config, maxRetries int) (llm.Client, error) {
	base, err := NewClientForModel(cfg)
	if err != nil {
		return nil, err
	}
	if maxRetries <= 0 {
		return base, nil
	}
	return llm.Chain(base, llm.RetryMiddleware(maxRetries, IsRetriable)), nil
}
