// Package llm provides the interface and shared types for language model
// client implementations. The rest of the system treats a client as an
// opaque service with a single Query operation.
package llm

import (
	"context"
	"fmt"
)

// Usage carries the token counters a provider reports for one query.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the normalized form of a provider reply.
type Response struct {
	Result     string // Main response text
	StopReason string // Why the response stopped: "end_turn", "max_tokens", etc.
	Usage      *Usage // Token counters when the provider reports them
}

// String returns the response's text form, used when a caller treats the
// response opaquely.
func (r Response) String() string {
	return r.Result
}

// Client is the opaque LLM service contract. A client is scoped to one
// agent and holds that agent's conversation state; agents never share a
// client.
type Client interface {
	// Query sends one prompt and returns the normalized response.
	Query(ctx context.Context, prompt string) (Response, error)

	// ModelName returns the model identifier this client targets.
	ModelName() string
}

// Config is the per-agent option set a client is constructed with.
type Config struct {
	APIKey       string
	Model        string
	SystemPrompt string
	AllowedTools []string
	MaxTokens    int
	Temperature  float32
	// Extra options merged into the provider request, provider-specific
	// keys are ignored by providers that do not understand them.
	Options map[string]any
}

// Default request limits, applied when the config leaves them zero.
const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.3
)

// Validate checks the client configuration.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must be non-negative")
	}
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	return nil
}

// WithDefaults returns a copy with zero limits filled in.
func (c Config) WithDefaults() Config {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}
