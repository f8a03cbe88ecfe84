// Package google provides the Google Gemini implementation of the
// llm.Client interface.
package google

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llmerrors"
)

// Client wraps the Google GenAI client. The underlying client is created
// lazily because genai requires a context at construction time.
type Client struct {
	cfg llm.Config

	mu      sync.Mutex
	client  *genai.Client
	history []*genai.Content
}

// New creates a Gemini client for the given per-agent configuration.
func New(cfg llm.Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// Query implements llm.Client.
func (c *Client) Query(ctx context.Context, prompt string) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return llm.Response{}, llmerrors.NewErrorWithCause(llmerrors.ErrorTypeConnection, err, fmt.Sprintf("failed to create Gemini client: %v", err))
		}
		c.client = client
	}

	contents := append(append([]*genai.Content{}, c.history...),
		genai.NewContentFromText(prompt, genai.RoleUser))

	temperature := c.cfg.Temperature
	//nolint:gosec // MaxTokens validated in Config, overflow not a concern
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(c.cfg.MaxTokens),
	}
	if c.cfg.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.cfg.SystemPrompt}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return llm.Response{}, llmerrors.Classify(err)
	}
	if result == nil || result.Text() == "" {
		return llm.Response{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from Gemini API")
	}

	c.history = contents
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		c.history = append(c.history, result.Candidates[0].Content)
	}

	var usage *llm.Usage
	if result.UsageMetadata != nil {
		usage = &llm.Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	stopReason := ""
	if len(result.Candidates) > 0 {
		stopReason = string(result.Candidates[0].FinishReason)
	}

	return llm.Response{
		Result:     result.Text(),
		StopReason: stopReason,
		Usage:      usage,
	}, nil
}

// ModelName implements llm.Client.
func (c *Client) ModelName() string {
	return c.cfg.Model
}
