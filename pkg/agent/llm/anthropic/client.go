// Package anthropic provides the Anthropic Claude implementation of the
// llm.Client interface.
package anthropic

import (
	"context"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llmerrors"
)

// Client wraps the Anthropic API client. Each Client owns its own
// conversation history; agents never share one.
type Client struct {
	client anthropic.Client
	cfg    llm.Config

	mu      sync.Mutex
	history []anthropic.MessageParam
}

// New creates a Claude client for the given per-agent configuration.
func New(cfg llm.Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}, nil
}

// Query implements llm.Client. The prompt is appended to the running
// conversation; the assistant reply is retained for the next turn.
func (c *Client) Query(ctx context.Context, prompt string) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := append(append([]anthropic.MessageParam{}, c.history...),
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Messages:    messages,
		Temperature: anthropic.Float(float64(c.cfg.Temperature)),
	}
	if c.cfg.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.cfg.SystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return llm.Response{}, llmerrors.Classify(err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return llm.Response{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from Claude API")
	}

	var responseText string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			responseText += block.AsText().Text
		}
	}
	if responseText == "" {
		return llm.Response{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "no text content in Claude response")
	}

	c.history = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(responseText)))

	usage := &llm.Usage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}

	return llm.Response{
		Result:     responseText,
		StopReason: string(resp.StopReason),
		Usage:      usage,
	}, nil
}

// ModelName implements llm.Client.
func (c *Client) ModelName() string {
	return c.cfg.Model
}
