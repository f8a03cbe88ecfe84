// Package openai provides the OpenAI implementation of the llm.Client
// interface using the official OpenAI Go package.
package openai

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llmerrors"
)

// Client wraps the official OpenAI client. Conversation history is owned
// by the client, one client per agent.
type Client struct {
	client openai.Client
	cfg    llm.Config

	mu      sync.Mutex
	history []openai.ChatCompletionMessageParamUnion
}

// New creates an OpenAI client for the given per-agent configuration.
func New(cfg llm.Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}, nil
}

// Query implements llm.Client.
func (c *Client) Query(ctx context.Context, prompt string) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(c.history)+2)
	if c.cfg.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(c.cfg.SystemPrompt))
	}
	messages = append(messages, c.history...)
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.cfg.Model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(c.cfg.MaxTokens)),
		Temperature:         openai.Float(float64(c.cfg.Temperature)),
	})
	if err != nil {
		return llm.Response{}, llmerrors.Classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return llm.Response{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from OpenAI API")
	}

	choice := resp.Choices[0]
	c.history = append(c.history,
		openai.UserMessage(prompt),
		openai.AssistantMessage(choice.Message.Content),
	)

	usage := &llm.Usage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
	}

	return llm.Response{
		Result:     choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Usage:      usage,
	}, nil
}

// ModelName implements llm.Client.
func (c *Client) ModelName() string {
	return c.cfg.Model
}
