// Package ollama provides the Ollama implementation of the llm.Client
// interface, for locally hosted open-source models.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/agent/llmerrors"
)

// DefaultHost is the standard Ollama server address.
const DefaultHost = "http://localhost:11434"

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
	cfg    llm.Config

	mu      sync.Mutex
	history []api.Message
}

// New creates an Ollama client. The host URL is taken from the config
// Options key "host", falling back to DefaultHost.
func New(cfg llm.Config) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	host := DefaultHost
	if h, ok := cfg.Options["host"].(string); ok && h != "" {
		host = h
	}
	parsedURL, err := url.Parse(host)
	if err != nil {
		parsedURL, _ = url.Parse(DefaultHost)
	}

	return &Client{
		client: api.NewClient(parsedURL, http.DefaultClient),
		cfg:    cfg,
	}, nil
}

// Query implements llm.Client.
func (c *Client) Query(ctx context.Context, prompt string) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]api.Message, 0, len(c.history)+2)
	if c.cfg.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: c.cfg.SystemPrompt})
	}
	messages = append(messages, c.history...)
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": c.cfg.MaxTokens,
		},
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return llm.Response{}, llmerrors.Classify(err)
	}
	if response.Message.Content == "" {
		return llm.Response{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from Ollama")
	}

	c.history = append(c.history,
		api.Message{Role: "user", Content: prompt},
		api.Message{Role: "assistant", Content: response.Message.Content},
	)

	usage := &llm.Usage{
		InputTokens:  response.Metrics.PromptEvalCount,
		OutputTokens: response.Metrics.EvalCount,
		TotalTokens:  response.Metrics.PromptEvalCount + response.Metrics.EvalCount,
	}

	return llm.Response{
		Result:     response.Message.Content,
		StopReason: response.DoneReason,
		Usage:      usage,
	}, nil
}

// ModelName implements llm.Client.
func (c *Client) ModelName() string {
	return c.cfg.Model
}
