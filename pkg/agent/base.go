package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hypeproof/pkg/agent/llm"
	"hypeproof/pkg/config"
	"hypeproof/pkg/logx"
	"hypeproof/pkg/utils"
)

// Agent is the capability every concrete agent implements: an identity and
// a single task-execution operation that always yields a Result.
type Agent interface {
	Name() string
	Execute(ctx context.Context, task string, taskContext map[string]any) Result
}

// TaskExecutor is the variant-specific task logic a concrete agent
// supplies: build a prompt from task and context, send it through the
// client's single Query operation, parse the reply into a structured
// payload.
type TaskExecutor interface {
	ExecuteTask(ctx context.Context, task string, taskContext map[string]any) (any, error)
}

// MetricsRecorder receives one observation per Execute call. Implemented
// by pkg/metrics; nil disables recording.
type MetricsRecorder interface {
	ObserveExecution(agent, model, status string, inputTokens, outputTokens int, cost float64, duration time.Duration)
}

// BaseAgent carries the identity and execution framework shared by all
// agents. Concrete agents embed it and register themselves as the
// TaskExecutor.
type BaseAgent struct {
	name         string
	systemPrompt string
	tools        []string
	model        string
	maxRetries   int
	client       llm.Client
	logger       *logx.Logger
	metrics      MetricsRecorder
	exec         TaskExecutor
}

// Option configures a BaseAgent at construction.
type Option func(*BaseAgent)

// WithClient supplies an explicit client, bypassing the provider factory
// and its retry wrapping; callers wanting retries around an injected
// client chain llm.RetryMiddleware themselves.
func WithClient(client llm.Client) Option {
	return func(a *BaseAgent) { a.client = client }
}

// WithModel overrides the default model identifier.
func WithModel(model string) Option {
	return func(a *BaseAgent) { a.model = model }
}

// WithMaxRetries overrides the retry budget applied to the provisioned
// client. Zero disables retries.
func WithMaxRetries(maxRetries int) Option {
	return func(a *BaseAgent) { a.maxRetries = maxRetries }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(a *BaseAgent) { a.metrics = recorder }
}

// WithLogger overrides the default logger.
func WithLogger(logger *logx.Logger) Option {
	return func(a *BaseAgent) { a.logger = logger }
}

// NewBaseAgent constructs the shared agent core. A client is provisioned
// from the provider factory unless one is injected; the client is owned
// exclusively by this agent, so conversation state is never shared across
// agents.
func NewBaseAgent(name, systemPrompt string, tools []string, opts ...Option) (*BaseAgent, error) {
	a := &BaseAgent{
		name:         name,
		systemPrompt: systemPrompt,
		tools:        tools,
		model:        DefaultModel,
		maxRetries:   config.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logx.NewLogger(name)
	}

	if a.client == nil {
		client, err := NewRetryingClientForModel(llm.Config{
			Model:        a.model,
			SystemPrompt: systemPrompt,
			AllowedTools: tools,
		}, a.maxRetries)
		if err != nil {
			return nil, fmt.Errorf("provisioning client for agent %s: %w", name, err)
		}
		a.client = client
	}

	a.logger.Event(logx.LevelInfo, "agent_initialized", logx.Fields{
		"agent": name,
		"tools": fmt.Sprintf("%v", tools),
		"model": a.model,
	})

	return a, nil
}

// Name returns the agent identity.
func (a *BaseAgent) Name() string { return a.name }

// SystemPrompt returns the fixed instruction preamble.
func (a *BaseAgent) SystemPrompt() string { return a.systemPrompt }

// Tools returns the declared capability tags.
func (a *BaseAgent) Tools() []string { return a.tools }

// Model returns the model identifier.
func (a *BaseAgent) Model() string { return a.model }

// MaxRetries returns the retry budget applied to the provisioned client.
func (a *BaseAgent) MaxRetries() int { return a.maxRetries }

// Client returns the agent's exclusively-owned LLM client.
func (a *BaseAgent) Client() llm.Client { return a.client }

// SetTaskExecutor wires the concrete agent's task logic into the
// execution framework. Called once by the embedding type's constructor.
func (a *BaseAgent) SetTaskExecutor(exec TaskExecutor) { a.exec = exec }

// Execute runs one task through the execution framework: timing,
// structured logging, fault recovery. It returns exactly one Result per
// call and never panics outward; any fault raised by the task logic is
// converted to data by the error classifier.
func (a *BaseAgent) Execute(ctx context.Context, task string, taskContext map[string]any) (result Result) {
	start := time.Now()
	executionID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			elapsed := time.Since(start)
			result = HandleException(a.logger, a.name, task,
				&ExecutionError{Agent: a.name, Err: fmt.Errorf("panic: %v", r)}, elapsed)
		}
		a.observe(result)
	}()

	a.logger.Event(logx.LevelInfo, "agent_execution_started", logx.Fields{
		"agent":        a.name,
		"execution_id": executionID,
		"task":         TruncateTask(task),
	})

	if a.exec == nil {
		elapsed := time.Since(start)
		return HandleException(a.logger, a.name, task,
			&ExecutionError{Agent: a.name, Err: fmt.Errorf("no task executor configured")}, elapsed)
	}

	output, err := a.exec.ExecuteTask(ctx, task, taskContext)
	elapsed := time.Since(start)

	if err != nil {
		return HandleException(a.logger, a.name, task, err, elapsed)
	}

	a.logger.Event(logx.LevelInfo, "agent_execution_completed", logx.Fields{
		"agent":          a.name,
		"execution_id":   executionID,
		"status":         string(StatusSuccess),
		"execution_time": elapsed.Seconds(),
	})

	result = Result{
		Status:        StatusSuccess,
		Output:        output,
		ExecutionTime: elapsed,
	}
	// Lift usage out of structured payloads so every Result reports it
	// uniformly.
	if m, ok := output.(map[string]any); ok {
		if usage, ok := m["token_usage"].(*TokenUsage); ok {
			result.TokenUsage = usage
		}
	}
	return result
}

func (a *BaseAgent) observe(result Result) {
	if a.metrics == nil {
		return
	}
	inputTokens, outputTokens, cost := 0, 0, 0.0
	if result.TokenUsage != nil {
		inputTokens = result.TokenUsage.InputTokens
		outputTokens = result.TokenUsage.OutputTokens
		cost = result.TokenUsage.CostEstimate
	}
	a.metrics.ObserveExecution(a.name, a.model, string(result.Status), inputTokens, outputTokens, cost, result.ExecutionTime)
}

// ParsedResponse is the normalized form of an opaque client response.
type ParsedResponse struct {
	Output     string
	TokenUsage *TokenUsage
}

// ParseResponse normalizes a client response: the Result field when
// present, otherwise the response's string form; usage counters are
// lifted into a TokenUsage with a cost estimate for the agent's model.
// Providers that report no counters get an output-side tokenizer
// estimate instead, so every parsed response carries usage.
func (a *BaseAgent) ParseResponse(resp llm.Response) ParsedResponse {
	output := resp.Result
	if output == "" {
		output = resp.String()
	}

	parsed := ParsedResponse{Output: output}
	inputTokens, outputTokens := 0, 0
	var usage TokenUsage
	var err error
	if resp.Usage != nil {
		inputTokens, outputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		usage, err = NewTokenUsageWithTotal(inputTokens, outputTokens, resp.Usage.TotalTokens)
	} else {
		outputTokens = utils.CountTokensSimple(output)
		usage, err = NewTokenUsage(inputTokens, outputTokens)
	}
	if err == nil {
		if withCost, costErr := usage.WithCost(utils.EstimateCost(a.model, inputTokens, outputTokens)); costErr == nil {
			usage = withCost
		}
		parsed.TokenUsage = &usage
	}
	return parsed
}
