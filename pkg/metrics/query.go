package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// AgentUsage represents aggregated token and cost metrics for one agent
// as reported by a Prometheus server.
type AgentUsage struct {
	Agent        string  `json:"agent"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	TotalTokens  int64   `json:"total_tokens"`
	TotalCost    float64 `json:"total_cost_usd"`
}

// QueryService provides methods to query execution metrics from Prometheus.
type QueryService struct {
	client   api.Client
	queryAPI v1.API
}

// NewQueryService creates a new metrics query service.
func NewQueryService(prometheusURL string) (*QueryService, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &QueryService{
		client:   client,
		queryAPI: v1.NewAPI(client),
	}, nil
}

// GetAgentUsage retrieves aggregated token and cost metrics for one agent,
// summed across all models it has used.
func (q *QueryService) GetAgentUsage(ctx context.Context, agent string) (*AgentUsage, error) {
	usage := &AgentUsage{
		Agent: agent,
	}

	inputQuery := fmt.Sprintf(`sum(agent_tokens_total{agent=%q, type="input"})`, agent)
	inputResult, _, err := q.queryAPI.Query(ctx, inputQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query input tokens: %w", err)
	}
	if vector, ok := inputResult.(model.Vector); ok && len(vector) > 0 {
		usage.InputTokens = int64(vector[0].Value)
	}

	outputQuery := fmt.Sprintf(`sum(agent_tokens_total{agent=%q, type="output"})`, agent)
	outputResult, _, err := q.queryAPI.Query(ctx, outputQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query output tokens: %w", err)
	}
	if vector, ok := outputResult.(model.Vector); ok && len(vector) > 0 {
		usage.OutputTokens = int64(vector[0].Value)
	}

	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	costQuery := fmt.Sprintf(`sum(agent_costs_total{agent=%q})`, agent)
	costResult, _, err := q.queryAPI.Query(ctx, costQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query total cost: %w", err)
	}
	if vector, ok := costResult.(model.Vector); ok && len(vector) > 0 {
		usage.TotalCost = float64(vector[0].Value)
	}

	return usage, nil
}

// GetAgentUsageByModel retrieves usage broken down by model for one agent.
func (q *QueryService) GetAgentUsageByModel(ctx context.Context, agent string) (map[string]*AgentUsage, error) {
	result := make(map[string]*AgentUsage)

	modelsQuery := fmt.Sprintf(`group by (model) (agent_tokens_total{agent=%q})`, agent)
	modelsResult, _, err := q.queryAPI.Query(ctx, modelsQuery, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}

	var models []string
	if vector, ok := modelsResult.(model.Vector); ok {
		for _, sample := range vector {
			if modelName, ok := sample.Metric["model"]; ok {
				models = append(models, string(modelName))
			}
		}
	}

	for _, modelName := range models {
		usage := &AgentUsage{
			Agent: agent,
		}

		inputQuery := fmt.Sprintf(`sum(agent_tokens_total{agent=%q, model=%q, type="input"})`, agent, modelName)
		inputResult, _, err := q.queryAPI.Query(ctx, inputQuery, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to query input tokens for model %s: %w", modelName, err)
		}
		if vector, ok := inputResult.(model.Vector); ok && len(vector) > 0 {
			usage.InputTokens = int64(vector[0].Value)
		}

		outputQuery := fmt.Sprintf(`sum(agent_tokens_total{agent=%q, model=%q, type="output"})`, agent, modelName)
		outputResult, _, err := q.queryAPI.Query(ctx, outputQuery, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to query output tokens for model %s: %w", modelName, err)
		}
		if vector, ok := outputResult.(model.Vector); ok && len(vector) > 0 {
			usage.OutputTokens = int64(vector[0].Value)
		}

		usage.TotalTokens = usage.InputTokens + usage.OutputTokens

		costQuery := fmt.Sprintf(`sum(agent_costs_total{agent=%q, model=%q})`, agent, modelName)
		costResult, _, err := q.queryAPI.Query(ctx, costQuery, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to query cost for model %s: %w", modelName, err)
		}
		if vector, ok := costResult.(model.Vector); ok && len(vector) > 0 {
			usage.TotalCost = float64(vector[0].Value)
		}

		result[modelName] = usage
	}

	return result, nil
}
