package metrics

import (
	"sync"
	"time"
)

// InternalRecorder implements the Recorder interface using in-memory
// aggregation. Simpler than Prometheus and requires no external services.
type InternalRecorder struct {
	agents map[string]*AgentMetrics // agent name -> aggregated metrics
	mu     sync.RWMutex
}

// AgentMetrics represents aggregated metrics for one agent.
//
//nolint:govet
type AgentMetrics struct {
	InputTokens    int64     `json:"input_tokens"`
	OutputTokens   int64     `json:"output_tokens"`
	TotalTokens    int64     `json:"total_tokens"`
	ExecutionCount int64     `json:"execution_count"`
	ErrorCount     int64     `json:"error_count"`
	TotalCost      float64   `json:"total_cost_usd"`
	Agent          string    `json:"agent"`
	LastUpdated    time.Time `json:"last_updated"`
}

var (
	// Singleton instance and initialization synchronization.
	internalInstance *InternalRecorder //nolint:gochecknoglobals
	internalOnce     sync.Once         //nolint:gochecknoglobals
)

// NewInternalRecorder returns a singleton internal metrics recorder.
func NewInternalRecorder() *InternalRecorder {
	internalOnce.Do(func() {
		internalInstance = &InternalRecorder{
			agents: make(map[string]*AgentMetrics),
		}
	})
	return internalInstance
}

// ObserveExecution records metrics for one completed agent execution.
func (r *InternalRecorder) ObserveExecution(
	agent, _, status string,
	inputTokens, outputTokens int,
	cost float64,
	_ time.Duration,
) {
	if agent == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.agents[agent]
	if !exists {
		m = &AgentMetrics{Agent: agent}
		r.agents[agent] = m
	}

	m.ExecutionCount++
	if status != "success" {
		m.ErrorCount++
	} else {
		m.InputTokens += int64(inputTokens)
		m.OutputTokens += int64(outputTokens)
		m.TotalTokens = m.InputTokens + m.OutputTokens
		m.TotalCost += cost
	}
	m.LastUpdated = time.Now()
}

// GetAgentMetrics returns the aggregated metrics for one agent, or nil
// when the agent has never reported.
func (r *InternalRecorder) GetAgentMetrics(agent string) *AgentMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, exists := r.agents[agent]; exists {
		copied := *m
		return &copied
	}
	return nil
}

// GetAllAgentMetrics returns metrics for all agents.
func (r *InternalRecorder) GetAllAgentMetrics() map[string]*AgentMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*AgentMetrics, len(r.agents))
	for agent, m := range r.agents {
		copied := *m
		result[agent] = &copied
	}
	return result
}

// Reset clears all metrics (useful for testing).
func (r *InternalRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents = make(map[string]*AgentMetrics)
}
