package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalRecorderIsSingleton(t *testing.T) {
	first := NewInternalRecorder()
	second := NewInternalRecorder()
	assert.Same(t, first, second)
}

func TestInternalRecorderAggregates(t *testing.T) {
	r := NewInternalRecorder()
	r.Reset()

	r.ObserveExecution("research_agent", "claude-sonnet-4-20250514", "success", 100, 200, 0.01, time.Second)
	r.ObserveExecution("research_agent", "claude-sonnet-4-20250514", "success", 50, 50, 0.005, time.Second)

	m := r.GetAgentMetrics("research_agent")
	require.NotNil(t, m)
	assert.Equal(t, int64(2), m.ExecutionCount)
	assert.Equal(t, int64(0), m.ErrorCount)
	assert.Equal(t, int64(150), m.InputTokens)
	assert.Equal(t, int64(250), m.OutputTokens)
	assert.Equal(t, int64(400), m.TotalTokens)
	assert.InDelta(t, 0.015, m.TotalCost, 1e-9)
	assert.False(t, m.LastUpdated.IsZero())
}

func TestInternalRecorderCountsErrorsWithoutTokens(t *testing.T) {
	r := NewInternalRecorder()
	r.Reset()

	r.ObserveExecution("a", "m", "error", 10, 20, 0.5, time.Second)
	r.ObserveExecution("a", "m", "timeout", 0, 0, 0, time.Second)

	m := r.GetAgentMetrics("a")
	require.NotNil(t, m)
	assert.Equal(t, int64(2), m.ExecutionCount)
	assert.Equal(t, int64(2), m.ErrorCount)
	assert.Equal(t, int64(0), m.TotalTokens, "failed executions contribute no tokens")
	assert.Equal(t, 0.0, m.TotalCost)
}

func TestInternalRecorderUnknownAgent(t *testing.T) {
	r := NewInternalRecorder()
	r.Reset()
	assert.Nil(t, r.GetAgentMetrics("ghost"))
}

func TestInternalRecorderReturnsCopies(t *testing.T) {
	r := NewInternalRecorder()
	r.Reset()
	r.ObserveExecution("a", "m", "success", 1, 1, 0, time.Second)

	m := r.GetAgentMetrics("a")
	m.InputTokens = 999

	fresh := r.GetAgentMetrics("a")
	assert.Equal(t, int64(1), fresh.InputTokens, "mutating a returned copy must not affect the store")
}

func TestInternalRecorderGetAll(t *testing.T) {
	r := NewInternalRecorder()
	r.Reset()
	r.ObserveExecution("a", "m", "success", 1, 1, 0, time.Second)
	r.ObserveExecution("b", "m", "success", 1, 1, 0, time.Second)

	all := r.GetAllAgentMetrics()
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a")
	assert.Contains(t, all, "b")
}

func TestNopRecorder(t *testing.T) {
	// Must simply not panic.
	Nop().ObserveExecution("a", "m", "success", 1, 1, 0, time.Second)
}
