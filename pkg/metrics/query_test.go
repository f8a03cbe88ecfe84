package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrometheus serves canned instant-query vectors keyed off the PromQL
// expression.
func fakePrometheus(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("query")
		metric, value := "{}", "0"
		switch {
		case strings.HasPrefix(query, "group by (model)"):
			metric, value = `{"model":"claude-sonnet-4-20250514"}`, "1"
		case strings.Contains(query, `type="input"`):
			value = "1200"
		case strings.Contains(query, `type="output"`):
			value = "3400"
		case strings.Contains(query, "agent_costs_total"):
			value = "0.25"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"success","data":{"resultType":"vector","result":[{"metric":%s,"value":[1724500000,%q]}]}}`, metric, value)
	}))
}

func TestQueryServiceGetAgentUsage(t *testing.T) {
	srv := fakePrometheus(t)
	defer srv.Close()

	svc, err := NewQueryService(srv.URL)
	require.NoError(t, err)

	usage, err := svc.GetAgentUsage(context.Background(), "research_agent")
	require.NoError(t, err)
	assert.Equal(t, "research_agent", usage.Agent)
	assert.Equal(t, int64(1200), usage.InputTokens)
	assert.Equal(t, int64(3400), usage.OutputTokens)
	assert.Equal(t, int64(4600), usage.TotalTokens)
	assert.InDelta(t, 0.25, usage.TotalCost, 1e-9)
}

func TestQueryServiceGetAgentUsageByModel(t *testing.T) {
	srv := fakePrometheus(t)
	defer srv.Close()

	svc, err := NewQueryService(srv.URL)
	require.NoError(t, err)

	byModel, err := svc.GetAgentUsageByModel(context.Background(), "research_agent")
	require.NoError(t, err)
	require.Contains(t, byModel, "claude-sonnet-4-20250514")

	m := byModel["claude-sonnet-4-20250514"]
	assert.Equal(t, int64(4600), m.TotalTokens)
	assert.InDelta(t, 0.25, m.TotalCost, 1e-9)
}

func TestNewQueryServiceRejectsBadURL(t *testing.T) {
	_, err := NewQueryService("://not-a-url")
	assert.Error(t, err)
}
