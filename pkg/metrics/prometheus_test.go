package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorderObserveExecution(t *testing.T) {
	r := NewPrometheusRecorderWith(prometheus.NewRegistry())

	r.ObserveExecution("research_agent", "m", "success", 100, 200, 0.01, time.Second)
	r.ObserveExecution("research_agent", "m", "error", 10, 20, 0.5, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.executionsTotal.WithLabelValues("research_agent", "m", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.executionsTotal.WithLabelValues("research_agent", "m", "error")))
	assert.Equal(t, 100.0, testutil.ToFloat64(r.tokensTotal.WithLabelValues("research_agent", "m", "input")))
	assert.Equal(t, 200.0, testutil.ToFloat64(r.tokensTotal.WithLabelValues("research_agent", "m", "output")))
	assert.InDelta(t, 0.01, testutil.ToFloat64(r.costsTotal.WithLabelValues("research_agent", "m")), 1e-9,
		"failed executions contribute no cost")
}
