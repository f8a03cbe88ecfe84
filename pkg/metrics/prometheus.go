package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus
// metrics registered on the default registry.
type PrometheusRecorder struct {
	executionsTotal   *prometheus.CounterVec
	tokensTotal       *prometheus.CounterVec
	costsTotal        *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new Prometheus-based metrics recorder
// on the default registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	return NewPrometheusRecorderWith(prometheus.DefaultRegisterer)
}

// NewPrometheusRecorderWith creates a recorder registered on the given
// registerer.
func NewPrometheusRecorderWith(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		executionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_executions_total",
				Help: "Total number of agent executions by agent, model, and status",
			},
			[]string{"agent", "model", "status"},
		),
		tokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_tokens_total",
				Help: "Total number of tokens used in agent executions",
			},
			[]string{"agent", "model", "type"},
		),
		costsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_costs_total",
				Help: "Total estimated cost in USD for agent executions",
			},
			[]string{"agent", "model"},
		),
		executionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agent_execution_duration_seconds",
				Help:    "Duration of agent executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"agent", "model", "status"},
		),
	}
}

// ObserveExecution records metrics for one completed agent execution.
// Token and cost counters advance only on success; failed executions
// still count toward totals and duration.
func (p *PrometheusRecorder) ObserveExecution(
	agent, model, status string,
	inputTokens, outputTokens int,
	cost float64,
	duration time.Duration,
) {
	p.executionsTotal.WithLabelValues(agent, model, status).Inc()

	if status == "success" {
		p.tokensTotal.WithLabelValues(agent, model, "input").Add(float64(inputTokens))
		p.tokensTotal.WithLabelValues(agent, model, "output").Add(float64(outputTokens))
		p.costsTotal.WithLabelValues(agent, model).Add(cost)
	}

	p.executionDuration.WithLabelValues(agent, model, status).Observe(duration.Seconds())
}
