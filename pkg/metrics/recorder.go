// Package metrics provides execution metrics recording and aggregation
// for agents.
package metrics

import (
	"time"
)

// Recorder receives one observation per agent execution. Satisfies the
// recorder interface declared next to the execution framework.
type Recorder interface {
	// ObserveExecution records metrics for one completed agent execution.
	ObserveExecution(
		agent, model, status string,
		inputTokens, outputTokens int,
		cost float64,
		duration time.Duration,
	)
}

// NoopRecorder implements Recorder with no-op behavior for when metrics
// are disabled.
type NoopRecorder struct{}

// Nop returns a no-op metrics recorder that discards all observations.
func Nop() Recorder {
	return &NoopRecorder{}
}

// ObserveExecution does nothing in the no-op recorder.
func (n *NoopRecorder) ObserveExecution(
	_, _, _ string,
	_, _ int,
	_ float64,
	_ time.Duration,
) {
	// No-op
}
