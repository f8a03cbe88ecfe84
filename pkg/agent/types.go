// Package agent provides the execution core shared by all agents: the
// result model, the error classifier, and the base agent whose Execute
// wrapper guarantees that every invocation yields exactly one Result.
package agent

import (
	"fmt"
	"time"
)

// ExecutionStatus is the sole discriminant of an execution outcome.
type ExecutionStatus string

const (
	StatusSuccess ExecutionStatus = "success"
	StatusError   ExecutionStatus = "error"
	StatusTimeout ExecutionStatus = "timeout"
)

// IsValid reports whether s is one of the closed set of statuses.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusTimeout:
		return true
	default:
		return false
	}
}

// TokenUsage holds token statistics for one agent execution. Construct via
// NewTokenUsage or NewTokenUsageWithTotal; treat values as immutable.
type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostEstimate float64 `json:"cost_estimate"`
}

// NewTokenUsage builds a TokenUsage with TotalTokens derived as
// input + output.
func NewTokenUsage(inputTokens, outputTokens int) (TokenUsage, error) {
	return NewTokenUsageWithTotal(inputTokens, outputTokens, inputTokens+outputTokens)
}

// NewTokenUsageWithTotal builds a TokenUsage with an explicit total. The
// explicit value is preserved, never recomputed.
func NewTokenUsageWithTotal(inputTokens, outputTokens, totalTokens int) (TokenUsage, error) {
	usage := TokenUsage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  totalTokens,
	}
	if err := usage.Validate(); err != nil {
		return TokenUsage{}, err
	}
	return usage, nil
}

// WithCost returns a copy carrying the given cost estimate.
func (u TokenUsage) WithCost(cost float64) (TokenUsage, error) {
	if cost < 0 {
		return TokenUsage{}, &ValidationError{Field: "cost_estimate", Reason: "must be non-negative"}
	}
	u.CostEstimate = cost
	return u, nil
}

// Validate enforces the TokenUsage invariants.
func (u TokenUsage) Validate() error {
	if u.InputTokens < 0 {
		return &ValidationError{Field: "input_tokens", Reason: "must be non-negative"}
	}
	if u.OutputTokens < 0 {
		return &ValidationError{Field: "output_tokens", Reason: "must be non-negative"}
	}
	if u.TotalTokens < 0 {
		return &ValidationError{Field: "total_tokens", Reason: "must be non-negative"}
	}
	if u.CostEstimate < 0 {
		return &ValidationError{Field: "cost_estimate", Reason: "must be non-negative"}
	}
	return nil
}

// Result is the uniform record every agent execution produces, success or
// failure.
type Result struct {
	Status        ExecutionStatus `json:"status"`
	Output        any             `json:"output,omitempty"`
	TokenUsage    *TokenUsage     `json:"token_usage,omitempty"`
	ExecutionTime time.Duration   `json:"execution_time"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// Validate enforces the Result invariants: a known status, non-negative
// duration, and an error message exactly when the status is not success.
// Success with nil output is legal (unusual, but not a violation).
func (r *Result) Validate() error {
	if !r.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", r.Status)}
	}
	if r.ExecutionTime < 0 {
		return &ValidationError{Field: "execution_time", Reason: "must be non-negative"}
	}
	if r.Status == StatusSuccess && r.ErrorMessage != "" {
		return &ValidationError{Field: "error_message", Reason: "must be empty on success"}
	}
	if r.Status != StatusSuccess && r.ErrorMessage == "" {
		return &ValidationError{Field: "error_message", Reason: "required when status is not success"}
	}
	if r.TokenUsage != nil {
		if err := r.TokenUsage.Validate(); err != nil {
			return err
		}
	}
	return nil
}
