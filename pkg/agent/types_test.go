package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionStatusIsValid(t *testing.T) {
	assert.True(t, StatusSuccess.IsValid())
	assert.True(t, StatusError.IsValid())
	assert.True(t, StatusTimeout.IsValid())
	assert.False(t, ExecutionStatus("pending").IsValid())
	assert.False(t, ExecutionStatus("").IsValid())
}

func TestNewTokenUsageDerivesTotal(t *testing.T) {
	usage, err := NewTokenUsage(100, 200)
	require.NoError(t, err)
	assert.Equal(t, 300, usage.TotalTokens)
	assert.Equal(t, 0.0, usage.CostEstimate)
}

func TestNewTokenUsageWithTotalPreservesExplicitValue(t *testing.T) {
	usage, err := NewTokenUsageWithTotal(100, 200, 999)
	require.NoError(t, err)
	assert.Equal(t, 999, usage.TotalTokens, "explicit total must not be recomputed")
}

func TestTokenUsageRejectsNegativeCounters(t *testing.T) {
	tests := []struct {
		name   string
		input  int
		output int
	}{
		{name: "negative input", input: -1, output: 0},
		{name: "negative output", input: 0, output: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenUsage(tt.input, tt.output)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestTokenUsageWithCost(t *testing.T) {
	usage, err := NewTokenUsage(10, 20)
	require.NoError(t, err)

	withCost, err := usage.WithCost(0.05)
	require.NoError(t, err)
	assert.Equal(t, 0.05, withCost.CostEstimate)
	assert.Equal(t, 0.0, usage.CostEstimate, "original value is unchanged")

	_, err = usage.WithCost(-0.01)
	assert.Error(t, err)
}

func TestResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantErr bool
	}{
		{
			name:   "success with output",
			result: Result{Status: StatusSuccess, Output: "hello", ExecutionTime: time.Second},
		},
		{
			name:   "success with nil output is legal",
			result: Result{Status: StatusSuccess},
		},
		{
			name:   "error with message",
			result: Result{Status: StatusError, ErrorMessage: "ExecutionError: boom"},
		},
		{
			name:   "timeout with message",
			result: Result{Status: StatusTimeout, ErrorMessage: "TimeoutError: too slow", ExecutionTime: 300 * time.Second},
		},
		{
			name:    "error without message",
			result:  Result{Status: StatusError},
			wantErr: true,
		},
		{
			name:    "success with message",
			result:  Result{Status: StatusSuccess, ErrorMessage: "should not be here"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			result:  Result{Status: "running", ErrorMessage: "x"},
			wantErr: true,
		},
		{
			name:    "negative execution time",
			result:  Result{Status: StatusSuccess, ExecutionTime: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
