package agent

import (
	"fmt"
	"strings"
	"time"

	"hypeproof/pkg/logx"
)

// taskSummaryLimit caps the task text recorded in log events. Truncation
// protects log volume, not correctness.
const taskSummaryLimit = 100

// TruncateTask returns a log-safe summary of a task string.
func TruncateTask(task string) string {
	if len(task) <= taskSummaryLimit {
		return task
	}
	return task[:taskSummaryLimit]
}

// HandleException maps any fault raised during task execution to a
// Result. Timeout-kind faults classify as StatusTimeout, everything else
// as StatusError. This is the universal fault boundary: it never fails.
func HandleException(logger *logx.Logger, agentName, task string, err error, elapsed time.Duration) Result {
	kind := ErrorKind(err)
	message := ""
	if err != nil {
		message = err.Error()
	}

	logger.Event(logx.LevelError, "agent_execution_failed", logx.Fields{
		"agent":      agentName,
		"task":       TruncateTask(task),
		"error":      message,
		"error_type": kind,
	})

	status := StatusError
	if IsTimeout(err) {
		status = StatusTimeout
	}

	return Result{
		Status:        status,
		Output:        nil,
		ExecutionTime: elapsed,
		ErrorMessage:  fmt.Sprintf("%s: %s", kind, message),
	}
}

// HandleTimeout synthesizes a timeout Result. The recorded ExecutionTime
// IS the threshold, not the actual elapsed time: once a timeout is
// declared, the threshold is the duration of record.
func HandleTimeout(logger *logx.Logger, agentName, task string, timeout time.Duration) Result {
	logger.Event(logx.LevelWarn, "agent_execution_timeout", logx.Fields{
		"agent":   agentName,
		"task":    TruncateTask(task),
		"timeout": timeout.Seconds(),
	})

	return Result{
		Status:        StatusTimeout,
		Output:        nil,
		ExecutionTime: timeout,
		ErrorMessage:  fmt.Sprintf("agent execution exceeded timeout of %.0f seconds", timeout.Seconds()),
	}
}

// Fault kinds that warrant a retry.
//
//nolint:gochecknoglobals
var retriableKinds = map[string]bool{
	"ConnectionError":    true,
	"TimeoutError":       true,
	"RateLimitError":     true,
	"ServiceUnavailable": true,
}

// IsRetriable reports whether a fault is worth retrying: its kind is one
// of the known transient kinds, or its message mentions a timeout. The
// retry middleware at the LLM client boundary consults this; the Execute
// wrapper itself never retries.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if retriableKinds[ErrorKind(err)] {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
