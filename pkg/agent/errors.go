package agent

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ValidationError reports a malformed Result, TokenUsage, or config
// record. Surfaced immediately to the caller, never converted to a Result
// by the execution wrapper.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// Kind returns the fault kind name.
func (*ValidationError) Kind() string { return "ValidationError" }

// ExecutionError wraps a fault raised inside an agent's task logic.
type ExecutionError struct {
	Agent string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("agent %s execution failed: %v", e.Agent, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Kind returns the fault kind name.
func (*ExecutionError) Kind() string { return "ExecutionError" }

// TimeoutError is the distinguished execution fault that classifies to
// StatusTimeout instead of StatusError.
type TimeoutError struct {
	Agent   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("agent %s execution exceeded timeout of %.0f seconds", e.Agent, e.Timeout.Seconds())
}

// Kind returns the fault kind name.
func (*TimeoutError) Kind() string { return "TimeoutError" }

// Kinder is implemented by errors that carry an explicit fault kind name.
type Kinder interface {
	Kind() string
}

// ErrorKind derives the fault kind name used in result error messages:
// the explicit Kind when the error (or anything it wraps) provides one,
// timeout sentinels for context deadline errors, and otherwise the
// error's Go type name.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var kinder Kinder
	if errors.As(err, &kinder) {
		return kinder.Kind()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TimeoutError"
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || name == "errorString" {
		return "Error"
	}
	return name
}

// IsTimeout reports whether the fault should classify as StatusTimeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.EqualFold(ErrorKind(err), "TimeoutError")
}
