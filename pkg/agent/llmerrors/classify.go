package llmerrors

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals // Compiled once.
var statusCodePattern = regexp.MustCompile(`\b([45]\d{2})\b`)

// extractStatusCode pulls an HTTP status code out of an SDK error string.
// Provider SDKs embed the status in the message rather than a typed field.
func extractStatusCode(errStr string) int {
	match := statusCodePattern.FindStringSubmatch(errStr)
	if match == nil {
		return 0
	}
	code, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return code
}

// Classify maps an arbitrary provider SDK error to a classified Error.
// Already-classified errors pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewErrorWithCause(ErrorTypeTimeout, err, "request timeout")
	}
	if errors.Is(err, context.Canceled) {
		return NewErrorWithCause(ErrorTypeTimeout, err, "request canceled")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewErrorWithCause(ErrorTypeTimeout, err, "network timeout")
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	switch statusCode := extractStatusCode(errStr); statusCode {
	case 401, 403:
		return NewErrorWithStatus(ErrorTypeAuth, statusCode, "authentication failed - check API key")
	case 429:
		return NewErrorWithStatus(ErrorTypeRateLimit, statusCode, "rate limit exceeded")
	case 400, 413, 422:
		return NewErrorWithStatus(ErrorTypeBadPrompt, statusCode, "bad request - check prompt format and parameters")
	case 500, 502, 503, 504:
		return NewErrorWithStatus(ErrorTypeConnection, statusCode, "server error")
	}

	if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline") {
		return NewErrorWithCause(ErrorTypeTimeout, err, errStr)
	}

	if strings.Contains(lower, "connection") ||
		strings.Contains(lower, "network") ||
		strings.Contains(lower, "temporary") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(lower, "reset") {
		return NewErrorWithCause(ErrorTypeConnection, err, errStr)
	}

	if strings.Contains(lower, "rate") || strings.Contains(lower, "quota") {
		return NewErrorWithCause(ErrorTypeRateLimit, err, errStr)
	}

	if strings.Contains(lower, "auth") ||
		strings.Contains(lower, "api key") ||
		strings.Contains(lower, "unauthorized") {
		return NewErrorWithCause(ErrorTypeAuth, err, errStr)
	}

	return NewErrorWithCause(ErrorTypeUnknown, err, errStr)
}
