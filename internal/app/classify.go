package app

import (
	"errors"
	"strings"
)

// HTTP codes that settle classification outright. Anything else falls back
// to message-text pattern matching.
var (
	nonRetryableCodes = map[int]bool{400: true, 401: true, 403: true, 404: true, 422: true}
	retryableCodes    = map[int]bool{429: true, 500: true, 502: true, 503: true, 504: true}
)

// Message patterns used only when no HTTP status is available. Pattern
// matching on provider error text is fragile; the status code path above is
// authoritative.
var (
	nonRetryablePatterns = []string{
		"template not found",
		"permission denied",
		"invalid recipient",
		"policy violation",
		"compliance",
		"unauthorized",
		"forbidden",
	}
	retryablePatterns = []string{
		"timeout",
		"connection",
		"network",
		"temporarily unavailable",
	}
)

// httpStatusError is satisfied by provider errors that carry the HTTP
// status of the failed response.
type httpStatusError interface {
	HTTPStatus() int
}

// Retryable classifies a delivery failure. The HTTP status (httpCode, or
// one carried by err) is consulted first; without one the error text is
// matched against known patterns. Unmatched errors are not retried
// (fail closed).
func Retryable(err error, httpCode int) bool {
	if httpCode == 0 {
		var se httpStatusError
		if errors.As(err, &se) {
			httpCode = se.HTTPStatus()
		}
	}

	if nonRetryableCodes[httpCode] {
		return false
	}
	if retryableCodes[httpCode] {
		return true
	}

	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range nonRetryablePatterns {
		if strings.Contains(msg, p) {
			return false
		}
	}
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
