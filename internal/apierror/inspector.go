package apierror

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// Inspector provides methods for analyzing YouTube Data API errors.
type Inspector interface {
	// IsAuthError returns true if the error means the API key was rejected.
	IsAuthError(err error) bool

	// IsQuotaError returns true if the error represents an exhausted daily
	// quota or an exceeded request rate.
	IsQuotaError(err error) bool

	// IsNotFoundError returns true if the referenced video or comment does
	// not exist or is not accessible.
	IsNotFoundError(err error) bool

	// IsCommentsDisabledError returns true if the video has comments turned off.
	IsCommentsDisabledError(err error) bool

	// IsNetworkError returns true if the error represents a network
	// connectivity problem.
	IsNetworkError(err error) bool

	// IsRetryable returns true if retrying the request with backoff is
	// worthwhile: transient server errors, burst rate limits, and network
	// failures. Daily quota exhaustion and auth failures are not retryable.
	IsRetryable(err error) bool
}

// DataAPIInspector implements the Inspector interface for YouTube Data API
// errors. Typed googleapi.Error values anywhere in the chain are inspected
// by status code and reason; everything else falls back to message matching.
type DataAPIInspector struct{}

// NewInspector creates a new DataAPIInspector.
func NewInspector() Inspector {
	return &DataAPIInspector{}
}

// IsAuthError checks if the error means the API key was rejected.
func (i *DataAPIInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if hasReason(err, "keyInvalid", "ipRefererBlocked", "accessNotConfigured") {
		return true
	}
	if code := statusCode(err); code == 401 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "api key not valid") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "api_key_invalid")
}

// IsQuotaError checks if the error represents quota or rate exhaustion.
func (i *DataAPIInspector) IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if hasReason(err, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded") {
		return true
	}
	if statusCode(err) == 429 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit")
}

// IsNotFoundError checks if the referenced video or comment is missing.
func (i *DataAPIInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if hasReason(err, "videoNotFound", "commentNotFound", "commentThreadNotFound") {
		return true
	}
	if statusCode(err) == 404 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsCommentsDisabledError checks if the video has comments turned off.
func (i *DataAPIInspector) IsCommentsDisabledError(err error) bool {
	if err == nil {
		return false
	}
	if hasReason(err, "commentsDisabled") {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "disabled comments")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *DataAPIInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "network error") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "unexpected eof")
}

// IsRetryable checks if the request is worth retrying with backoff.
func (i *DataAPIInspector) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch statusCode(err) {
	case 429, 500, 502, 503, 504:
		return true
	}
	// Burst limits clear on their own; daily quota does not.
	if hasReason(err, "rateLimitExceeded", "userRateLimitExceeded") {
		return true
	}
	if hasReason(err, "quotaExceeded", "dailyLimitExceeded") {
		return false
	}
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "quota") {
		return false
	}
	if strings.Contains(errStr, "rate limit") {
		return true
	}
	return i.IsNetworkError(err)
}

// statusCode returns the HTTP status of a googleapi.Error in the chain,
// or 0 if there is none.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// hasReason reports whether a googleapi.Error in the chain carries any of
// the given Data API reason codes.
func hasReason(err error, reasons ...string) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, item := range gerr.Errors {
		for _, want := range reasons {
			if item.Reason == want {
				return true
			}
		}
	}
	return false
}

// WithRetryInfo annotates an error with retry attempt bookkeeping so the
// final error reports how hard the client tried.
func WithRetryInfo(err error, attempt, maxAttempts int) error {
	if err == nil {
		return nil
	}
	return &retryInfoError{err: err, attempt: attempt, max: maxAttempts}
}

type retryInfoError struct {
	err     error
	attempt int
	max     int
}

func (e *retryInfoError) Error() string {
	return fmt.Sprintf("%v (attempt %d/%d)", e.err, e.attempt, e.max)
}

func (e *retryInfoError) Unwrap() error { return e.err }

// WithUserAction attaches a suggested remedy to an error. The CLI surfaces
// the action text alongside the failure.
func WithUserAction(err error, action string) error {
	if err == nil {
		return nil
	}
	return &userActionError{err: err, action: action}
}

type userActionError struct {
	err    error
	action string
}

func (e *userActionError) Error() string {
	return fmt.Sprintf("%v: %s", e.err, e.action)
}

func (e *userActionError) Unwrap() error { return e.err }
