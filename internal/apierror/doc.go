// Package apierror provides error inspection capabilities for YouTube Data
// API errors. It centralizes the logic for identifying different types of
// errors returned by the API, eliminating the need for string-based error
// checking throughout the codebase.
//
// The Data API reports failures as googleapi.Error values carrying an HTTP
// status plus machine-readable reason codes (quotaExceeded, commentsDisabled,
// videoNotFound, ...). The inspector checks those first and falls back to
// message matching for transport-level errors that never reached the API.
package apierror
