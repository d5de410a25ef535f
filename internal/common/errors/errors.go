// Package errors provides standardized error handling for the loan intake client.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors block the user action that produced them.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Transport errors are recovered locally with cached data or a canned reply.
	ErrCodeTransportFailed ErrorCode = "TRANSPORT_FAILED"
	ErrCodeBackendTimeout  ErrorCode = "BACKEND_TIMEOUT"

	// Payload errors degrade to defaults, never reach the user.
	ErrCodeMalformedPayload ErrorCode = "MALFORMED_PAYLOAD"

	// Side-channel failures: logged, never blocking.
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeAuditWriteFailed       ErrorCode = "AUDIT_WRITE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable form input error. This is the only
// error class allowed to block a user-visible action.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   fmt.Sprintf("Invalid value for %s", field),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable backend transport error.
func NewTransportError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   "Backend request failed",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBackendTimeoutError creates a retryable timeout error.
func NewBackendTimeoutError(endpoint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendTimeout,
		Message:   "Backend request timed out",
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedPayloadError creates a non-retryable payload shape error.
// Callers must treat it as diagnostic only and default every missing field.
func NewMalformedPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedPayload,
		Message:   "Backend returned an unexpected payload shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Session cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditWriteFailedError creates a retryable audit sink error.
func NewAuditWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Audit trail insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTransportFailed, ErrCodeCacheUnavailable,
		ErrCodeAuditWriteFailed, ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeBackendTimeout:
		return 1
	default:
		return 0 // validation and payload errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsValidation reports whether err is a validation error, the only class that
// may block submission.
func IsValidation(err error) bool {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code == ErrCodeValidationFailed
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or empty string for plain errors.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ""
}
