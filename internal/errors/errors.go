package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error code
type ErrorCode string

const (
	// Feed errors
	CodeFeedUnavailable ErrorCode = "FEED_UNAVAILABLE"
	CodeFeedUnparsable  ErrorCode = "FEED_UNPARSABLE"

	// Persistence errors
	CodePersistence           ErrorCode = "PERSISTENCE_ERROR"
	CodePersistenceConnection ErrorCode = "PERSISTENCE_CONNECTION_ERROR"
	CodeNotFound              ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Config errors
	CodeConfig        ErrorCode = "CONFIG_ERROR"
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Internal errors
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
	CodeUnknown     ErrorCode = "UNKNOWN_ERROR"
	CodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FeedUnavailable creates an error for a transport-level feed failure
func FeedUnavailable(message string, err error) *AppError {
	return Wrap(err, CodeFeedUnavailable, message)
}

// FeedUnparsable creates an error for a fetched but invalid guide document
func FeedUnparsable(message string, err error) *AppError {
	return Wrap(err, CodeFeedUnparsable, message)
}

// PersistenceError creates a store read/write error
func PersistenceError(message string, err error) *AppError {
	return Wrap(err, CodePersistence, message)
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *AppError {
	if err != nil {
		return Wrap(err, CodeConfig, message)
	}
	return New(CodeConfig, message)
}

// NotFoundError creates a not found error
func NotFoundError(resource, identifier string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier))
}

// IsRetryable determines if an error is worth retrying: transient transport
// failures and lost store connections are, a malformed document is not.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeFeedUnavailable, CodePersistenceConnection:
			return true
		}
	}
	return false
}

// IsRefreshFailure reports whether an error belongs to the feed side of the
// taxonomy. Both variants collapse to the same caller-visible outcome: the
// refresh failed and no stored data changed.
func IsRefreshFailure(err error) bool {
	code := GetErrorCode(err)
	return code == CodeFeedUnavailable || code == CodeFeedUnparsable
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeValidation || appErr.Code == CodeInvalidInput
	}
	return false
}
