package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Alias lifecycle errors
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Store errors
	ErrConflict    ErrorCode = "CONFLICT"
	ErrStoreRead   ErrorCode = "STORE_READ"
	ErrStoreWrite  ErrorCode = "STORE_WRITE"
	ErrStoreParse  ErrorCode = "STORE_PARSE"
	ErrStoreCommit ErrorCode = "STORE_COMMIT"

	// Shim errors
	ErrGeneration ErrorCode = "GENERATION"

	// Installer errors
	ErrElevationDenied ErrorCode = "ELEVATION_DENIED"
	ErrApply           ErrorCode = "APPLY"

	// Reconciler errors
	ErrPartiallyApplied ErrorCode = "PARTIALLY_APPLIED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// CmdlinkError represents a structured error with code and details
type CmdlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CmdlinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CmdlinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CmdlinkError) Is(target error) bool {
	var targetErr *CmdlinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CmdlinkError with the given code and message
func New(code ErrorCode, message string) *CmdlinkError {
	return &CmdlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CmdlinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CmdlinkError {
	return &CmdlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CmdlinkError
func Wrap(err error, code ErrorCode, message string) *CmdlinkError {
	if err == nil {
		return nil
	}
	return &CmdlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CmdlinkError {
	if err == nil {
		return nil
	}
	return &CmdlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CmdlinkError) WithDetail(key string, value interface{}) *CmdlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cErr *CmdlinkError
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CmdlinkError
func GetErrorCode(err error) ErrorCode {
	var cErr *CmdlinkError
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CmdlinkError
func GetErrorDetails(err error) map[string]interface{} {
	var cErr *CmdlinkError
	if errors.As(err, &cErr) {
		return cErr.Details
	}
	return nil
}
