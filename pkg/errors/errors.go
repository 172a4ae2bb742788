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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Dotfile errors
	ErrMergeConflict ErrorCode = "MERGE_CONFLICT"
	ErrTextEncoding  ErrorCode = "TEXT_ENCODING"
	ErrApply         ErrorCode = "APPLY"

	// FileSystem errors
	ErrIO ErrorCode = "IO"

	// Target errors
	ErrTargetNotFound ErrorCode = "TARGET_NOT_FOUND"
	ErrDecrypt        ErrorCode = "DECRYPT"
	ErrEncrypt        ErrorCode = "ENCRYPT"
)

// Detail keys shared by producers and consumers of structured errors
const (
	DetailPath             = "path"
	DetailOperation        = "operation"
	DetailReason           = "reason"
	DetailField            = "field"
	DetailExpectedEncoding = "expected_encoding"
	DetailMessage          = "message"
	DetailSource           = "source"
	DetailTarget           = "target"
)

// DotbootError represents a structured error with code and details
type DotbootError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotbootError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotbootError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotbootError) Is(target error) bool {
	var targetErr *DotbootError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotbootError with the given code and message
func New(code ErrorCode, message string) *DotbootError {
	return &DotbootError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotbootError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotbootError {
	return &DotbootError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotbootError
func Wrap(err error, code ErrorCode, message string) *DotbootError {
	if err == nil {
		return nil
	}
	return &DotbootError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotbootError {
	if err == nil {
		return nil
	}
	return &DotbootError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotbootError) WithDetail(key string, value interface{}) *DotbootError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DotbootError) WithDetails(details map[string]interface{}) *DotbootError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// MergeConflict reports two declarations that cannot be combined.
func MergeConflict(reason string) *DotbootError {
	return New(ErrMergeConflict, reason).WithDetail(DetailReason, reason)
}

// IO reports a filesystem failure of the given operation on path.
func IO(err error, path, operation string) *DotbootError {
	return Wrapf(err, ErrIO, "failed to %s %s", operation, path).
		WithDetail(DetailPath, path).
		WithDetail(DetailOperation, operation)
}

// IsErrorCode checks if an error, or any DotbootError it wraps, has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	return FindError(err, code) != nil
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotbootError
func GetErrorCode(err error) ErrorCode {
	var dotbootErr *DotbootError
	if errors.As(err, &dotbootErr) {
		return dotbootErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotbootError
func GetErrorDetails(err error) map[string]interface{} {
	var dotbootErr *DotbootError
	if errors.As(err, &dotbootErr) {
		return dotbootErr.Details
	}
	return nil
}

// FindError returns the outermost DotbootError in the chain carrying code.
func FindError(err error, code ErrorCode) *DotbootError {
	for err != nil {
		var dotbootErr *DotbootError
		if !errors.As(err, &dotbootErr) {
			return nil
		}
		if dotbootErr.Code == code {
			return dotbootErr
		}
		err = dotbootErr.Wrapped
	}
	return nil
}
