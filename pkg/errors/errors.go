package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Path operation preconditions
	ErrInvalidPath               ErrorCode = "INVALID_PATH"
	ErrInvalidSourceType         ErrorCode = "INVALID_SOURCE_TYPE"
	ErrInvalidSubfolderOperation ErrorCode = "INVALID_SUBFOLDER_OPERATION"

	// Wrapped filesystem failure
	ErrIO ErrorCode = "IO"

	// Configuration errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrMirrorConstraint ErrorCode = "MIRROR_CONSTRAINT"

	// Target set validation
	ErrDuplicateTarget     ErrorCode = "DUPLICATE_TARGET"
	ErrCanonicalCount      ErrorCode = "CANONICAL_COUNT"
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrTransformSymlink    ErrorCode = "TRANSFORM_SYMLINK"
	ErrSymlinkPrecondition ErrorCode = "SYMLINK_PRECONDITION"
	ErrNamingCollision     ErrorCode = "NAMING_COLLISION"

	// Download errors
	ErrDownload          ErrorCode = "DOWNLOAD"
	ErrHTTPStatus        ErrorCode = "HTTP_STATUS"
	ErrExtract           ErrorCode = "EXTRACT"
	ErrInsufficientSpace ErrorCode = "INSUFFICIENT_SPACE"
)

// DocsyncError represents a structured error with code and details
type DocsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DocsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DocsyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DocsyncError) Is(target error) bool {
	var targetErr *DocsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DocsyncError with the given code and message
func New(code ErrorCode, message string) *DocsyncError {
	return &DocsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DocsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DocsyncError {
	return &DocsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DocsyncError
func Wrap(err error, code ErrorCode, message string) *DocsyncError {
	if err == nil {
		return nil
	}
	return &DocsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DocsyncError {
	if err == nil {
		return nil
	}
	return &DocsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// IO wraps a filesystem failure into the io-error variant carrying the
// operation and path. Errors that already are a *DocsyncError pass through
// untouched so injected failures keep their original code.
func IO(op, path string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *DocsyncError
	if errors.As(cause, &existing) {
		return cause
	}
	return Wrapf(cause, ErrIO, "%s failed for %s", op, path).
		WithDetail("operation", op).
		WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *DocsyncError) WithDetail(key string, value interface{}) *DocsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DocsyncError) WithDetails(details map[string]interface{}) *DocsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var docsyncErr *DocsyncError
	if errors.As(err, &docsyncErr) {
		return docsyncErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DocsyncError
func GetErrorCode(err error) ErrorCode {
	var docsyncErr *DocsyncError
	if errors.As(err, &docsyncErr) {
		return docsyncErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DocsyncError
func GetErrorDetails(err error) map[string]interface{} {
	var docsyncErr *DocsyncError
	if errors.As(err, &docsyncErr) {
		return docsyncErr.Details
	}
	return nil
}

// IsNotExist reports whether err, or anything it wraps, says a path does
// not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
