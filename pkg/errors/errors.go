package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure independently of its message.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Ingestion outcomes that are absorbed and logged by the router
	ErrUnknownFileType ErrorCode = "UNKNOWN_FILE_TYPE"
	ErrAlreadyExists   ErrorCode = "ALREADY_EXISTS"

	// Structural failures that propagate to the caller
	ErrMalformedPattern ErrorCode = "MALFORMED_PATTERN"
	ErrMissingGroup     ErrorCode = "MISSING_GROUP"
	ErrStorage          ErrorCode = "STORAGE"
	ErrStoreNotFound    ErrorCode = "STORE_NOT_FOUND"

	// Configuration
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrConfigSave    ErrorCode = "CONFIG_SAVE"

	// Filesystem
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileMove     ErrorCode = "FILE_MOVE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// FiledbError carries a stable code, a message and optional structured details.
type FiledbError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *FiledbError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *FiledbError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a FiledbError with the same code.
func (e *FiledbError) Is(target error) bool {
	var targetErr *FiledbError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code ErrorCode, message string) *FiledbError {
	return &FiledbError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *FiledbError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to err. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *FiledbError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FiledbError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail records a key/value pair on the error and returns it for chaining.
func (e *FiledbError) WithDetail(key string, value interface{}) *FiledbError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks whether any error in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	var fErr *FiledbError
	if errors.As(err, &fErr) {
		return fErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first FiledbError in the chain, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var fErr *FiledbError
	if errors.As(err, &fErr) {
		return fErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the first FiledbError in the chain.
func GetErrorDetails(err error) map[string]interface{} {
	var fErr *FiledbError
	if errors.As(err, &fErr) {
		return fErr.Details
	}
	return nil
}
