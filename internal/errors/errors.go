package errors

import (
	"errors"
	"fmt"
)

// Code categorizes vault errors
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller passed something unusable,
	// such as bytes that are not JSON
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a snapshot or file was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates a snapshot with the same ID is already stored
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates a storage or encoding failure
	CodeInternal Code = "internal"

	// CodeUnavailable indicates a backing store could not be reached
	CodeUnavailable Code = "unavailable"
)

// Error is a vault error with a code and optional metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a metadata value and returns the same error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err, keeping the code if err is already a vault error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var vaultErr *Error
	if errors.As(err, &vaultErr) {
		return &Error{
			Code:    vaultErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(vaultErr.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and forces the code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Is checks the code of the first vault error in the chain
func Is(err error, code Code) bool {
	var vaultErr *Error
	if errors.As(err, &vaultErr) {
		return vaultErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// GetCode returns the code of err, CodeUnknown for foreign errors
func GetCode(err error) Code {
	var vaultErr *Error
	if errors.As(err, &vaultErr) {
		return vaultErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of err, if any
func GetMeta(err error) map[string]any {
	var vaultErr *Error
	if errors.As(err, &vaultErr) {
		return vaultErr.Meta
	}
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
