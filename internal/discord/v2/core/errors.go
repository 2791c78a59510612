package core

import (
	"fmt"

	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
)

// HandlerError represents an error that occurred during handler execution
type HandlerError struct {
	// The underlying error
	Err error

	// User-friendly message to display
	UserMessage string

	// HTTP-like status code for categorization
	Code int
}

// Error implements the error interface
func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrorCodeBadRequest  = 400
	ErrorCodeNotFound    = 404
	ErrorCodeConflict    = 409
	ErrorCodeInternal    = 500
	ErrorCodeUnavailable = 503
)

// NewInternalError creates an internal error whose details stay in the logs
func NewInternalError(err error) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: "An internal error occurred. Please try again later.",
		Code:        ErrorCodeInternal,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		Code:        ErrorCodeBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *HandlerError {
	return &HandlerError{
		UserMessage: fmt.Sprintf("%s not found", resource),
		Code:        ErrorCodeNotFound,
	}
}

// FromError maps vault error codes to something a Discord user can act on
func FromError(err error) *HandlerError {
	if err == nil {
		return nil
	}
	if handlerErr, ok := err.(*HandlerError); ok {
		return handlerErr
	}

	switch dnderr.GetCode(err) {
	case dnderr.CodeNotFound:
		return &HandlerError{Err: err, UserMessage: "No character matches that name or ID.", Code: ErrorCodeNotFound}
	case dnderr.CodeInvalidArgument:
		return &HandlerError{Err: err, UserMessage: invalidMessage(err), Code: ErrorCodeBadRequest}
	case dnderr.CodeAlreadyExists:
		return &HandlerError{Err: err, UserMessage: "That character is already in the vault.", Code: ErrorCodeConflict}
	case dnderr.CodeUnavailable:
		return &HandlerError{Err: err, UserMessage: "The vault is unavailable right now. Please try again later.", Code: ErrorCodeUnavailable}
	default:
		return NewInternalError(err)
	}
}

func invalidMessage(err error) string {
	if matches, ok := dnderr.GetMeta(err)["matches"].([]string); ok && len(matches) > 1 {
		return fmt.Sprintf("That matches %d characters. Try the full name or an ID.", len(matches))
	}
	return "That request could not be understood."
}
