package interview

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so the API layer can pick a status code.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindConfiguration      Kind = "configuration"
	KindServiceUnavailable Kind = "service_unavailable"
	KindInternal           Kind = "internal"
)

// Error represents a classified failure raised by the interview core or the model gateway
type Error struct {
	Kind      Kind
	SessionID string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	prefix := fmt.Sprintf("interview error [%s]", e.Kind)
	if e.SessionID != "" {
		prefix += " for session " + e.SessionID
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first *Error in err's chain.
func MessageOf(err error) string {
	var ierr *Error
	if errors.As(err, &ierr) {
		return ierr.Message
	}
	return "Internal Server Error"
}

// NewValidationError creates an error for a missing or malformed input field
func NewValidationError(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
	}
}

// NewSessionNotFoundError creates an error for an unknown session identifier
func NewSessionNotFoundError(sessionID string) *Error {
	return &Error{
		Kind:      KindNotFound,
		SessionID: sessionID,
		Message:   "Session not found",
	}
}

// NewConflictError creates an error for an operation the session's state does not allow
func NewConflictError(sessionID, message string) *Error {
	return &Error{
		Kind:      KindConflict,
		SessionID: sessionID,
		Message:   message,
	}
}

// NewConfigurationError creates an error for a missing external credential or setting
func NewConfigurationError(message string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: message,
	}
}

// NewServiceUnavailableError creates an error for a failed or empty model call
func NewServiceUnavailableError(message string, cause error) *Error {
	return &Error{
		Kind:    KindServiceUnavailable,
		Message: message,
		Cause:   cause,
	}
}
