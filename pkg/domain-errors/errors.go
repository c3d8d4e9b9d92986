// Package domainerrors defines the coded error type returned across service
// boundaries. Stores return sentinel facts; services translate them into
// these codes so transports can map them without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure. The string value is what
// transports expose to callers.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodePreconditionFailed Code = "precondition_failed"

	// Workflow taxonomy.
	CodeInvalidTransition    Code = "invalid_transition"
	CodeValidationRejected   Code = "validation_rejected"
	CodeStorage              Code = "storage_error"
	CodeCatalogUnavailable   Code = "catalog_unavailable"
	CodeTicketingUnavailable Code = "ticketing_unavailable"
	CodeNotificationFailed   Code = "notification_failed"
	CodePersistence          Code = "persistence_error"
)

// Error is a domain error carrying a Code, a human-readable message, an
// optional machine-readable Reason and flat string metadata.
type Error struct {
	Code    Code
	Message string
	Reason  string
	Meta    map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code and message, so tests can use
// errors.Is against a freshly constructed expectation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithReason sets a machine-readable sub-reason and returns the same error.
func (e *Error) WithReason(reason string) *Error {
	e.Reason = reason
	return e
}

// WithMeta attaches a key/value pair that transports may surface.
func (e *Error) WithMeta(key, value string) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]string)
	}
	e.Meta[key] = value
	return e
}

// New creates a domain error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a domain error that keeps err as its cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err, or any error it wraps, is a domain error with code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// GetCode returns the code of the outermost domain error, or CodeInternal.
func GetCode(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Reason returns the reason of the outermost domain error.
func Reason(err error) string {
	if de, ok := As(err); ok {
		return de.Reason
	}
	return ""
}
