// Package errors provides the engine's classified error taxonomy: a small,
// closed set of codes the caller can branch on, each carrying its own HTTP
// status for the outer API layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is one of the five failure kinds the engine can classify a failure
// as, plus Internal for anything that doesn't fit.
type Code string

const (
	// InputMalformed covers structurally broken input: duplicate ids,
	// out-of-range resource references, an empty event list.
	InputMalformed Code = "INPUT_MALFORMED"
	// InputInconsistent covers structurally valid input that references
	// ids that don't exist elsewhere in the Problem.
	InputInconsistent Code = "INPUT_INCONSISTENT"
	// ConfigInvalid covers an EngineConfig with out-of-range tuning values.
	ConfigInvalid Code = "CONFIG_INVALID"
	// Cancelled reports that a caller-provided cancellation token fired.
	Cancelled Code = "CANCELLED"
	// InvariantViolated reports an internal consistency check failing —
	// a bug in the engine, never a user input problem.
	InvariantViolated Code = "INVARIANT_VIOLATED"
	// Internal is the catch-all for anything not otherwise classified.
	Internal Code = "INTERNAL_ERROR"
)

// AppError is the engine's error type: a Code the caller can branch on, a
// human message, and an optional wrapped cause.
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithField attaches a structured diagnostic field, serialized under
// "fields" in the error's JSON form.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates an AppError with the given code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: codeToHTTPStatus(code)}
}

// Newf creates an AppError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an AppError carrying cause as its underlying error.
func Wrap(cause error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: codeToHTTPStatus(code), Cause: cause}
}

func codeToHTTPStatus(code Code) int {
	switch code {
	case InputMalformed, InputInconsistent, ConfigInvalid:
		return http.StatusBadRequest
	case Cancelled:
		return http.StatusRequestTimeout
	case InvariantViolated, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or Internal if err is not an AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return Internal
}

// GetHTTPStatus extracts the HTTP status from err, or 500 if err is not an AppError.
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
