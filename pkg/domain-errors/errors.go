// Package domainerrors defines coded errors that cross the service boundary.
//
// Stores speak in sentinel errors (pkg/platform/sentinel); services translate
// those into coded errors here, and the HTTP layer maps codes to status codes.
// Callers import it as dErrors.
package domainerrors

import (
	"errors"
	"sort"
	"strings"
)

// Code classifies an error for transport mapping.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_error"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeActionAlreadyDone  Code = "action_already_done"
	CodeInvariantViolation Code = "invariant_violation"
	CodeNotImplemented     Code = "not_implemented"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Fields maps a field name to its ordered list of violations.
type Fields map[string][]string

// Error is a coded domain error. Fields is only populated for validation errors.
type Error struct {
	Code    Code
	Message string
	Fields  Fields
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// NewValidation creates a validation error carrying every field violation.
func NewValidation(fields Fields) *Error {
	return &Error{Code: CodeValidation, Message: fields.Summary(), Fields: fields}
}

// As extracts the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Summary renders violations as "field: msg; field: msg" in field order.
func (f Fields) Summary() string {
	if len(f) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, msg := range f[k] {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
