package blog

import (
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Code classifies repository failures for the transport layer.
type Code string

const (
	CodeNotFound Code = "NOT_FOUND"
	CodeConflict Code = "CONFLICT"
	CodeUnknown  Code = "UNKNOWN"
)

// Error is a classified repository failure. Handlers only ever inspect the
// code; the wrapped cause stays available for logging.
type Error struct {
	Code    Code
	Message string
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

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the domain code from an error chain. Validation errors
// and nil are not classified.
func CodeOf(err error) (Code, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	return "", false
}

// IsValidation reports whether the error chain contains a ValidationError
// and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// translateStoreError is the single place that understands store-specific
// error signals. Everything above the repository only sees the three
// domain codes.
func translateStoreError(err error, context string) *Error {
	switch {
	case eris.Is(err, gorm.ErrRecordNotFound):
		return newError(CodeNotFound, context, err)
	case isUniqueViolation(err):
		return newError(CodeConflict, context, err)
	default:
		return newError(CodeUnknown, context, err)
	}
}

func isUniqueViolation(err error) bool {
	if eris.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for driver paths the gorm translator does not cover.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
