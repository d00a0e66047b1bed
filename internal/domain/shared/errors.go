package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context. The HTTP layer maps each code
// to exactly one status.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeStateConfl  = "STATE_CONFLICT"
	CodeConcurrency = "CONCURRENCY_CONFLICT"
	CodeNotFound    = "NOT_FOUND"
	CodeStorage     = "STORAGE_ERROR"
	CodeIntegrity   = "DATA_INTEGRITY"
	CodeForbidden   = "FORBIDDEN"
	CodeUnauthorize = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code, so sentinel comparisons
// keep working for errors built with a custom message. A lost version race
// is a kind of state conflict: CONCURRENCY_CONFLICT errors also match
// ErrStateConflict, while keeping their own code for transport mapping.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == CodeStateConfl && e.Code == CodeConcurrency
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrStateConflict       = NewDomainError(CodeStateConfl, "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrStorage             = NewDomainError(CodeStorage, "Storage operation failed")
	ErrDataIntegrity       = NewDomainError(CodeIntegrity, "Stored data violates an integrity rule")
	ErrUnauthorized        = NewDomainError(CodeUnauthorize, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
)

// NewValidationError returns a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewStateConflictError returns a STATE_CONFLICT with a formatted message
func NewStateConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeStateConfl, fmt.Sprintf(format, args...))
}

// NewNotFoundError returns a NOT_FOUND error naming the missing resource
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

// NewForbiddenError returns a FORBIDDEN error
func NewForbiddenError(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// NewStorageError wraps a file store or renderer failure
func NewStorageError(message string, cause error) *DomainError {
	return WrapDomainError(CodeStorage, message, cause)
}

// NewDataIntegrityError reports persisted state that no valid sequence of
// operations could have produced.
func NewDataIntegrityError(format string, args ...any) *DomainError {
	return NewDomainError(CodeIntegrity, fmt.Sprintf(format, args...))
}

// ErrorCode extracts the domain error code, or "" if err is not a DomainError
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
