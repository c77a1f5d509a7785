// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrNoSession        = errors.New("no session stored")
	ErrEmptySelection   = errors.New("no symbols selected")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrJournalClosed    = errors.New("journal is closed")
)

// Kind classifies an API failure. The gateway assigns exactly one kind
// to every failed call.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized" // HTTP 401; evicts the session upstream
	KindNotFound     Kind = "not_found"    // HTTP 404
	KindValidation   Kind = "validation"   // other 4xx with a structured message
	KindServerError  Kind = "server_error" // 5xx
	KindNetworkError Kind = "network"      // no response reached the client
)

// APIError represents a classified failure from the remote service.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error [%s] status %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error [%s]: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(kind Kind, statusCode int, message string, err error) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// IsUnauthorized reports whether err carries a 401 classification.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindUnauthorized
	}
	return false
}

// IsNotFound reports whether err carries a 404 classification.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindNotFound
	}
	return false
}

// IsValidation reports whether err is a rejected-input classification,
// either from the remote service or from local form validation.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindValidation
	}
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// ValidationError represents a local form-validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ViewError represents a failed view aggregation. It names the read
// that failed so the page-level message can say which call broke.
type ViewError struct {
	View string
	Read string
	Err  error
}

func (e *ViewError) Error() string {
	return fmt.Sprintf("view error [%s] %s: %v", e.View, e.Read, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// NewViewError creates a new ViewError.
func NewViewError(view, read string, err error) *ViewError {
	return &ViewError{
		View: view,
		Read: read,
		Err:  err,
	}
}

// JournalError represents a local activity-journal failure.
type JournalError struct {
	Operation string
	Err       error
}

func (e *JournalError) Error() string {
	return fmt.Sprintf("journal error [%s]: %v", e.Operation, e.Err)
}

func (e *JournalError) Unwrap() error {
	return e.Err
}

// NewJournalError creates a new JournalError.
func NewJournalError(operation string, err error) *JournalError {
	return &JournalError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
