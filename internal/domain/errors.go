// Package domain contains the blog's core types and errors.
// Domain errors describe content-level failures, not HTTP errors. Adapters
// map them to transport responses.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested post (or other entity) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a request or document failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrMalformed indicates a source document could not be processed.
	ErrMalformed = errors.New("malformed content")

	// ErrUnavailable indicates the content collection is not ready to serve.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	Key    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// NewPostNotFoundError is shorthand for a missing post slug.
func NewPostNotFoundError(slug string) error {
	return &NotFoundError{Entity: "post", Key: slug}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// MalformedError records which file failed and at which pipeline stage.
type MalformedError struct {
	File  string
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: malformed at %s", e.File, e.Stage)
	}

	return fmt.Sprintf("%s: %s: %v", e.File, e.Stage, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}

	return []error{ErrMalformed, e.Err}
}

// NewMalformedError wraps a processing failure for a single source file.
func NewMalformedError(file, stage string, err error) error {
	return &MalformedError{File: file, Stage: stage, Err: err}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s unavailable: %s", e.Service, e.Reason)
	}

	return e.Service + " unavailable"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMalformed checks if an error came from an unprocessable document.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
