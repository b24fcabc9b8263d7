// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as duplicate entry or version mismatch.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by business rules.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrFetch indicates the remote quote set could not be retrieved.
	ErrFetch = errors.New("fetch failed")

	// ErrSubmit indicates a single quote could not be pushed to the remote source.
	ErrSubmit = errors.New("submit failed")

	// ErrFormat indicates imported data is not a JSON array of quotes.
	ErrFormat = errors.New("invalid format")

	// ErrPersistence indicates a durable write failed. In-memory state is still updated.
	ErrPersistence = errors.New("persistence failed")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string

	// Message replaces the generated text when set.
	Message string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewNotFoundErrorWithMessage creates a not found error with a user-facing message.
func NewNotFoundErrorWithMessage(entity, id, message string) error {
	return &NotFoundError{Entity: entity, ID: id, Message: message}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s conflict: %s (%s)", e.Entity, e.Reason, e.Details)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewConflictErrorWithDetails creates a conflict error with additional details.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
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

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// FetchError reports a failed retrieval of the remote quote set.
type FetchError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching quotes from %s: %v", e.Source, e.Cause)
	}

	return "fetching quotes from " + e.Source
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Cause}
}

// NewFetchError creates a fetch error for the named remote source.
func NewFetchError(source string, cause error) error {
	return &FetchError{Source: source, Cause: cause}
}

// SubmitError reports a failed push of one quote to the remote source.
type SubmitError struct {
	Quote Quote
	Cause error
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("submitting quote %q (%s): %v", e.Quote.Text, e.Quote.Category, e.Cause)
	}

	return fmt.Sprintf("submitting quote %q (%s)", e.Quote.Text, e.Quote.Category)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SubmitError) Unwrap() []error {
	return []error{ErrSubmit, e.Cause}
}

// NewSubmitError creates a submit error for the given quote.
func NewSubmitError(q Quote, cause error) error {
	return &SubmitError{Quote: q, Cause: cause}
}

// FormatError reports import data that is not a JSON array of quote objects.
type FormatError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid format: %s: %v", e.Reason, e.Cause)
	}

	return "invalid format: " + e.Reason
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Cause}
}

// NewFormatError creates a format error with a reason.
func NewFormatError(reason string, cause error) error {
	return &FormatError{Reason: reason, Cause: cause}
}

// PersistenceError reports a failed durable write of a storage key.
type PersistenceError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %q: %v", e.Key, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Cause}
}

// NewPersistenceError creates a persistence error for the given key.
func NewPersistenceError(key string, cause error) error {
	return &PersistenceError{Key: key, Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsFetch checks if an error is a fetch error.
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsSubmit checks if an error is a submit error.
func IsSubmit(err error) bool {
	return errors.Is(err, ErrSubmit)
}

// IsFormat checks if an error is a format error.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsPersistence checks if an error is a persistence error.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
