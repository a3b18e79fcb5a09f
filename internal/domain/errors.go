package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below unwraps to exactly one of these so
// callers can branch with errors.Is without caring about the concrete type.
var (
	// ErrNotFound is returned when the requested resource does not exist, or
	// exists but is hidden from the caller by ownership rules.
	// Handlers should map this to HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when input fails business rule validation
	// (e.g. missing required field, return date before departure date).
	// Handlers should map this to HTTP 422 Unprocessable Entity.
	ErrValidation = errors.New("validation error")

	// ErrForbidden is returned when the actor is authenticated but lacks the
	// capability required by the operation. Handlers map this to HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when the status state machine rejects
	// a transition. Handlers map this to HTTP 422.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthenticated is returned for bad credentials or unusable tokens.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")

	// ErrStorage marks infrastructure failures from the persistence layer.
	ErrStorage = errors.New("storage error")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason Reason
}

// Reason is a machine-readable validation failure cause.
type Reason string

const (
	ReasonRequired      Reason = "required"
	ReasonTooLong       Reason = "too_long"
	ReasonTooShort      Reason = "too_short"
	ReasonInvalid       Reason = "invalid"
	ReasonInvalidDates  Reason = "invalid_dates"
	ReasonMismatch      Reason = "mismatch"
	ReasonUnknownStatus Reason = "unknown_status"
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{Field, Reason}.
func NewValidationError(field string, reason Reason) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a missing (or hidden) resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ForbiddenError reports an action the actor is not allowed to perform.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrForbidden, e.Action)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// InvalidTransitionError carries the status the order was in when the
// transition was attempted, so the boundary can explain the rejection.
type InvalidTransitionError struct {
	Current Status
	Target  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.Current, e.Target)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// UnauthenticatedError reports why a caller could not be identified.
type UnauthenticatedError struct {
	Reason AuthFailure
}

// AuthFailure enumerates the ways authentication can fail.
type AuthFailure string

const (
	AuthInvalidCredentials AuthFailure = "invalid_credentials"
	AuthTokenMissing       AuthFailure = "token_missing"
	AuthTokenInvalid       AuthFailure = "token_invalid"
	AuthTokenExpired       AuthFailure = "token_expired"
	AuthTokenRevoked       AuthFailure = "token_revoked"
)

func (e *UnauthenticatedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnauthenticated, e.Reason)
}

func (e *UnauthenticatedError) Unwrap() error { return ErrUnauthenticated }

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s already exists", ErrConflict, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// StorageError wraps a failure from the database driver.
// errors.Is(err, ErrStorage) holds, and the driver error stays reachable
// through Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
