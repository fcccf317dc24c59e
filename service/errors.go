package service

import (
	"errors"
	"fmt"
	"strings"

	"oversight/database"
)

// Sentinel errors the transport layer maps to HTTP statuses
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflicting state")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrUnauthorized       = errors.New("authentication required")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// ValidationError reports a rejected request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidCredentialsError is returned for a failed login while the account is not yet locked
type InvalidCredentialsError struct {
	AttemptsRemaining int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.AttemptsRemaining)
}

// AccountLockedError is returned while a login lockout is active
type AccountLockedError struct {
	RemainingMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes)
}

// NotFoundError names the missing resource. errors.Is(err, ErrNotFound) holds for it.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Resource, e.ID, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(what string, id any) error {
	return &NotFoundError{Resource: what, ID: id}
}

// conflict wraps ErrConflict with a reason
func conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// forbidden wraps ErrForbidden with a reason
func forbidden(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrForbidden)
}

// clientMessage reduces err to text that is safe to return to API callers. Driver and
// internal failures collapse to fallback; the full error belongs in the log.
func clientMessage(err error, fallback string) string {
	var validation *ValidationError
	var missing *NotFoundError
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &missing):
		return capitalize(missing.Resource) + " not found"
	case errors.Is(err, ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrConflict):
		return err.Error()
	case errors.Is(err, ErrServiceUnavailable), database.IsTimeout(err):
		return "Service temporarily unavailable"
	}
	if code, ok := database.ConstraintCode(err); ok {
		return database.ConstraintMessage(code)
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
