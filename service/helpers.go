package service

import (
	"errors"
	"strings"

	"oversight/models"
)

// coerceUpdates validates a partial update against the column whitelist of a resource
func coerceUpdates(allowed models.FieldSpec, updates map[string]any) (map[string]any, error) {
	fields, err := allowed.Coerce(updates)
	if err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			return nil, &ValidationError{Field: fieldErr.Field, Message: fieldErr.Message}
		}
		return nil, err
	}
	return fields, nil
}

// required returns a validation error for the first blank field
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return NewValidationError(f[0], "is required")
		}
	}
	return nil
}

// oneOf reports whether value is in allowed
func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
