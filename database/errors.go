package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes surfaced to API clients as bad requests
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeCheckViolation      = "23514"
)

// ConstraintCode returns the SQLSTATE of a constraint violation wrapped in err
func ConstraintCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case CodeUniqueViolation, CodeForeignKeyViolation, CodeNotNullViolation, CodeCheckViolation:
		return pgErr.Code, true
	}
	return "", false
}

var constraintMessages = map[string]string{
	CodeUniqueViolation:     "Duplicate entry. Record already exists.",
	CodeForeignKeyViolation: "Invalid reference. Related record not found.",
	CodeNotNullViolation:    "Missing required field.",
	CodeCheckViolation:      "Value violates a field constraint.",
}

// ConstraintMessage is the client-facing text for a constraint SQLSTATE
func ConstraintMessage(code string) string {
	if msg, ok := constraintMessages[code]; ok {
		return msg
	}
	return "Invalid data."
}

// IsTimeout reports whether err came from an expired context or a driver-level timeout
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}
