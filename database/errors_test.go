package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantOK   bool
	}{
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), CodeUniqueViolation, true},
		{"check violation", &pgconn.PgError{Code: "23514"}, CodeCheckViolation, true},
		{"other sqlstate", &pgconn.PgError{Code: "42P01"}, "", false},
		{"plain error", errors.New("boom"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ConstraintCode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestConstraintMessage(t *testing.T) {
	assert.Equal(t, "Duplicate entry. Record already exists.", ConstraintMessage(CodeUniqueViolation))
	assert.Equal(t, "Invalid reference. Related record not found.", ConstraintMessage(CodeForeignKeyViolation))
	assert.Equal(t, "Missing required field.", ConstraintMessage(CodeNotNullViolation))
	assert.Equal(t, "Value violates a field constraint.", ConstraintMessage(CodeCheckViolation))
	assert.Equal(t, "Invalid data.", ConstraintMessage("99999"))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(errors.New("boom")))
	assert.False(t, IsTimeout(nil))
}
