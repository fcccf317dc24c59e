package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSpec_Coerce(t *testing.T) {
	id := uuid.New()

	t.Run("converts decoded JSON values", func(t *testing.T) {
		out, err := ProgramFields.Coerce(map[string]any{
			"progress_percentage": float64(45),
			"allocated_budget":    "1500000.50",
			"start_date":          "2024-03-01",
			"program_director":    id.String(),
			"description":         nil,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(45), out["progress_percentage"])
		assert.Equal(t, 1500000.50, out["allocated_budget"])
		assert.Equal(t, "2024-03-01", out["start_date"].(Date).String())
		assert.Equal(t, id, out["program_director"])
		assert.Nil(t, out["description"])
	})

	tests := []struct {
		name    string
		updates map[string]any
		field   string
	}{
		{"empty updates", map[string]any{}, "updates"},
		{"column outside whitelist", map[string]any{"program_id": id.String()}, "program_id"},
		{"fractional integer", map[string]any{"progress_percentage": 12.5}, "progress_percentage"},
		{"text given a number", map[string]any{"status": 3.0}, "status"},
		{"malformed uuid", map[string]any{"entity_id": "not-a-uuid"}, "entity_id"},
		{"malformed date", map[string]any{"end_date": "03/01/2024"}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProgramFields.Coerce(tt.updates)
			require.Error(t, err)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestBatchTables_Whitelist(t *testing.T) {
	for name, table := range BatchTables {
		assert.NotEmpty(t, table.IDColumn, name)
		assert.NotEmpty(t, table.Fields, name)
		_, exposesKey := table.Fields[table.IDColumn]
		assert.False(t, exposesKey, "%s must not allow updating its primary key", name)
	}
	_, ok := BatchTables["users"]
	assert.False(t, ok)
}
