package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-15","end":"2024-06-30T10:00:00Z"}`), &payload))

	assert.Equal(t, "2024-01-15", payload.Start.String())
	require.NotNil(t, payload.End)
	assert.Equal(t, "2024-06-30", payload.End.String())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-01-15","end":"2024-06-30"}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"15/01/2024"}`), &payload))
}

func TestDate_PgType(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 29, 17, 45, 0, 0, time.UTC))

	v, err := d.DateValue()
	require.NoError(t, err)
	assert.True(t, v.Valid)

	var scanned Date
	require.NoError(t, scanned.ScanDate(v))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.ScanDate(pgtype.Date{}))
	assert.True(t, scanned.IsZero())

	zero, err := Date{}.DateValue()
	require.NoError(t, err)
	assert.False(t, zero.Valid)
}
