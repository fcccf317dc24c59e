package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// FieldKind is the column type a partial-update value is coerced to
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldNumeric
	FieldDate
	FieldUUID
	FieldBool
)

// FieldSpec whitelists the updatable columns of a table
type FieldSpec map[string]FieldKind

// FieldError reports a rejected partial-update value
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Columns returns the whitelisted column names in sorted order
func (s FieldSpec) Columns() []string {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Coerce checks every key against the whitelist and converts decoded JSON values
// to the column's Go type. Nil values are passed through as SQL NULL.
func (s FieldSpec) Coerce(updates map[string]any) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, &FieldError{Field: "updates", Message: "no fields to update"}
	}

	out := make(map[string]any, len(updates))
	for field, raw := range updates {
		kind, ok := s[field]
		if !ok {
			return nil, &FieldError{Field: field, Message: "field cannot be updated"}
		}
		if raw == nil {
			out[field] = nil
			continue
		}
		value, err := coerceValue(kind, raw)
		if err != nil {
			return nil, &FieldError{Field: field, Message: err.Error()}
		}
		out[field] = value
	}
	return out, nil
}

func coerceValue(kind FieldKind, raw any) (any, error) {
	switch kind {
	case FieldText:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return v, nil
	case FieldInt:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("must be a whole number")
		}
		return int64(f), nil
	case FieldNumeric:
		return toFloat(raw)
	case FieldDate:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a date string")
		}
		return ParseDate(v)
	case FieldUUID:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a UUID string")
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("must be a valid UUID")
		}
		return id, nil
	case FieldBool:
		v, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a boolean")
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported field kind %d", kind)
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		return f, nil
	}
	return 0, fmt.Errorf("must be a number")
}

// Updatable columns per resource
var (
	EntityFields = FieldSpec{
		"entity_code":            FieldText,
		"entity_name_en":         FieldText,
		"entity_name_ar":         FieldText,
		"entity_type":            FieldText,
		"region":                 FieldText,
		"sector":                 FieldText,
		"location_city":          FieldText,
		"contact_email":          FieldText,
		"contact_phone":          FieldText,
		"description":            FieldText,
		"status":                 FieldText,
		"total_programs":         FieldInt,
		"active_programs":        FieldInt,
		"total_budget":           FieldNumeric,
		"digital_maturity_score": FieldNumeric,
	}

	ProgramFields = FieldSpec{
		"program_code":        FieldText,
		"program_name":        FieldText,
		"entity_id":           FieldUUID,
		"description":         FieldText,
		"program_type":        FieldText,
		"status":              FieldText,
		"start_date":          FieldDate,
		"end_date":            FieldDate,
		"allocated_budget":    FieldNumeric,
		"spent_budget":        FieldNumeric,
		"progress_percentage": FieldInt,
		"program_director":    FieldUUID,
		"total_projects":      FieldInt,
		"priority":            FieldText,
	}

	ProjectFields = FieldSpec{
		"project_code":          FieldText,
		"project_name":          FieldText,
		"program_id":            FieldUUID,
		"entity_id":             FieldUUID,
		"description":           FieldText,
		"status":                FieldText,
		"start_date":            FieldDate,
		"end_date":              FieldDate,
		"actual_end_date":       FieldDate,
		"allocated_budget":      FieldNumeric,
		"spent_budget":          FieldNumeric,
		"completion_percentage": FieldInt,
		"project_manager":       FieldUUID,
		"vendor_name":           FieldText,
		"total_milestones":      FieldInt,
		"completed_milestones":  FieldInt,
	}

	BudgetFields = FieldSpec{
		"program_id":       FieldUUID,
		"project_id":       FieldUUID,
		"fiscal_year":      FieldInt,
		"quarter":          FieldText,
		"budget_category":  FieldText,
		"allocated_amount": FieldNumeric,
		"spent_amount":     FieldNumeric,
		"committed_amount": FieldNumeric,
		"remaining_amount": FieldNumeric,
		"notes":            FieldText,
	}

	TicketFields = FieldSpec{
		"assigned_to": FieldUUID,
		"subject":     FieldText,
		"description": FieldText,
		"category":    FieldText,
		"priority":    FieldText,
		"status":      FieldText,
		"resolution":  FieldText,
	}
)
