package models

import (
	"time"

	"github.com/google/uuid"
)

// KPIReport is a reported key performance indicator for a period
type KPIReport struct {
	ID                   uuid.UUID  `json:"kpi_id"`
	EntityID             uuid.UUID  `json:"entity_id"`
	ProgramID            *uuid.UUID `json:"program_id"`
	Name                 string     `json:"kpi_name"`
	Category             string     `json:"kpi_category"`
	TargetValue          float64    `json:"target_value"`
	ActualValue          float64    `json:"actual_value"`
	Unit                 *string    `json:"unit"`
	ReportingPeriodStart Date       `json:"reporting_period_start"`
	ReportingPeriodEnd   Date       `json:"reporting_period_end"`
	Status               string     `json:"status"`
	Comments             *string    `json:"comments"`
	CreatedAt            time.Time  `json:"created_at"`

	EntityName string `json:"entity_name,omitempty"`
}
