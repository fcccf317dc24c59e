package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportTypes lists the reports that may be scheduled
var ReportTypes = []string{"budget", "compliance", "performance", "risk"}

// Frequency is a report cadence
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// IsValid reports whether f is a known cadence
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// Schedule is an advisory record of a recurring report
type Schedule struct {
	ID         uuid.UUID      `json:"schedule_id"`
	ReportType string         `json:"report_type"`
	Frequency  Frequency      `json:"frequency"`
	Recipients []string       `json:"recipients"`
	Filters    map[string]any `json:"filters"`
	NextRun    time.Time      `json:"next_run"`
	Active     bool           `json:"active"`
	CreatedBy  string         `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ScheduleRequest creates a schedule; Recipients may be a string or a list
type ScheduleRequest struct {
	ReportType string         `json:"report_type"`
	Frequency  Frequency      `json:"frequency"`
	Recipients Recipients     `json:"recipients"`
	Filters    map[string]any `json:"filters"`
}

// ScheduleConfirmation is returned after scheduling
type ScheduleConfirmation struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	Status     string    `json:"status"`
	NextRun    time.Time `json:"next_run"`
	Recipients []string  `json:"recipients"`
}
