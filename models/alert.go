package models

import "github.com/google/uuid"

// Alert types
const (
	AlertTypeBudgetOverrun          = "budget_overrun"
	AlertTypeBudgetUnderutilization = "budget_underutilization"
)

// Severity levels shared by alerts and risks
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// BudgetAlert is derived from a budget record and never persisted
type BudgetAlert struct {
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	BudgetID   uuid.UUID `json:"budget_id"`
	EntityID   uuid.UUID `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	Region     string    `json:"region"`
	Message    string    `json:"message"`
	Allocated  float64   `json:"allocated"`
	Spent      float64   `json:"spent"`
	Remaining  float64   `json:"remaining"`
}

// AlertReport is the output of one scan
type AlertReport struct {
	TotalAlerts int            `json:"total_alerts"`
	Critical    int            `json:"critical"`
	Warnings    int            `json:"warnings"`
	Info        int            `json:"info"`
	Alerts      []*BudgetAlert `json:"alerts"`
}
