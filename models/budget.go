package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a single allocation line for an entity, program or project
type Budget struct {
	ID              uuid.UUID  `json:"budget_id"`
	EntityID        uuid.UUID  `json:"entity_id"`
	ProgramID       *uuid.UUID `json:"program_id"`
	ProjectID       *uuid.UUID `json:"project_id"`
	FiscalYear      int        `json:"fiscal_year"`
	Quarter         *string    `json:"quarter"`
	Category        string     `json:"budget_category"`
	AllocatedAmount float64    `json:"allocated_amount"`
	SpentAmount     float64    `json:"spent_amount"`
	CommittedAmount float64    `json:"committed_amount"`
	RemainingAmount float64    `json:"remaining_amount"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Populated by joined reads
	EntityName   string `json:"entity_name,omitempty"`
	EntityRegion string `json:"region,omitempty"`
}

// BudgetTotals aggregates allocated/spent/committed/remaining amounts
type BudgetTotals struct {
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`
	TotalCommitted float64 `json:"total_committed"`
	TotalRemaining float64 `json:"total_remaining"`
}

// RegionBudget is a per-region aggregate
type RegionBudget struct {
	Region         string  `json:"region"`
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`
	EntityCount    int     `json:"entity_count"`
}

// BudgetOverview backs GET /budget/overview
type BudgetOverview struct {
	Totals   BudgetTotals    `json:"totals"`
	ByRegion []*RegionBudget `json:"by_region"`
}

// EntityBudget backs GET /budget/entity/{id}
type EntityBudget struct {
	Records []*Budget    `json:"records"`
	Totals  BudgetTotals `json:"totals"`
}

// BudgetMonth is one monthly bucket of the budget trend series
type BudgetMonth struct {
	Month          time.Time `json:"month"`
	TotalAllocated float64   `json:"total_allocated"`
	TotalSpent     float64   `json:"total_spent"`
	TotalCommitted float64   `json:"total_committed"`
	RecordCount    int       `json:"record_count"`
}

// BudgetTrendFilter narrows the trend query
type BudgetTrendFilter struct {
	Start    *Date
	End      *Date
	Region   string
	EntityID *uuid.UUID
}
