package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a deliverable within a program
type Project struct {
	ID                   uuid.UUID  `json:"project_id"`
	Code                 string     `json:"project_code"`
	Name                 string     `json:"project_name"`
	ProgramID            uuid.UUID  `json:"program_id"`
	EntityID             uuid.UUID  `json:"entity_id"`
	Description          *string    `json:"description"`
	Status               string     `json:"status"`
	StartDate            *Date      `json:"start_date"`
	EndDate              *Date      `json:"end_date"`
	ActualEndDate        *Date      `json:"actual_end_date"`
	AllocatedBudget      float64    `json:"allocated_budget"`
	SpentBudget          float64    `json:"spent_budget"`
	CompletionPercentage int        `json:"completion_percentage"`
	Manager              *uuid.UUID `json:"project_manager"`
	VendorName           *string    `json:"vendor_name"`
	TotalMilestones      int        `json:"total_milestones"`
	CompletedMilestones  int        `json:"completed_milestones"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ProjectFilter narrows project listings
type ProjectFilter struct {
	ProgramID *uuid.UUID
	Status    string
}
