package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgramStatus is the lifecycle state of a program
type ProgramStatus string

const (
	ProgramStatusPlanning   ProgramStatus = "Planning"
	ProgramStatusInProgress ProgramStatus = "In Progress"
	ProgramStatusOnHold     ProgramStatus = "On Hold"
	ProgramStatusCompleted  ProgramStatus = "Completed"
	ProgramStatusCancelled  ProgramStatus = "Cancelled"
	ProgramStatusDelayed    ProgramStatus = "Delayed"
)

// Program priorities
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// Program is a funded initiative owned by an entity
type Program struct {
	ID                 uuid.UUID     `json:"program_id"`
	Code               string        `json:"program_code"`
	Name               string        `json:"program_name"`
	EntityID           uuid.UUID     `json:"entity_id"`
	Description        *string       `json:"description"`
	Type               string        `json:"program_type"`
	Status             ProgramStatus `json:"status"`
	StartDate          Date          `json:"start_date"`
	EndDate            *Date         `json:"end_date"`
	CompletionDate     *time.Time    `json:"completion_date"`
	AllocatedBudget    float64       `json:"allocated_budget"`
	SpentBudget        float64       `json:"spent_budget"`
	ProgressPercentage int           `json:"progress_percentage"`
	Director           *uuid.UUID    `json:"program_director"`
	TotalProjects      int           `json:"total_projects"`
	Priority           string        `json:"priority"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Populated by joined listings
	EntityName   string `json:"entity_name,omitempty"`
	EntityRegion string `json:"region,omitempty"`
}

// ProgramFilter narrows program listings
type ProgramFilter struct {
	EntityID *uuid.UUID
	Status   string
	Region   string
}

// ProgramDetail is a program with its projects
type ProgramDetail struct {
	*Program
	Projects []*Project `json:"projects"`
}

// ProgramStatusChange is one entry of the automated status-update log
type ProgramStatusChange struct {
	ID        uuid.UUID     `json:"history_id"`
	ProgramID uuid.UUID     `json:"program_id"`
	OldStatus ProgramStatus `json:"old_status"`
	NewStatus ProgramStatus `json:"new_status"`
	Reason    string        `json:"reason"`
	ChangedAt time.Time     `json:"changed_at"`
}

// StatusUpdateResult summarizes one auto-update pass
type StatusUpdateResult struct {
	UpdatedCount int                    `json:"updated_count"`
	Updates      []*ProgramStatusChange `json:"updates"`
}
