package testutil

import (
	"fmt"
	"time"

	"oversight/models"

	"github.com/google/uuid"
)

// CreateTestEntity creates an unsaved entity with default values
func CreateTestEntity(code, region string) *models.Entity {
	return &models.Entity{
		Code:         code,
		NameEN:       "Entity " + code,
		NameAR:       "جهة " + code,
		Type:         "Ministry",
		Region:       region,
		Sector:       "Technology",
		LocationCity: "Riyadh",
		Status:       "Active",
	}
}

// CreateTestProgram creates an unsaved In Progress program for entityID
func CreateTestProgram(entityID uuid.UUID, code string, start time.Time, progress int) *models.Program {
	return &models.Program{
		Code:               code,
		Name:               "Program " + code,
		EntityID:           entityID,
		Type:               "Digital Transformation",
		Status:             models.ProgramStatusInProgress,
		StartDate:          models.NewDate(start),
		AllocatedBudget:    1000000,
		SpentBudget:        250000,
		ProgressPercentage: progress,
		Priority:           models.PriorityMedium,
	}
}

// CreateTestProject creates an unsaved project under program
func CreateTestProject(program *models.Program, code string) *models.Project {
	return &models.Project{
		Code:            code,
		Name:            "Project " + code,
		ProgramID:       program.ID,
		EntityID:        program.EntityID,
		Status:          "Proposed",
		AllocatedBudget: 100000,
	}
}

// CreateTestBudget creates an unsaved budget record
func CreateTestBudget(entityID uuid.UUID, year int, allocated, spent float64) *models.Budget {
	return &models.Budget{
		EntityID:        entityID,
		FiscalYear:      year,
		Category:        "Operations",
		AllocatedAmount: allocated,
		SpentAmount:     spent,
		RemainingAmount: allocated - spent,
	}
}

// CreateTestUser creates an unsaved account with the given role
func CreateTestUser(email string, role models.Role) *models.User {
	username := fmt.Sprintf("user_%s", uuid.NewString()[:8])
	return &models.User{
		Username:     &username,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
}

// CreateTestWorkflow creates an unsaved two-level workflow
func CreateTestWorkflow(itemID uuid.UUID, initiator string) *models.Workflow {
	return &models.Workflow{
		ItemType:     "program",
		ItemID:       itemID,
		InitiatorID:  initiator,
		Status:       models.WorkflowStatusPending,
		CurrentLevel: 1,
		TotalLevels:  2,
		ApprovalLevels: []models.ApprovalLevel{
			{Name: "manager", Approvers: []string{"approver-1"}},
			{Name: "director", Approvers: []string{"approver-2"}},
		},
		EstimatedCompletion: time.Now().Add(4 * 24 * time.Hour),
	}
}
