package service

import (
	"context"
	"fmt"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	programStatuses = []string{
		string(models.ProgramStatusPlanning), string(models.ProgramStatusInProgress), string(models.ProgramStatusOnHold),
		string(models.ProgramStatusCompleted), string(models.ProgramStatusCancelled), string(models.ProgramStatusDelayed),
	}
	priorities = []string{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow}
)

type programService struct {
	uowFactory UnitOfWorkFactory
}

// NewProgramService creates a new program service
func NewProgramService(uowFactory UnitOfWorkFactory) ProgramService {
	return &programService{
		uowFactory: uowFactory,
	}
}

func (s *programService) List(ctx context.Context, filter models.ProgramFilter, page models.PageRequest) ([]*models.Program, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	programs, total, err := uow.ProgramRepository().List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, models.NewPagination(page, total), nil
}

func (s *programService) Get(ctx context.Context, id uuid.UUID) (*models.ProgramDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	program, err := uow.ProgramRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil {
		return nil, notFound("program", id)
	}

	projects, err := uow.ProjectRepository().ListByProgram(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get program projects: %w", err)
	}
	return &models.ProgramDetail{Program: program, Projects: projects}, nil
}

func (s *programService) Create(ctx context.Context, program *models.Program) (*models.Program, error) {
	if err := required(
		[2]string{"program_code", program.Code},
		[2]string{"program_name", program.Name},
		[2]string{"program_type", program.Type},
	); err != nil {
		return nil, err
	}
	if program.EntityID == uuid.Nil {
		return nil, NewValidationError("entity_id", "is required")
	}
	if program.StartDate.IsZero() {
		return nil, NewValidationError("start_date", "is required")
	}
	if program.Status == "" {
		program.Status = models.ProgramStatusPlanning
	}
	if !oneOf(string(program.Status), programStatuses) {
		return nil, NewValidationError("status", "must be one of %v", programStatuses)
	}
	if program.Priority == "" {
		program.Priority = models.PriorityMedium
	}
	if !oneOf(program.Priority, priorities) {
		return nil, NewValidationError("priority", "must be one of %v", priorities)
	}
	if program.ProgressPercentage < 0 || program.ProgressPercentage > 100 {
		return nil, NewValidationError("progress_percentage", "must be between 0 and 100")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ProgramRepository().Create(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"programID":   program.ID,
		"programCode": program.Code,
		"entityID":    program.EntityID,
	}).Info("Program created")
	return program, nil
}

func (s *programService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Program, error) {
	fields, err := coerceUpdates(models.ProgramFields, updates)
	if err != nil {
		return nil, err
	}
	if status, ok := fields["status"].(string); ok && !oneOf(status, programStatuses) {
		return nil, NewValidationError("status", "must be one of %v", programStatuses)
	}
	if progress, ok := fields["progress_percentage"].(int64); ok && (progress < 0 || progress > 100) {
		return nil, NewValidationError("progress_percentage", "must be between 0 and 100")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	program, err := uow.ProgramRepository().Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	if program == nil {
		return nil, notFound("program", id)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.ProgramRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if !deleted {
		return notFound("program", id)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("programID", id).Info("Program deleted")
	return nil
}
