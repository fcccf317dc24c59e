package service

import (
	"context"
	"fmt"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var projectStatuses = []string{"Proposed", "Approved", "In Progress", "Testing", "Deployed", "Cancelled"}

type projectService struct {
	uowFactory UnitOfWorkFactory
}

// NewProjectService creates a new project service
func NewProjectService(uowFactory UnitOfWorkFactory) ProjectService {
	return &projectService{
		uowFactory: uowFactory,
	}
}

func (s *projectService) List(ctx context.Context, filter models.ProjectFilter, page models.PageRequest) ([]*models.Project, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	projects, total, err := uow.ProjectRepository().List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, models.NewPagination(page, total), nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	project, err := uow.ProjectRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, notFound("project", id)
	}
	return project, nil
}

// Create inserts a project. The owning entity is taken from the program when omitted.
func (s *projectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := required(
		[2]string{"project_code", project.Code},
		[2]string{"project_name", project.Name},
	); err != nil {
		return nil, err
	}
	if project.ProgramID == uuid.Nil {
		return nil, NewValidationError("program_id", "is required")
	}
	if project.Status == "" {
		project.Status = "Proposed"
	}
	if !oneOf(project.Status, projectStatuses) {
		return nil, NewValidationError("status", "must be one of %v", projectStatuses)
	}
	if project.CompletionPercentage < 0 || project.CompletionPercentage > 100 {
		return nil, NewValidationError("completion_percentage", "must be between 0 and 100")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	program, err := uow.ProgramRepository().GetByID(ctx, project.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	if program == nil {
		return nil, NewValidationError("program_id", "program %s does not exist", project.ProgramID)
	}
	if project.EntityID == uuid.Nil {
		project.EntityID = program.EntityID
	}

	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"projectID": project.ID,
		"programID": project.ProgramID,
	}).Info("Project created")
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Project, error) {
	fields, err := coerceUpdates(models.ProjectFields, updates)
	if err != nil {
		return nil, err
	}
	if status, ok := fields["status"].(string); ok && !oneOf(status, projectStatuses) {
		return nil, NewValidationError("status", "must be one of %v", projectStatuses)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	project, err := uow.ProjectRepository().Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if project == nil {
		return nil, notFound("project", id)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.ProjectRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		return notFound("project", id)
	}
	return uow.Commit()
}
