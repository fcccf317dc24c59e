package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `project_id, project_code, project_name, program_id, entity_id, description, status,
	start_date, end_date, actual_end_date, allocated_budget, spent_budget, completion_percentage,
	project_manager, vendor_name, total_milestones, completed_milestones, created_at, updated_at`

// ProjectRepository implements the ProjectRepository interface
type ProjectRepository struct {
	q queryable
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{q: db.Pool}
}

// newProjectRepositoryWithTx creates a new project repository with a transaction
func newProjectRepositoryWithTx(tx queryable) *ProjectRepository {
	return &ProjectRepository{q: tx}
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.ProgramID,
		&p.EntityID,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.ActualEndDate,
		&p.AllocatedBudget,
		&p.SpentBudget,
		&p.CompletionPercentage,
		&p.Manager,
		&p.VendorName,
		&p.TotalMilestones,
		&p.CompletedMilestones,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns one page of projects, newest first
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter, page models.PageRequest) ([]*models.Project, int, error) {
	where := sq.And{}
	if filter.ProgramID != nil {
		where = append(where, sq.Eq{"program_id": *filter.ProgramID})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_projects").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	projects, err := queryList(ctx, r.q, psql.Select(projectColumns).
		From("dga_projects").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanProject)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// ListByProgram returns the projects of a program
func (r *ProjectRepository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]*models.Project, error) {
	projects, err := queryList(ctx, r.q, psql.Select(projectColumns).
		From("dga_projects").
		Where(sq.Eq{"program_id": programID}).
		OrderBy("start_date"), scanProject)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for program %s: %w", programID, err)
	}
	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM dga_projects WHERE project_id = $1`

	project, err := scanProject(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return project, nil
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO dga_projects (
			project_code, project_name, program_id, entity_id, description, status, start_date,
			end_date, allocated_budget, spent_budget, completion_percentage, project_manager,
			vendor_name, total_milestones, completed_milestones
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + projectColumns

	created, err := scanProject(r.q.QueryRow(ctx, query,
		project.Code,
		project.Name,
		project.ProgramID,
		project.EntityID,
		project.Description,
		project.Status,
		project.StartDate,
		project.EndDate,
		project.AllocatedBudget,
		project.SpentBudget,
		project.CompletionPercentage,
		project.Manager,
		project.VendorName,
		project.TotalMilestones,
		project.CompletedMilestones,
	))
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", project.Code, err)
	}

	*project = *created
	return nil
}

// Update applies whitelisted column changes
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Project, error) {
	project, err := updateReturning(ctx, r.q, "dga_projects", "project_id", id, fields, projectColumns, scanProject)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return project, nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := deleteByID(ctx, r.q, "dga_projects", "project_id", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return deleted, nil
}
