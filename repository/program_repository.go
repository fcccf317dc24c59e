package repository

import (
	"context"
	"fmt"
	"time"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const programColumns = `p.program_id, p.program_code, p.program_name, p.entity_id, p.description, p.program_type,
	p.status, p.start_date, p.end_date, p.completion_date, p.allocated_budget, p.spent_budget,
	p.progress_percentage, p.program_director, p.total_projects, p.priority, p.created_at, p.updated_at`

// returned by INSERT/UPDATE, which cannot use the table alias
const programReturning = `program_id, program_code, program_name, entity_id, description, program_type,
	status, start_date, end_date, completion_date, allocated_budget, spent_budget,
	progress_percentage, program_director, total_projects, priority, created_at, updated_at`

// ProgramRepository implements the ProgramRepository interface
type ProgramRepository struct {
	q queryable
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *database.DB) *ProgramRepository {
	return &ProgramRepository{q: db.Pool}
}

// newProgramRepositoryWithTx creates a new program repository with a transaction
func newProgramRepositoryWithTx(tx queryable) *ProgramRepository {
	return &ProgramRepository{q: tx}
}

func programDest(p *models.Program) []any {
	return []any{
		&p.ID,
		&p.Code,
		&p.Name,
		&p.EntityID,
		&p.Description,
		&p.Type,
		&p.Status,
		&p.StartDate,
		&p.EndDate,
		&p.CompletionDate,
		&p.AllocatedBudget,
		&p.SpentBudget,
		&p.ProgressPercentage,
		&p.Director,
		&p.TotalProjects,
		&p.Priority,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanProgram(row scanner) (*models.Program, error) {
	var p models.Program
	if err := row.Scan(programDest(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProgramWithEntity(row scanner) (*models.Program, error) {
	var p models.Program
	dest := append(programDest(&p), &p.EntityName, &p.EntityRegion)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func programWhere(filter models.ProgramFilter) sq.And {
	where := sq.And{}
	if filter.EntityID != nil {
		where = append(where, sq.Eq{"p.entity_id": *filter.EntityID})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"p.status": filter.Status})
	}
	if filter.Region != "" {
		where = append(where, sq.Eq{"e.region": filter.Region})
	}
	return where
}

func selectProgramsWithEntity() sq.SelectBuilder {
	return psql.Select(programColumns, "e.entity_name_en", "e.region").
		From("dga_programs p").
		Join("dga_entities e ON e.entity_id = p.entity_id")
}

// List returns one page of programs joined with their entity, newest first
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter, page models.PageRequest) ([]*models.Program, int, error) {
	where := programWhere(filter)

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").
		From("dga_programs p").
		Join("dga_entities e ON e.entity_id = p.entity_id").
		Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	programs, err := queryList(ctx, r.q, selectProgramsWithEntity().
		Where(where).
		OrderBy("p.created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanProgramWithEntity)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, total, nil
}

// ListWithEntity returns every matching program joined with its entity
func (r *ProgramRepository) ListWithEntity(ctx context.Context, filter models.ProgramFilter) ([]*models.Program, error) {
	programs, err := queryList(ctx, r.q, selectProgramsWithEntity().
		Where(programWhere(filter)).
		OrderBy("p.program_name"), scanProgramWithEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs with entity: %w", err)
	}
	return programs, nil
}

// ListByEntity returns the programs owned by an entity
func (r *ProgramRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Program, error) {
	programs, err := queryList(ctx, r.q, psql.Select(programColumns).
		From("dga_programs p").
		Where(sq.Eq{"p.entity_id": entityID}).
		OrderBy("p.start_date DESC"), scanProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs for entity %s: %w", entityID, err)
	}
	return programs, nil
}

// ListInProgress returns programs currently In Progress
func (r *ProgramRepository) ListInProgress(ctx context.Context) ([]*models.Program, error) {
	programs, err := queryList(ctx, r.q, psql.Select(programColumns).
		From("dga_programs p").
		Where(sq.Eq{"p.status": models.ProgramStatusInProgress}).
		OrderBy("p.start_date"), scanProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to list in-progress programs: %w", err)
	}
	return programs, nil
}

// GetByID retrieves a program joined with its entity
func (r *ProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	query, args, err := selectProgramsWithEntity().Where(sq.Eq{"p.program_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build program query: %w", err)
	}

	program, err := scanProgramWithEntity(r.q.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program %s: %w", id, err)
	}
	return program, nil
}

// Create inserts a new program
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO dga_programs (
			program_code, program_name, entity_id, description, program_type, status,
			start_date, end_date, allocated_budget, spent_budget, progress_percentage,
			program_director, priority
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + programReturning

	created, err := scanProgram(r.q.QueryRow(ctx, query,
		program.Code,
		program.Name,
		program.EntityID,
		program.Description,
		program.Type,
		program.Status,
		program.StartDate,
		program.EndDate,
		program.AllocatedBudget,
		program.SpentBudget,
		program.ProgressPercentage,
		program.Director,
		program.Priority,
	))
	if err != nil {
		return fmt.Errorf("failed to create program %s: %w", program.Code, err)
	}

	*program = *created
	return nil
}

// Update applies whitelisted column changes
func (r *ProgramRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Program, error) {
	program, err := updateReturning(ctx, r.q, "dga_programs", "program_id", id, fields, programReturning, scanProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to update program %s: %w", id, err)
	}
	return program, nil
}

// Delete removes a program and its projects
func (r *ProgramRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := deleteByID(ctx, r.q, "dga_programs", "program_id", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	return deleted, nil
}

// GetStats aggregates the maturity inputs of an entity's programs
func (r *ProgramRepository) GetStats(ctx context.Context, entityID uuid.UUID) (*models.ProgramStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COALESCE(AVG(progress_percentage), 0)::float8,
			COALESCE(SUM(allocated_budget), 0)::float8,
			COALESCE(SUM(spent_budget), 0)::float8
		FROM dga_programs
		WHERE entity_id = $1
	`

	var stats models.ProgramStats
	err := r.q.QueryRow(ctx, query, entityID).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.AvgProgress,
		&stats.SumAllocated,
		&stats.SumSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get program stats for entity %s: %w", entityID, err)
	}
	return &stats, nil
}

// TransitionStatus moves a program between statuses only while it is still in from
func (r *ProgramRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.ProgramStatus, completedAt *time.Time) (bool, error) {
	query := `
		UPDATE dga_programs
		SET status = $1,
			completion_date = COALESCE($2, completion_date),
			updated_at = NOW()
		WHERE program_id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query, to, completedAt, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition program %s to %s: %w", id, to, err)
	}
	return result.RowsAffected() == 1, nil
}

// RecordStatusChange appends to the status history log
func (r *ProgramRepository) RecordStatusChange(ctx context.Context, change *models.ProgramStatusChange) error {
	query := `
		INSERT INTO dga_program_status_history (program_id, old_status, new_status, reason, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING history_id
	`

	err := r.q.QueryRow(ctx, query,
		change.ProgramID,
		change.OldStatus,
		change.NewStatus,
		change.Reason,
		change.ChangedAt,
	).Scan(&change.ID)
	if err != nil {
		return fmt.Errorf("failed to record status change for program %s: %w", change.ProgramID, err)
	}
	return nil
}
