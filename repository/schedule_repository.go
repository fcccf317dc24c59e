package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const scheduleColumns = `schedule_id, report_type, frequency, recipients, filters, next_run, active, created_by,
	created_at, updated_at`

// ScheduleRepository implements the ScheduleRepository interface
type ScheduleRepository struct {
	q queryable
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{q: db.Pool}
}

func newScheduleRepositoryWithTx(tx queryable) *ScheduleRepository {
	return &ScheduleRepository{q: tx}
}

func scanSchedule(row scanner) (*models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(
		&s.ID,
		&s.ReportType,
		&s.Frequency,
		&s.Recipients,
		&s.Filters,
		&s.NextRun,
		&s.Active,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a schedule
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	filters := schedule.Filters
	if filters == nil {
		filters = map[string]any{}
	}

	query := `
		INSERT INTO dga_report_schedules (report_type, frequency, recipients, filters, next_run, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + scheduleColumns

	created, err := scanSchedule(r.q.QueryRow(ctx, query,
		schedule.ReportType,
		schedule.Frequency,
		schedule.Recipients,
		filters,
		schedule.NextRun,
		schedule.CreatedBy,
	))
	if err != nil {
		return fmt.Errorf("failed to create %s schedule: %w", schedule.ReportType, err)
	}

	*schedule = *created
	return nil
}

// List returns schedules ordered by next run
func (r *ScheduleRepository) List(ctx context.Context, activeOnly bool) ([]*models.Schedule, error) {
	builder := psql.Select(scheduleColumns).From("dga_report_schedules").OrderBy("next_run")
	if activeOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}

	schedules, err := queryList(ctx, r.q, builder, scanSchedule)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// Deactivate marks a schedule inactive
func (r *ScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.q.Exec(ctx,
		`UPDATE dga_report_schedules SET active = FALSE, updated_at = NOW() WHERE schedule_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate schedule %s: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}
