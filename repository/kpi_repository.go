package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"
)

// KPIRepository implements the KPIRepository interface
type KPIRepository struct {
	q queryable
}

// NewKPIRepository creates a new KPI repository
func NewKPIRepository(db *database.DB) *KPIRepository {
	return &KPIRepository{q: db.Pool}
}

func newKPIRepositoryWithTx(tx queryable) *KPIRepository {
	return &KPIRepository{q: tx}
}

// Latest returns the most recent reports by period end, joined with their entity name
func (r *KPIRepository) Latest(ctx context.Context, limit int) ([]*models.KPIReport, error) {
	builder := psql.Select(
		"k.kpi_id", "k.entity_id", "k.program_id", "k.kpi_name", "k.kpi_category",
		"k.target_value::float8", "k.actual_value::float8", "k.unit",
		"k.reporting_period_start", "k.reporting_period_end", "k.status", "k.comments",
		"k.created_at", "e.entity_name_en",
	).
		From("dga_kpi_reports k").
		Join("dga_entities e ON e.entity_id = k.entity_id").
		OrderBy("k.reporting_period_end DESC", "k.created_at DESC").
		Limit(uint64(limit))

	reports, err := queryList(ctx, r.q, builder, func(row scanner) (*models.KPIReport, error) {
		var k models.KPIReport
		err := row.Scan(
			&k.ID,
			&k.EntityID,
			&k.ProgramID,
			&k.Name,
			&k.Category,
			&k.TargetValue,
			&k.ActualValue,
			&k.Unit,
			&k.ReportingPeriodStart,
			&k.ReportingPeriodEnd,
			&k.Status,
			&k.Comments,
			&k.CreatedAt,
			&k.EntityName,
		)
		if err != nil {
			return nil, err
		}
		return &k, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list latest KPI reports: %w", err)
	}
	return reports, nil
}
