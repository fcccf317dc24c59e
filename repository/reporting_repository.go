package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"
)

// ReportingRepository runs the cross-table aggregates behind dashboards and benchmarks
type ReportingRepository struct {
	q queryable
}

// NewReportingRepository creates a new reporting repository
func NewReportingRepository(db *database.DB) *ReportingRepository {
	return &ReportingRepository{q: db.Pool}
}

func newReportingRepositoryWithTx(tx queryable) *ReportingRepository {
	return &ReportingRepository{q: tx}
}

// OverviewTotals counts entities and programs and sums program budgets
func (r *ReportingRepository) OverviewTotals(ctx context.Context) (*models.OverviewTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM dga_entities),
			(SELECT COUNT(*) FROM dga_entities WHERE status = 'Active'),
			(SELECT COUNT(*) FROM dga_programs),
			(SELECT COUNT(*) FROM dga_programs WHERE status = 'In Progress'),
			(SELECT COALESCE(SUM(allocated_budget), 0)::float8 FROM dga_programs),
			(SELECT COALESCE(SUM(spent_budget), 0)::float8 FROM dga_programs),
			(SELECT COALESCE(AVG(digital_maturity_score), 0)::float8 FROM dga_entities)
	`

	var t models.OverviewTotals
	err := r.q.QueryRow(ctx, query).Scan(
		&t.TotalEntities,
		&t.ActiveEntities,
		&t.TotalPrograms,
		&t.ActivePrograms,
		&t.TotalAllocated,
		&t.TotalSpent,
		&t.AvgMaturity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview totals: %w", err)
	}
	return &t, nil
}

const regionSummarySelect = `
	SELECT
		e.region,
		COUNT(DISTINCT e.entity_id),
		COUNT(p.program_id),
		COALESCE(SUM(p.allocated_budget), 0)::float8,
		COALESCE((SELECT AVG(digital_maturity_score) FROM dga_entities x WHERE x.region = e.region), 0)::float8
	FROM dga_entities e
	LEFT JOIN dga_programs p ON p.entity_id = e.entity_id
`

func scanRegionSummary(row scanner) (*models.RegionSummary, error) {
	var s models.RegionSummary
	if err := row.Scan(&s.Region, &s.EntityCount, &s.ProgramCount, &s.TotalBudget, &s.AvgMaturity); err != nil {
		return nil, err
	}
	return &s, nil
}

// RegionSummaries aggregates every region that has entities, largest budget first
func (r *ReportingRepository) RegionSummaries(ctx context.Context) ([]*models.RegionSummary, error) {
	query := regionSummarySelect + ` GROUP BY e.region ORDER BY SUM(p.allocated_budget) DESC NULLS LAST`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize regions: %w", err)
	}
	defer rows.Close()

	summaries := []*models.RegionSummary{}
	for rows.Next() {
		s, err := scanRegionSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan region summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// RegionSummary aggregates a single region; a region without entities yields zeroes
func (r *ReportingRepository) RegionSummary(ctx context.Context, region string) (*models.RegionSummary, error) {
	query := regionSummarySelect + ` WHERE e.region = $1 GROUP BY e.region`

	rows, err := r.q.Query(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize region %s: %w", region, err)
	}
	defer rows.Close()

	summary := &models.RegionSummary{Region: region}
	if rows.Next() {
		if summary, err = scanRegionSummary(rows); err != nil {
			return nil, fmt.Errorf("failed to scan region summary: %w", err)
		}
	}
	return summary, rows.Err()
}

// RegionBenchmark aggregates maturity, program and budget figures for one region
func (r *ReportingRepository) RegionBenchmark(ctx context.Context, region string) (*models.RegionBenchmark, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM dga_entities WHERE region = $1),
			(SELECT COALESCE(AVG(digital_maturity_score), 0)::float8 FROM dga_entities WHERE region = $1),
			(SELECT COUNT(*) FROM dga_programs p JOIN dga_entities e ON e.entity_id = p.entity_id WHERE e.region = $1),
			(SELECT COALESCE(AVG(p.progress_percentage), 0)::float8 FROM dga_programs p
				JOIN dga_entities e ON e.entity_id = p.entity_id WHERE e.region = $1),
			(SELECT COALESCE(SUM(b.allocated_amount), 0)::float8 FROM dga_budget b
				JOIN dga_entities e ON e.entity_id = b.entity_id WHERE e.region = $1),
			(SELECT COALESCE(SUM(b.spent_amount), 0)::float8 FROM dga_budget b
				JOIN dga_entities e ON e.entity_id = b.entity_id WHERE e.region = $1)
	`

	b := &models.RegionBenchmark{Region: region}
	err := r.q.QueryRow(ctx, query, region).Scan(
		&b.Entities,
		&b.AvgMaturity,
		&b.TotalPrograms,
		&b.AvgProgramProgress,
		&b.BudgetAllocated,
		&b.BudgetSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to benchmark region %s: %w", region, err)
	}
	return b, nil
}
