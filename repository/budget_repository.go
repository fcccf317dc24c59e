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

const budgetColumns = `b.budget_id, b.entity_id, b.program_id, b.project_id, b.fiscal_year, b.quarter,
	b.budget_category, b.allocated_amount, b.spent_amount, b.committed_amount, b.remaining_amount,
	b.notes, b.created_at, b.updated_at`

const budgetReturning = `budget_id, entity_id, program_id, project_id, fiscal_year, quarter,
	budget_category, allocated_amount, spent_amount, committed_amount, remaining_amount,
	notes, created_at, updated_at`

const budgetTotalsColumns = `
	COALESCE(SUM(b.allocated_amount), 0)::float8,
	COALESCE(SUM(b.spent_amount), 0)::float8,
	COALESCE(SUM(b.committed_amount), 0)::float8,
	COALESCE(SUM(b.remaining_amount), 0)::float8`

// BudgetRepository implements the BudgetRepository interface
type BudgetRepository struct {
	q queryable
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *database.DB) *BudgetRepository {
	return &BudgetRepository{q: db.Pool}
}

// newBudgetRepositoryWithTx creates a new budget repository with a transaction
func newBudgetRepositoryWithTx(tx queryable) *BudgetRepository {
	return &BudgetRepository{q: tx}
}

func budgetDest(b *models.Budget) []any {
	return []any{
		&b.ID,
		&b.EntityID,
		&b.ProgramID,
		&b.ProjectID,
		&b.FiscalYear,
		&b.Quarter,
		&b.Category,
		&b.AllocatedAmount,
		&b.SpentAmount,
		&b.CommittedAmount,
		&b.RemainingAmount,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	if err := row.Scan(budgetDest(&b)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBudgetWithEntity(row scanner) (*models.Budget, error) {
	var b models.Budget
	dest := append(budgetDest(&b), &b.EntityName, &b.EntityRegion)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBudgetTotals(row scanner) (*models.BudgetTotals, error) {
	var t models.BudgetTotals
	if err := row.Scan(&t.TotalAllocated, &t.TotalSpent, &t.TotalCommitted, &t.TotalRemaining); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListWithEntity returns every budget record joined with its entity name and region
func (r *BudgetRepository) ListWithEntity(ctx context.Context) ([]*models.Budget, error) {
	budgets, err := queryList(ctx, r.q, psql.Select(budgetColumns, "e.entity_name_en", "e.region").
		From("dga_budget b").
		Join("dga_entities e ON e.entity_id = b.entity_id").
		OrderBy("b.created_at"), scanBudgetWithEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget records: %w", err)
	}
	return budgets, nil
}

// ListByEntity returns an entity's budget records, newest fiscal year first
func (r *BudgetRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Budget, error) {
	budgets, err := queryList(ctx, r.q, psql.Select(budgetColumns).
		From("dga_budget b").
		Where(sq.Eq{"b.entity_id": entityID}).
		OrderBy("b.fiscal_year DESC", "b.quarter DESC NULLS LAST", "b.created_at DESC"), scanBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget records for entity %s: %w", entityID, err)
	}
	return budgets, nil
}

// GetByID retrieves a budget record by its ID
func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM dga_budget b WHERE b.budget_id = $1`

	budget, err := scanBudget(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget record %s: %w", id, err)
	}
	return budget, nil
}

// Create inserts a new budget record
func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO dga_budget (
			entity_id, program_id, project_id, fiscal_year, quarter, budget_category,
			allocated_amount, spent_amount, committed_amount, remaining_amount, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + budgetReturning

	created, err := scanBudget(r.q.QueryRow(ctx, query,
		budget.EntityID,
		budget.ProgramID,
		budget.ProjectID,
		budget.FiscalYear,
		budget.Quarter,
		budget.Category,
		budget.AllocatedAmount,
		budget.SpentAmount,
		budget.CommittedAmount,
		budget.RemainingAmount,
		budget.Notes,
	))
	if err != nil {
		return fmt.Errorf("failed to create budget record for entity %s: %w", budget.EntityID, err)
	}

	*budget = *created
	return nil
}

// Update applies whitelisted column changes
func (r *BudgetRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Budget, error) {
	budget, err := updateReturning(ctx, r.q, "dga_budget", "budget_id", id, fields, budgetReturning, scanBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget record %s: %w", id, err)
	}
	return budget, nil
}

// TotalsByEntity sums an entity's budget records
func (r *BudgetRepository) TotalsByEntity(ctx context.Context, entityID uuid.UUID) (*models.BudgetTotals, error) {
	query := `SELECT ` + budgetTotalsColumns + ` FROM dga_budget b WHERE b.entity_id = $1`

	totals, err := scanBudgetTotals(r.q.QueryRow(ctx, query, entityID))
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget for entity %s: %w", entityID, err)
	}
	return totals, nil
}

// TotalsByRegion sums the budget records of every entity in a region
func (r *BudgetRepository) TotalsByRegion(ctx context.Context, region string) (*models.BudgetTotals, error) {
	query := `
		SELECT ` + budgetTotalsColumns + `
		FROM dga_budget b
		JOIN dga_entities e ON e.entity_id = b.entity_id
		WHERE e.region = $1
	`

	totals, err := scanBudgetTotals(r.q.QueryRow(ctx, query, region))
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget for region %s: %w", region, err)
	}
	return totals, nil
}

// Overview returns national totals and per-region sums
func (r *BudgetRepository) Overview(ctx context.Context) (*models.BudgetOverview, error) {
	totals, err := scanBudgetTotals(r.q.QueryRow(ctx, `SELECT `+budgetTotalsColumns+` FROM dga_budget b`))
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget: %w", err)
	}

	query := `
		SELECT
			e.region,
			COALESCE(SUM(b.allocated_amount), 0)::float8,
			COALESCE(SUM(b.spent_amount), 0)::float8,
			COUNT(DISTINCT e.entity_id)
		FROM dga_entities e
		LEFT JOIN dga_budget b ON b.entity_id = e.entity_id
		GROUP BY e.region
		ORDER BY SUM(b.allocated_amount) DESC NULLS LAST
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget by region: %w", err)
	}
	defer rows.Close()

	overview := &models.BudgetOverview{Totals: *totals, ByRegion: []*models.RegionBudget{}}
	for rows.Next() {
		var rb models.RegionBudget
		if err := rows.Scan(&rb.Region, &rb.TotalAllocated, &rb.TotalSpent, &rb.EntityCount); err != nil {
			return nil, fmt.Errorf("failed to scan region budget: %w", err)
		}
		overview.ByRegion = append(overview.ByRegion, &rb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate region budgets: %w", err)
	}
	return overview, nil
}

// MonthlyTotals groups budget records by creation month, oldest first
func (r *BudgetRepository) MonthlyTotals(ctx context.Context, filter models.BudgetTrendFilter) ([]*models.BudgetMonth, error) {
	where := sq.And{}
	if filter.Start != nil {
		where = append(where, sq.GtOrEq{"b.created_at": filter.Start.Time})
	}
	if filter.End != nil {
		// inclusive of the whole end day
		where = append(where, sq.Lt{"b.created_at": filter.End.AddDate(0, 0, 1)})
	}
	if filter.Region != "" {
		where = append(where, sq.Eq{"e.region": filter.Region})
	}
	if filter.EntityID != nil {
		where = append(where, sq.Eq{"b.entity_id": *filter.EntityID})
	}

	builder := psql.Select(
		"date_trunc('month', b.created_at) AS month",
		"COALESCE(SUM(b.allocated_amount), 0)::float8",
		"COALESCE(SUM(b.spent_amount), 0)::float8",
		"COALESCE(SUM(b.committed_amount), 0)::float8",
		"COUNT(*)",
	).
		From("dga_budget b").
		Join("dga_entities e ON e.entity_id = b.entity_id").
		Where(where).
		GroupBy("month").
		OrderBy("month")

	months, err := queryList(ctx, r.q, builder, func(row scanner) (*models.BudgetMonth, error) {
		var m models.BudgetMonth
		if err := row.Scan(&m.Month, &m.TotalAllocated, &m.TotalSpent, &m.TotalCommitted, &m.RecordCount); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly budget: %w", err)
	}
	return months, nil
}

// RecentSpend returns the spent amounts of an entity's latest records in chronological order
func (r *BudgetRepository) RecentSpend(ctx context.Context, entityID uuid.UUID, limit int) ([]float64, error) {
	query := `
		SELECT spent_amount::float8
		FROM (
			SELECT spent_amount, created_at
			FROM dga_budget
			WHERE entity_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent spend for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	values := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan spend: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
