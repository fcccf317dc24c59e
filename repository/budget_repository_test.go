package repository

import (
	"context"
	"testing"

	"oversight/models"
	"oversight/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetRepository_Aggregates(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	entities := NewEntityRepository(testDB.DB)
	repo := NewBudgetRepository(testDB.DB)
	ctx := context.Background()

	central := testutil.CreateTestEntity("C", "Central")
	western := testutil.CreateTestEntity("W", "Western")
	require.NoError(t, entities.Create(ctx, central))
	require.NoError(t, entities.Create(ctx, western))

	for _, b := range []*models.Budget{
		testutil.CreateTestBudget(central.ID, 2024, 1000, 950),
		testutil.CreateTestBudget(central.ID, 2025, 2000, 500),
		testutil.CreateTestBudget(western.ID, 2025, 500, 100),
	} {
		require.NoError(t, repo.Create(ctx, b))
	}

	t.Run("entity totals", func(t *testing.T) {
		totals, err := repo.TotalsByEntity(ctx, central.ID)
		require.NoError(t, err)
		assert.InDelta(t, 3000.0, totals.TotalAllocated, 0.001)
		assert.InDelta(t, 1450.0, totals.TotalSpent, 0.001)
		assert.InDelta(t, 1550.0, totals.TotalRemaining, 0.001)
	})

	t.Run("overview", func(t *testing.T) {
		overview, err := repo.Overview(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 3500.0, overview.Totals.TotalAllocated, 0.001)
		require.Len(t, overview.ByRegion, 2)
		assert.Equal(t, "Central", overview.ByRegion[0].Region)
		assert.Equal(t, 1, overview.ByRegion[0].EntityCount)
	})

	t.Run("joined listing carries entity", func(t *testing.T) {
		budgets, err := repo.ListWithEntity(ctx)
		require.NoError(t, err)
		require.Len(t, budgets, 3)
		for _, b := range budgets {
			assert.NotEmpty(t, b.EntityName)
			assert.NotEmpty(t, b.EntityRegion)
		}
	})

	t.Run("monthly totals", func(t *testing.T) {
		months, err := repo.MonthlyTotals(ctx, models.BudgetTrendFilter{Region: "Central"})
		require.NoError(t, err)
		require.Len(t, months, 1)
		assert.Equal(t, 2, months[0].RecordCount)
		assert.InDelta(t, 3000.0, months[0].TotalAllocated, 0.001)
	})

	t.Run("recent spend is chronological", func(t *testing.T) {
		values, err := repo.RecentSpend(ctx, central.ID, 12)
		require.NoError(t, err)
		assert.Equal(t, []float64{950, 500}, values)
	})
}
