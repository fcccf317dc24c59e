package service

import (
	"context"
	"testing"
	"time"

	"oversight/models"
	"oversight/observability"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertService_ScanBudgets(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockBudgetRepo := new(MockBudgetRepository)
	mockUoW.SetBudgetRepository(mockBudgetRepo)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	mockBudgetRepo.On("ListWithEntity", ctx).Return([]*models.Budget{
		{ID: uuid.New(), EntityName: "MOH", FiscalYear: 2024, AllocatedAmount: 1000, SpentAmount: 1200, CreatedAt: fixedNow},
		{ID: uuid.New(), EntityName: "MOE", FiscalYear: 2024, AllocatedAmount: 1000, SpentAmount: 950, CreatedAt: fixedNow},
		{ID: uuid.New(), EntityName: "MOF", FiscalYear: 2025, AllocatedAmount: 1000, SpentAmount: 100, CreatedAt: fixedNow.AddDate(0, -1, 0)},
		{ID: uuid.New(), EntityName: "MOT", FiscalYear: 2024, AllocatedAmount: 1000, SpentAmount: 500, CreatedAt: fixedNow},
	}, nil)

	service := NewAlertService(mockFactory, observability.NewMetrics(prometheus.NewRegistry())).(*alertService)
	service.now = func() time.Time { return fixedNow }

	report, err := service.ScanBudgets(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalAlerts)
	assert.Equal(t, 1, report.Critical)
	assert.Equal(t, 1, report.Warnings)
	assert.Equal(t, 1, report.Info)
	require.Len(t, report.Alerts, 3)
	assert.Equal(t, models.SeverityHigh, report.Alerts[0].Severity)
	mockUoW.AssertNotCalled(t, "Commit")
}
