package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingService_Overview(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockProgramRepo := new(MockProgramRepository)
	mockReportingRepo := new(MockReportingRepository)
	mockUoW.SetRepositories(nil, mockProgramRepo, nil)
	mockUoW.SetReportingRepository(mockReportingRepo)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	mockReportingRepo.On("OverviewTotals", ctx).Return(&models.OverviewTotals{
		TotalEntities:  3,
		TotalPrograms:  2,
		TotalAllocated: 3000,
		TotalSpent:     1000,
	}, nil)
	mockReportingRepo.On("RegionSummaries", ctx).Return([]*models.RegionSummary{{Region: "Central", EntityCount: 3}}, nil)
	mockProgramRepo.On("ListWithEntity", ctx, models.ProgramFilter{}).Return([]*models.Program{
		{ID: uuid.New(), Status: models.ProgramStatusOnHold, StartDate: models.NewDate(fixedNow)},
		{ID: uuid.New(), Status: models.ProgramStatusCompleted, StartDate: models.NewDate(fixedNow)},
	}, nil)

	service := NewReportingService(mockFactory).(*reportingService)
	service.now = func() time.Time { return fixedNow }

	overview, err := service.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, overview.TotalEntities)
	assert.Equal(t, 33.3, overview.BudgetUtilization)
	// On Hold scores 40, Completed 0
	assert.Equal(t, 0.2, overview.RiskIndex)
	assert.Len(t, overview.Regions, 1)
}

func TestReportingService_RegionRejectsUnknown(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)

	_, err := NewReportingService(mockFactory).Region(context.Background(), "Atlantis")

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	mockFactory.AssertNotCalled(t, "Create")
}
