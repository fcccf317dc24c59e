package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestComplianceService() (*complianceService, *MockUnitOfWork, *MockEntityRepository, *MockAuditRepository) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockEntityRepo := new(MockEntityRepository)
	mockAuditRepo := new(MockAuditRepository)
	mockUoW.SetRepositories(mockEntityRepo, nil, nil)
	mockUoW.SetAuditRepository(mockAuditRepo)
	mockFactory.On("Create").Return(mockUoW)

	service := NewComplianceService(mockFactory, rand.New(rand.NewPCG(1, 2))).(*complianceService)
	service.now = func() time.Time { return fixedNow }
	return service, mockUoW, mockEntityRepo, mockAuditRepo
}

func TestComplianceService_Report(t *testing.T) {
	ctx := context.Background()
	entityID := uuid.New()

	t.Run("entity signals", func(t *testing.T) {
		service, mockUoW, mockEntityRepo, mockAuditRepo := createTestComplianceService()
		setupReadOnlyTransactionMocks(mockUoW)
		mockEntityRepo.On("GetByID", ctx, entityID).Return(&models.Entity{ID: entityID, DigitalMaturityScore: 82}, nil)
		mockAuditRepo.On("CountByActionTypes", ctx, &entityID, []string{models.AuditExport}).Return(4, nil)
		mockAuditRepo.On("CountByActionTypes", ctx, &entityID, []string{models.AuditLogin, models.AuditLogout}).Return(120, nil)

		report, err := service.Report(ctx, &entityID)

		require.NoError(t, err)
		assert.Equal(t, fixedNow, report.LastAssessed)
		assert.NotNil(t, report.Frameworks.PDPL)
		assert.NotNil(t, report.Frameworks.NCAECC)
		assert.NotNil(t, report.Frameworks.ISO27001)
		assertAllMockExpectations(t, mockUoW, mockEntityRepo, mockAuditRepo)
	})

	t.Run("national baseline skips the database", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewComplianceService(mockFactory, rand.New(rand.NewPCG(1, 2)))

		report, err := service.Report(ctx, nil)

		require.NoError(t, err)
		assert.NotEmpty(t, report.ComplianceLevel)
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("missing entity", func(t *testing.T) {
		service, mockUoW, mockEntityRepo, mockAuditRepo := createTestComplianceService()
		setupReadOnlyTransactionMocks(mockUoW)
		mockEntityRepo.On("GetByID", ctx, entityID).Return(nil, nil)

		_, err := service.Report(ctx, &entityID)

		assert.ErrorIs(t, err, ErrNotFound)
		mockAuditRepo.AssertNotCalled(t, "CountByActionTypes", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestComplianceService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to a year ending this month", func(t *testing.T) {
		service, _, _, _ := createTestComplianceService()

		history, err := service.History(ctx, nil, 0)

		require.NoError(t, err)
		require.Len(t, history.History, 12)
		assert.Equal(t, "2024-04", history.History[0].Month)
		assert.Equal(t, "2025-03", history.History[11].Month)
	})

	t.Run("same seed same series", func(t *testing.T) {
		first, _, _, _ := createTestComplianceService()
		second, _, _, _ := createTestComplianceService()

		a, err := first.History(ctx, nil, 6)
		require.NoError(t, err)
		b, err := second.History(ctx, nil, 6)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("too many months", func(t *testing.T) {
		service, _, _, _ := createTestComplianceService()

		_, err := service.History(ctx, nil, 61)

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "months", valErr.Field)
	})
}

func TestComplianceService_AuditReport(t *testing.T) {
	ctx := context.Background()
	service, mockUoW, _, mockAuditRepo := createTestComplianceService()
	setupReadOnlyTransactionMocks(mockUoW)

	login := &models.AuditEntry{ID: uuid.New(), ActionType: models.AuditLogin, Action: "User login"}
	deletion := &models.AuditEntry{ID: uuid.New(), ActionType: models.AuditDelete, Action: "Deleted program"}
	export := &models.AuditEntry{ID: uuid.New(), ActionType: models.AuditExport, Action: "Exported budget report"}
	roleChange := &models.AuditEntry{ID: uuid.New(), ActionType: models.AuditUpdate, Action: "Admin updated role"}

	mockAuditRepo.On("List", ctx, mock.MatchedBy(func(f models.AuditFilter) bool {
		return f.Limit == 500 && f.ActionType == ""
	})).Return([]*models.AuditEntry{login, deletion, export, roleChange}, nil)

	report, err := service.AuditReport(ctx, models.AuditFilter{})

	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalEvents)
	assert.Equal(t, map[string]int{
		"data_access":       1,
		"data_modification": 1,
		"data_deletion":     1,
		"user_management":   2,
		"security_events":   1,
	}, report.Categories)
	assert.Equal(t, []*models.AuditEntry{deletion, roleChange}, report.HighRiskEvents)
	assert.Len(t, report.RecentEvents, 4)
}

func TestComplianceService_AuditReportRejectsInvertedRange(t *testing.T) {
	service, _, _, _ := createTestComplianceService()
	start := fixedNow
	end := fixedNow.Add(-time.Hour)

	_, err := service.AuditReport(context.Background(), models.AuditFilter{Start: &start, End: &end})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "end_date", valErr.Field)
}
