package service

import (
	"context"
	"testing"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProgramService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("includes projects", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockProjectRepo := new(MockProjectRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockUoW.SetProjectRepository(mockProjectRepo)
		mockFactory.On("Create").Return(mockUoW)
		setupReadOnlyTransactionMocks(mockUoW)

		id := uuid.New()
		program := &models.Program{ID: id, Code: "NDP-1", Status: models.ProgramStatusInProgress}
		projects := []*models.Project{{ID: uuid.New(), ProgramID: id}}
		mockProgramRepo.On("GetByID", ctx, id).Return(program, nil)
		mockProjectRepo.On("ListByProgram", ctx, id).Return(projects, nil)

		detail, err := NewProgramService(mockFactory).Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, program, detail.Program)
		assert.Equal(t, projects, detail.Projects)
		assertAllMockExpectations(t, mockFactory, mockUoW, mockProgramRepo, mockProjectRepo)
	})

	t.Run("missing program", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockFactory.On("Create").Return(mockUoW)
		setupReadOnlyTransactionMocks(mockUoW)

		id := uuid.New()
		mockProgramRepo.On("GetByID", ctx, id).Return(nil, nil)

		_, err := NewProgramService(mockFactory).Get(ctx, id)

		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "program", nf.Resource)
	})
}

func TestProgramService_Create(t *testing.T) {
	ctx := context.Background()
	start, err := models.ParseDate("2025-01-01")
	require.NoError(t, err)

	valid := func() *models.Program {
		return &models.Program{
			Code:      "NDP-1",
			Name:      "National Digital Platform",
			Type:      "Digital Transformation",
			EntityID:  uuid.New(),
			StartDate: start,
		}
	}

	t.Run("applies defaults", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockFactory.On("Create").Return(mockUoW)
		setupBasicTransactionMocks(mockUoW)

		mockProgramRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Program) bool {
			return p.Status == models.ProgramStatusPlanning && p.Priority == models.PriorityMedium
		})).Return(nil)

		program, err := NewProgramService(mockFactory).Create(ctx, valid())

		require.NoError(t, err)
		assert.Equal(t, models.ProgramStatusPlanning, program.Status)
		assertAllMockExpectations(t, mockFactory, mockUoW, mockProgramRepo)
	})

	tests := []struct {
		name   string
		mutate func(*models.Program)
		field  string
	}{
		{"missing code", func(p *models.Program) { p.Code = " " }, "program_code"},
		{"missing entity", func(p *models.Program) { p.EntityID = uuid.Nil }, "entity_id"},
		{"missing start", func(p *models.Program) { p.StartDate = models.Date{} }, "start_date"},
		{"unknown status", func(p *models.Program) { p.Status = "Paused" }, "status"},
		{"unknown priority", func(p *models.Program) { p.Priority = "Urgent" }, "priority"},
		{"progress over 100", func(p *models.Program) { p.ProgressPercentage = 101 }, "progress_percentage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFactory := new(MockUnitOfWorkFactory)
			program := valid()
			tt.mutate(program)

			_, err := NewProgramService(mockFactory).Create(ctx, program)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			mockFactory.AssertNotCalled(t, "Create")
		})
	}
}

func TestProgramService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid values before touching the database", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewProgramService(mockFactory)
		id := uuid.New()

		_, err := service.Update(ctx, id, map[string]any{"status": "Paused"})
		assert.ErrorContains(t, err, "status")

		_, err = service.Update(ctx, id, map[string]any{"progress_percentage": 140.0})
		assert.ErrorContains(t, err, "progress_percentage")

		_, err = service.Update(ctx, id, map[string]any{"created_at": "2025-01-01"})
		assert.ErrorContains(t, err, "field cannot be updated")

		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("commits coerced fields", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockFactory.On("Create").Return(mockUoW)
		setupBasicTransactionMocks(mockUoW)

		id := uuid.New()
		updated := &models.Program{ID: id, ProgressPercentage: 60}
		mockProgramRepo.On("Update", ctx, id, map[string]any{"progress_percentage": int64(60)}).Return(updated, nil)

		program, err := NewProgramService(mockFactory).Update(ctx, id, map[string]any{"progress_percentage": 60.0})

		require.NoError(t, err)
		assert.Equal(t, updated, program)
		assertAllMockExpectations(t, mockFactory, mockUoW, mockProgramRepo)
	})
}

func TestProgramService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockProgramRepo := new(MockProgramRepository)
	mockUoW.SetRepositories(nil, mockProgramRepo, nil)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	id := uuid.New()
	mockProgramRepo.On("Delete", ctx, id).Return(false, nil)

	err := NewProgramService(mockFactory).Delete(ctx, id)

	assert.ErrorIs(t, err, ErrNotFound)
	mockUoW.AssertNotCalled(t, "Commit")
}
