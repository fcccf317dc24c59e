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

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inherits the program's entity", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockProjectRepo := new(MockProjectRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockUoW.SetProjectRepository(mockProjectRepo)
		mockFactory.On("Create").Return(mockUoW)
		setupBasicTransactionMocks(mockUoW)

		programID := uuid.New()
		entityID := uuid.New()
		mockProgramRepo.On("GetByID", ctx, programID).Return(&models.Program{ID: programID, EntityID: entityID}, nil)
		mockProjectRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Project) bool {
			return p.EntityID == entityID && p.Status == "Proposed"
		})).Return(nil)

		project, err := NewProjectService(mockFactory).Create(ctx, &models.Project{
			Code:      "NDP-1-A",
			Name:      "Identity gateway",
			ProgramID: programID,
		})

		require.NoError(t, err)
		assert.Equal(t, entityID, project.EntityID)
		assertAllMockExpectations(t, mockFactory, mockUoW, mockProgramRepo, mockProjectRepo)
	})

	t.Run("unknown program", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		mockUoW := new(MockUnitOfWork)
		mockProgramRepo := new(MockProgramRepository)
		mockProjectRepo := new(MockProjectRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)
		mockUoW.SetProjectRepository(mockProjectRepo)
		mockFactory.On("Create").Return(mockUoW)
		setupReadOnlyTransactionMocks(mockUoW)

		programID := uuid.New()
		mockProgramRepo.On("GetByID", ctx, programID).Return(nil, nil)

		_, err := NewProjectService(mockFactory).Create(ctx, &models.Project{
			Code:      "X-1",
			Name:      "Orphan",
			ProgramID: programID,
		})

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "program_id", validation.Field)
		mockProjectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("rejects bad input", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewProjectService(mockFactory)

		_, err := service.Create(ctx, &models.Project{Code: "X", Name: "Y"})
		assert.ErrorContains(t, err, "program_id")

		_, err = service.Create(ctx, &models.Project{Code: "X", Name: "Y", ProgramID: uuid.New(), Status: "Shipped"})
		assert.ErrorContains(t, err, "status")

		_, err = service.Create(ctx, &models.Project{Code: "X", Name: "Y", ProgramID: uuid.New(), CompletionPercentage: -1})
		assert.ErrorContains(t, err, "completion_percentage")

		mockFactory.AssertNotCalled(t, "Create")
	})
}

func TestProjectService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockProjectRepo := new(MockProjectRepository)
	mockUoW.SetProjectRepository(mockProjectRepo)
	mockFactory.On("Create").Return(mockUoW)
	setupReadOnlyTransactionMocks(mockUoW)

	id := uuid.New()
	mockProjectRepo.On("Update", ctx, id, map[string]any{"status": "Testing"}).Return(nil, nil)

	_, err := NewProjectService(mockFactory).Update(ctx, id, map[string]any{"status": "Testing"})

	assert.ErrorIs(t, err, ErrNotFound)
}
