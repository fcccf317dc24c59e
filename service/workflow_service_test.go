package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oversight/events"
	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func createTestWorkflowService() (*workflowService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockWorkflowRepository, *MockEventPublisher) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockWorkflowRepo := new(MockWorkflowRepository)
	mockEventBus := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, nil, mockEventBus)
	mockUoW.SetWorkflowRepository(mockWorkflowRepo)
	mockFactory.On("Create").Return(mockUoW)

	service := NewWorkflowService(mockFactory, nil).(*workflowService)
	service.now = func() time.Time { return fixedNow }
	return service, mockFactory, mockUoW, mockWorkflowRepo, mockEventBus
}

func twoLevelWorkflow(status models.WorkflowStatus, level int) *models.Workflow {
	return &models.Workflow{
		ID:           uuid.New(),
		ItemType:     "program",
		ItemID:       uuid.New(),
		InitiatorID:  "initiator",
		Status:       status,
		CurrentLevel: level,
		TotalLevels:  2,
		ApprovalLevels: []models.ApprovalLevel{
			{Name: "director", Approvers: []string{"director-1"}},
			{Name: "finance", Approvers: []string{"finance-1", "finance-2"}},
		},
		Version: 3,
	}
}

func approverIdentity(id string) models.Identity {
	return models.Identity{UserID: id, Role: models.RoleProgramDirector}
}

func TestWorkflowService_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists at level one and publishes", func(t *testing.T) {
		service, mockFactory, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)

		workflowID := uuid.New()
		mockWorkflowRepo.On("Create", ctx, mock.MatchedBy(func(w *models.Workflow) bool {
			return w.Status == models.WorkflowStatusPending &&
				w.CurrentLevel == 1 &&
				w.TotalLevels == 2 &&
				w.InitiatorID == "initiator" &&
				w.EstimatedCompletion.Equal(fixedNow.AddDate(0, 0, 4))
		})).Return(nil).Run(func(args mock.Arguments) {
			w := args.Get(1).(*models.Workflow)
			w.ID = workflowID
			w.Version = 1
		})
		mockEventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			initiated, ok := e.(events.WorkflowInitiatedEvent)
			return ok && initiated.WorkflowID == workflowID && assert.ObjectsAreEqual([]string{"a", "b"}, initiated.Approvers)
		})).Return()

		result, err := service.Initiate(ctx, &models.InitiateWorkflowRequest{
			ItemType: "program",
			ItemID:   uuid.NewString(),
			ApprovalLevels: []models.ApprovalLevel{
				{Approvers: []string{"a", " b ", ""}},
				{Approvers: []string{"c"}},
			},
		}, models.Identity{UserID: "initiator"})

		require.NoError(t, err)
		assert.Equal(t, workflowID, result.WorkflowID)
		assert.Equal(t, "initiated", result.Status)
		assert.Equal(t, 1, result.CurrentLevel)
		assert.Equal(t, []string{"a", "b"}, result.NextApprovers)
		assertAllMockExpectations(t, mockFactory, mockUoW, mockWorkflowRepo, mockEventBus)
	})

	tests := []struct {
		name  string
		req   *models.InitiateWorkflowRequest
		field string
	}{
		{"unknown item type", &models.InitiateWorkflowRequest{ItemType: "invoice", ItemID: uuid.NewString(),
			ApprovalLevels: []models.ApprovalLevel{{Approvers: []string{"a"}}}}, "item_type"},
		{"bad item id", &models.InitiateWorkflowRequest{ItemType: "budget", ItemID: "42",
			ApprovalLevels: []models.ApprovalLevel{{Approvers: []string{"a"}}}}, "item_id"},
		{"no levels", &models.InitiateWorkflowRequest{ItemType: "budget", ItemID: uuid.NewString()}, "approval_levels"},
		{"empty level", &models.InitiateWorkflowRequest{ItemType: "budget", ItemID: uuid.NewString(),
			ApprovalLevels: []models.ApprovalLevel{{Approvers: []string{"a"}}, {Approvers: []string{" "}}}}, "approval_levels"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockFactory, _, _, _ := createTestWorkflowService()

			_, err := service.Initiate(ctx, tt.req, models.Identity{UserID: "initiator"})

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
			mockFactory.AssertNotCalled(t, "Create")
		})
	}
}

func TestWorkflowService_ProcessApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("approve advances to next level", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.MatchedBy(func(a *models.WorkflowAction) bool {
			return a.ApproverID == "director-1" && a.Level == 1 && a.Action == models.ApprovalActionApprove
		})).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.MatchedBy(func(w *models.Workflow) bool {
			return w.Status == models.WorkflowStatusAdvanced && w.CurrentLevel == 2 && w.CompletedAt == nil
		}), 3).Return(true, nil)
		mockEventBus.On("Publish", mock.AnythingOfType("events.WorkflowAdvancedEvent")).Return()

		level := 1
		result, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"), &models.ApprovalRequest{
			Action:        models.ApprovalActionApprove,
			ExpectedLevel: &level,
		})

		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusAdvanced, result.Status)
		assert.Equal(t, 2, result.CurrentLevel)
		assert.Equal(t, []string{"finance-1", "finance-2"}, result.NextApprovers)
		assertAllMockExpectations(t, mockUoW, mockWorkflowRepo, mockEventBus)
	})

	t.Run("approve at final level completes", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusAdvanced, 2)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.Anything).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.MatchedBy(func(w *models.Workflow) bool {
			return w.Status == models.WorkflowStatusApproved && w.CompletedAt != nil && w.CompletedAt.Equal(fixedNow)
		}), 3).Return(true, nil)
		mockEventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			completed, ok := e.(events.WorkflowCompletedEvent)
			return ok && completed.Status == models.WorkflowStatusApproved && completed.InitiatorID == "initiator"
		})).Return()

		result, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("finance-2"), &models.ApprovalRequest{
			Action: models.ApprovalActionApprove,
		})

		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusApproved, result.Status)
		assert.Empty(t, result.NextApprovers)
	})

	t.Run("reject stores comment", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.Anything).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.MatchedBy(func(w *models.Workflow) bool {
			return w.Status == models.WorkflowStatusRejected && w.LastComment != nil && *w.LastComment == "over budget"
		}), 3).Return(true, nil)
		mockEventBus.On("Publish", mock.AnythingOfType("events.WorkflowCompletedEvent")).Return()

		result, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"), &models.ApprovalRequest{
			Action:   models.ApprovalActionReject,
			Comments: "over budget",
		})

		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusRejected, result.Status)
	})

	t.Run("request changes pauses workflow", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.Anything).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.Anything, 3).Return(true, nil)
		mockEventBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			changes, ok := e.(events.WorkflowChangesRequestedEvent)
			return ok && changes.InitiatorID == "initiator" && changes.Comments == "add milestones"
		})).Return()

		result, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"), &models.ApprovalRequest{
			Action:   models.ApprovalActionRequestChanges,
			Comments: "add milestones",
		})

		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusChangesRequested, result.Status)
		assert.Equal(t, 1, result.CurrentLevel)
	})

	t.Run("admin may act on any level", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.Anything).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.Anything, 3).Return(true, nil)
		mockEventBus.On("Publish", mock.Anything).Return()

		_, err := service.ProcessApproval(ctx, wf.ID, models.Identity{UserID: "admin", Role: models.RoleAdmin},
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.NoError(t, err)
	})

	t.Run("approver from another level is forbidden", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		_, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("finance-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.ErrorIs(t, err, ErrForbidden)
		mockWorkflowRepo.AssertNotCalled(t, "AddAction", mock.Anything, mock.Anything)
	})

	t.Run("terminal workflow conflicts", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusRejected, 1)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		_, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("paused workflow conflicts", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusChangesRequested, 1)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		_, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("stale expected level conflicts", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusAdvanced, 2)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		level := 1
		_, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("finance-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove, ExpectedLevel: &level})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("version mismatch conflicts and publishes nothing", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.Anything).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.Anything, 3).Return(false, nil)

		_, err := service.ProcessApproval(ctx, wf.ID, approverIdentity("director-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.ErrorIs(t, err, ErrConflict)
		mockEventBus.AssertNotCalled(t, "Publish", mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("missing workflow", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		id := uuid.New()
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, id).Return(nil, nil)

		_, err := service.ProcessApproval(ctx, id, approverIdentity("director-1"),
			&models.ApprovalRequest{Action: models.ApprovalActionApprove})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid action", func(t *testing.T) {
		service, mockFactory, _, _, _ := createTestWorkflowService()

		_, err := service.ProcessApproval(ctx, uuid.New(), approverIdentity("director-1"),
			&models.ApprovalRequest{Action: "escalate"})

		var valErr *ValidationError
		assert.True(t, errors.As(err, &valErr))
		mockFactory.AssertNotCalled(t, "Create")
	})
}

func TestWorkflowService_Resubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("initiator reopens at the same level", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, mockEventBus := createTestWorkflowService()
		setupBasicTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusChangesRequested, 2)

		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)
		mockWorkflowRepo.On("AddAction", ctx, mock.MatchedBy(func(a *models.WorkflowAction) bool {
			return a.Action == models.ApprovalActionResubmit
		})).Return(nil)
		mockWorkflowRepo.On("UpdateState", ctx, mock.MatchedBy(func(w *models.Workflow) bool {
			return w.Status == models.WorkflowStatusPending && w.CurrentLevel == 2
		}), 3).Return(true, nil)
		mockEventBus.On("Publish", mock.AnythingOfType("events.WorkflowAdvancedEvent")).Return()

		result, err := service.Resubmit(ctx, wf.ID, models.Identity{UserID: "initiator", Role: models.RoleMinistryUser}, "milestones added")

		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusPending, result.Status)
		assert.Equal(t, []string{"finance-1", "finance-2"}, result.NextApprovers)
	})

	t.Run("someone else is forbidden", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusChangesRequested, 1)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		_, err := service.Resubmit(ctx, wf.ID, approverIdentity("director-1"), "")

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("only paused workflows", func(t *testing.T) {
		service, _, mockUoW, mockWorkflowRepo, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		wf := twoLevelWorkflow(models.WorkflowStatusPending, 1)
		mockWorkflowRepo.On("GetByIDForUpdate", ctx, wf.ID).Return(wf, nil)

		_, err := service.Resubmit(ctx, wf.ID, models.Identity{UserID: "initiator"}, "")

		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestWorkflowService_AutoApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("low priority program", func(t *testing.T) {
		service, _, mockUoW, _, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		mockProgramRepo := new(MockProgramRepository)
		mockUoW.SetRepositories(nil, mockProgramRepo, nil)

		id := uuid.New()
		mockProgramRepo.On("GetByID", ctx, id).Return(&models.Program{ID: id, Priority: models.PriorityLow}, nil)

		result, err := service.AutoApprove(ctx, "program", id, models.AutoApproveCriteria{})

		require.NoError(t, err)
		assert.True(t, result.AutoApproved)
		assert.Equal(t, []string{"Low priority program"}, result.Reasons)
		require.NotNil(t, result.ApprovedAt)
		assert.Equal(t, fixedNow, *result.ApprovedAt)
	})

	t.Run("budget above threshold needs manual approval", func(t *testing.T) {
		service, _, mockUoW, _, _ := createTestWorkflowService()
		setupReadOnlyTransactionMocks(mockUoW)
		mockBudgetRepo := new(MockBudgetRepository)
		mockUoW.SetBudgetRepository(mockBudgetRepo)

		id := uuid.New()
		mockBudgetRepo.On("GetByID", ctx, id).Return(&models.Budget{ID: id, AllocatedAmount: 5_000_000}, nil)

		result, err := service.AutoApprove(ctx, "budget", id, models.AutoApproveCriteria{AmountThreshold: 1_000_000})

		require.NoError(t, err)
		assert.False(t, result.AutoApproved)
		assert.True(t, result.RequiresManualApproval)
	})

	t.Run("missing item is not found", func(t *testing.T) {
		tests := []struct {
			itemType string
			setup    func(mockUoW *MockUnitOfWork, id uuid.UUID)
		}{
			{"budget", func(mockUoW *MockUnitOfWork, id uuid.UUID) {
				mockBudgetRepo := new(MockBudgetRepository)
				mockBudgetRepo.On("GetByID", ctx, id).Return(nil, nil)
				mockUoW.SetBudgetRepository(mockBudgetRepo)
			}},
			{"program", func(mockUoW *MockUnitOfWork, id uuid.UUID) {
				mockProgramRepo := new(MockProgramRepository)
				mockProgramRepo.On("GetByID", ctx, id).Return(nil, nil)
				mockUoW.SetRepositories(nil, mockProgramRepo, nil)
			}},
		}
		for _, tt := range tests {
			t.Run(tt.itemType, func(t *testing.T) {
				service, _, mockUoW, _, _ := createTestWorkflowService()
				setupReadOnlyTransactionMocks(mockUoW)
				id := uuid.New()
				tt.setup(mockUoW, id)

				result, err := service.AutoApprove(ctx, tt.itemType, id, models.AutoApproveCriteria{AmountThreshold: 1_000_000})

				assert.Nil(t, result)
				assert.ErrorIs(t, err, ErrNotFound)
				var missing *NotFoundError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.itemType, missing.Resource)
				assert.Equal(t, id, missing.ID)
			})
		}
	})
}
