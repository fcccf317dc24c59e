package service

import (
	"context"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEntityService is a mock implementation of EntityService
type MockEntityService struct {
	mock.Mock
}

func (m *MockEntityService) List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, models.Pagination, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, models.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]*models.Entity), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockEntityService) Get(ctx context.Context, id uuid.UUID) (*models.EntityDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EntityDetail), args.Error(1)
}

func (m *MockEntityService) Create(ctx context.Context, entity *models.Entity) (*models.Entity, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func (m *MockEntityService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Entity, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func (m *MockEntityService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResult), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockWorkflowService is a mock implementation of WorkflowService
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Initiate(ctx context.Context, req *models.InitiateWorkflowRequest, initiator models.Identity) (*models.WorkflowInitiation, error) {
	args := m.Called(ctx, req, initiator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowInitiation), args.Error(1)
}

func (m *MockWorkflowService) ProcessApproval(ctx context.Context, workflowID uuid.UUID, approver models.Identity, req *models.ApprovalRequest) (*models.ApprovalResult, error) {
	args := m.Called(ctx, workflowID, approver, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalResult), args.Error(1)
}

func (m *MockWorkflowService) Resubmit(ctx context.Context, workflowID uuid.UUID, actor models.Identity, comments string) (*models.ApprovalResult, error) {
	args := m.Called(ctx, workflowID, actor, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalResult), args.Error(1)
}

func (m *MockWorkflowService) Get(ctx context.Context, workflowID uuid.UUID) (*models.WorkflowDetail, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowDetail), args.Error(1)
}

func (m *MockWorkflowService) List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, models.Pagination, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, models.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]*models.Workflow), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockWorkflowService) AutoApprove(ctx context.Context, itemType string, itemID uuid.UUID, criteria models.AutoApproveCriteria) (*models.AutoApproveResult, error) {
	args := m.Called(ctx, itemType, itemID, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AutoApproveResult), args.Error(1)
}

// MockBatchService is a mock implementation of BatchService
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Process(ctx context.Context, req *models.BatchRequest, actor models.Identity) (*models.BatchResult, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchResult), args.Error(1)
}

// MockAlertService is a mock implementation of AlertService
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) ScanBudgets(ctx context.Context) (*models.AlertReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlertReport), args.Error(1)
}

// MockProgramStatusService is a mock implementation of ProgramStatusService
type MockProgramStatusService struct {
	mock.Mock
}

func (m *MockProgramStatusService) UpdateStatuses(ctx context.Context) (*models.StatusUpdateResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusUpdateResult), args.Error(1)
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Send(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationResult), args.Error(1)
}

func (m *MockNotificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, models.Pagination, error) {
	args := m.Called(ctx, userID, unreadOnly, page)
	if args.Get(0) == nil {
		return nil, models.Pagination{}, args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockAuditRecorder is a mock implementation of AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
