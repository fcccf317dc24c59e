package service

import (
	"context"
	"time"

	"oversight/events"
	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEntityRepository is a mock implementation of EntityRepository
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Entity), args.Int(1), args.Error(2)
}

func (m *MockEntityRepository) ListByRegion(ctx context.Context, region string) ([]*models.Entity, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entity), args.Error(1)
}

func (m *MockEntityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func (m *MockEntityRepository) Create(ctx context.Context, entity *models.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Entity, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func (m *MockEntityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProgramRepository is a mock implementation of ProgramRepository
type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) List(ctx context.Context, filter models.ProgramFilter, page models.PageRequest) ([]*models.Program, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Program), args.Int(1), args.Error(2)
}

func (m *MockProgramRepository) ListWithEntity(ctx context.Context, filter models.ProgramFilter) ([]*models.Program, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Program), args.Error(1)
}

func (m *MockProgramRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Program, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Program), args.Error(1)
}

func (m *MockProgramRepository) ListInProgress(ctx context.Context) ([]*models.Program, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Program), args.Error(1)
}

func (m *MockProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

func (m *MockProgramRepository) Create(ctx context.Context, program *models.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Program, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

func (m *MockProgramRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgramRepository) GetStats(ctx context.Context, entityID uuid.UUID) (*models.ProgramStats, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgramStats), args.Error(1)
}

func (m *MockProgramRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.ProgramStatus, completedAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgramRepository) RecordStatusChange(ctx context.Context, change *models.ProgramStatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) List(ctx context.Context, filter models.ProjectFilter, page models.PageRequest) ([]*models.Project, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectRepository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]*models.Project, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Project, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) ListWithEntity(ctx context.Context) ([]*models.Budget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Budget, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Budget), args.Error(1)
}

func (m *MockBudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Budget, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Budget), args.Error(1)
}

func (m *MockBudgetRepository) TotalsByEntity(ctx context.Context, entityID uuid.UUID) (*models.BudgetTotals, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetTotals), args.Error(1)
}

func (m *MockBudgetRepository) TotalsByRegion(ctx context.Context, region string) (*models.BudgetTotals, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetTotals), args.Error(1)
}

func (m *MockBudgetRepository) Overview(ctx context.Context) (*models.BudgetOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetOverview), args.Error(1)
}

func (m *MockBudgetRepository) MonthlyTotals(ctx context.Context, filter models.BudgetTrendFilter) ([]*models.BudgetMonth, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BudgetMonth), args.Error(1)
}

func (m *MockBudgetRepository) RecentSpend(ctx context.Context, entityID uuid.UUID, limit int) ([]float64, error) {
	args := m.Called(ctx, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockKPIRepository is a mock implementation of KPIRepository
type MockKPIRepository struct {
	mock.Mock
}

func (m *MockKPIRepository) Latest(ctx context.Context, limit int) ([]*models.KPIReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.KPIReport), args.Error(1)
}

// MockReportingRepository is a mock implementation of ReportingRepository
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) OverviewTotals(ctx context.Context) (*models.OverviewTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OverviewTotals), args.Error(1)
}

func (m *MockReportingRepository) RegionSummaries(ctx context.Context) ([]*models.RegionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RegionSummary), args.Error(1)
}

func (m *MockReportingRepository) RegionSummary(ctx context.Context, region string) (*models.RegionSummary, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RegionSummary), args.Error(1)
}

func (m *MockReportingRepository) RegionBenchmark(ctx context.Context, region string) (*models.RegionBenchmark, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RegionBenchmark), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) List(ctx context.Context, filter models.TicketFilter, page models.PageRequest) ([]*models.Ticket, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Ticket), args.Int(1), args.Error(2)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) NextNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Ticket, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page models.PageRequest) ([]*models.User, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, int, error) {
	args := m.Called(ctx, userID, unreadOnly, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, userID, at)
	return args.Bool(0), args.Error(1)
}

// MockWorkflowRepository is a mock implementation of WorkflowRepository
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) Create(ctx context.Context, workflow *models.Workflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) UpdateState(ctx context.Context, workflow *models.Workflow, expectedVersion int) (bool, error) {
	args := m.Called(ctx, workflow, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflowRepository) List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Workflow), args.Int(1), args.Error(2)
}

func (m *MockWorkflowRepository) AddAction(ctx context.Context, action *models.WorkflowAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockWorkflowRepository) ListActions(ctx context.Context, workflowID uuid.UUID) ([]*models.WorkflowAction, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkflowAction), args.Error(1)
}

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) List(ctx context.Context, activeOnly bool) ([]*models.Schedule, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) CountByActionTypes(ctx context.Context, entityID *uuid.UUID, actionTypes []string) (int, error) {
	args := m.Called(ctx, entityID, actionTypes)
	return args.Int(0), args.Error(1)
}

// MockBatchRepository is a mock implementation of BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) UpdateRow(ctx context.Context, table string, id uuid.UUID, fields map[string]any) (bool, error) {
	args := m.Called(ctx, table, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchRepository) DeleteRow(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, table, id)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockNotificationPublisher is a mock implementation of NotificationPublisher
type MockNotificationPublisher struct {
	mock.Mock
}

func (m *MockNotificationPublisher) PublishNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockLockoutStore is a mock implementation of LockoutStore
type MockLockoutStore struct {
	mock.Mock
}

func (m *MockLockoutStore) Status(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockLockoutStore) RecordFailure(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockLockoutStore) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(identity models.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Transaction calls go through
// the mock; repository getters return whatever was installed with the Set methods.
type MockUnitOfWork struct {
	mock.Mock

	entityRepo       EntityRepository
	programRepo      ProgramRepository
	projectRepo      ProjectRepository
	budgetRepo       BudgetRepository
	kpiRepo          KPIRepository
	reportingRepo    ReportingRepository
	ticketRepo       TicketRepository
	userRepo         UserRepository
	notificationRepo NotificationRepository
	workflowRepo     WorkflowRepository
	scheduleRepo     ScheduleRepository
	auditRepo        AuditRepository
	batchRepo        BatchRepository
	eventBus         EventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) EntityRepository() EntityRepository { return m.entityRepo }
func (m *MockUnitOfWork) ProgramRepository() ProgramRepository { return m.programRepo }
func (m *MockUnitOfWork) ProjectRepository() ProjectRepository { return m.projectRepo }
func (m *MockUnitOfWork) BudgetRepository() BudgetRepository { return m.budgetRepo }
func (m *MockUnitOfWork) KPIRepository() KPIRepository { return m.kpiRepo }
func (m *MockUnitOfWork) ReportingRepository() ReportingRepository { return m.reportingRepo }
func (m *MockUnitOfWork) TicketRepository() TicketRepository { return m.ticketRepo }
func (m *MockUnitOfWork) UserRepository() UserRepository { return m.userRepo }
func (m *MockUnitOfWork) NotificationRepository() NotificationRepository { return m.notificationRepo }
func (m *MockUnitOfWork) WorkflowRepository() WorkflowRepository { return m.workflowRepo }
func (m *MockUnitOfWork) ScheduleRepository() ScheduleRepository { return m.scheduleRepo }
func (m *MockUnitOfWork) AuditRepository() AuditRepository { return m.auditRepo }
func (m *MockUnitOfWork) BatchRepository() BatchRepository { return m.batchRepo }
func (m *MockUnitOfWork) EventBus() EventPublisher { return m.eventBus }

// SetRepositories installs the repositories most services touch
func (m *MockUnitOfWork) SetRepositories(entityRepo EntityRepository, programRepo ProgramRepository, eventBus EventPublisher) {
	m.entityRepo = entityRepo
	m.programRepo = programRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) SetProjectRepository(repo ProjectRepository) { m.projectRepo = repo }
func (m *MockUnitOfWork) SetBudgetRepository(repo BudgetRepository) { m.budgetRepo = repo }
func (m *MockUnitOfWork) SetKPIRepository(repo KPIRepository) { m.kpiRepo = repo }
func (m *MockUnitOfWork) SetReportingRepository(repo ReportingRepository) { m.reportingRepo = repo }
func (m *MockUnitOfWork) SetTicketRepository(repo TicketRepository) { m.ticketRepo = repo }
func (m *MockUnitOfWork) SetUserRepository(repo UserRepository) { m.userRepo = repo }
func (m *MockUnitOfWork) SetWorkflowRepository(repo WorkflowRepository) { m.workflowRepo = repo }
func (m *MockUnitOfWork) SetScheduleRepository(repo ScheduleRepository) { m.scheduleRepo = repo }
func (m *MockUnitOfWork) SetAuditRepository(repo AuditRepository) { m.auditRepo = repo }
func (m *MockUnitOfWork) SetBatchRepository(repo BatchRepository) { m.batchRepo = repo }
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) { m.eventBus = bus }
func (m *MockUnitOfWork) SetNotificationRepository(repo NotificationRepository) {
	m.notificationRepo = repo
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
