package service

import (
	"context"
	"time"

	"oversight/events"
	"oversight/models"

	"github.com/google/uuid"
)

// EntityRepository defines the interface for government entity data access
type EntityRepository interface {
	// List returns one page of entities ordered by English name, plus the filtered total
	List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, int, error)

	// ListByRegion returns every entity in a region
	ListByRegion(ctx context.Context, region string) ([]*models.Entity, error)

	// GetByID retrieves an entity, nil when missing
	GetByID(ctx context.Context, id uuid.UUID) (*models.Entity, error)

	// Create inserts an entity and fills its generated columns
	Create(ctx context.Context, entity *models.Entity) error

	// Update applies whitelisted column changes, nil when missing
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Entity, error)

	// Delete removes an entity, reporting whether a row existed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProgramRepository defines the interface for program data access
type ProgramRepository interface {
	// List returns one page of programs joined with their entity, plus the filtered total
	List(ctx context.Context, filter models.ProgramFilter, page models.PageRequest) ([]*models.Program, int, error)

	// ListWithEntity returns every matching program joined with its entity
	ListWithEntity(ctx context.Context, filter models.ProgramFilter) ([]*models.Program, error)

	// ListByEntity returns the programs owned by an entity
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Program, error)

	// ListInProgress returns programs currently In Progress
	ListInProgress(ctx context.Context) ([]*models.Program, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Program, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// GetStats aggregates the maturity inputs of an entity's programs
	GetStats(ctx context.Context, entityID uuid.UUID) (*models.ProgramStats, error)

	// TransitionStatus moves a program from one status to another only if it is still in
	// the from status. Returns false when another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.ProgramStatus, completedAt *time.Time) (bool, error)

	// RecordStatusChange appends to the status history log
	RecordStatusChange(ctx context.Context, change *models.ProgramStatusChange) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	List(ctx context.Context, filter models.ProjectFilter, page models.PageRequest) ([]*models.Project, int, error)
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// BudgetRepository defines the interface for budget data access
type BudgetRepository interface {
	// ListWithEntity returns every budget record joined with its entity name and region
	ListWithEntity(ctx context.Context) ([]*models.Budget, error)

	// ListByEntity returns an entity's budget records, newest fiscal year first
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]*models.Budget, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	Create(ctx context.Context, budget *models.Budget) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Budget, error)

	// TotalsByEntity sums an entity's budget records
	TotalsByEntity(ctx context.Context, entityID uuid.UUID) (*models.BudgetTotals, error)

	// TotalsByRegion sums the budget records of every entity in a region
	TotalsByRegion(ctx context.Context, region string) (*models.BudgetTotals, error)

	// Overview returns national totals and per-region sums
	Overview(ctx context.Context) (*models.BudgetOverview, error)

	// MonthlyTotals groups budget records by creation month, oldest first
	MonthlyTotals(ctx context.Context, filter models.BudgetTrendFilter) ([]*models.BudgetMonth, error)

	// RecentSpend returns the spent amounts of an entity's latest records in chronological order
	RecentSpend(ctx context.Context, entityID uuid.UUID, limit int) ([]float64, error)
}

// KPIRepository defines the interface for KPI report data access
type KPIRepository interface {
	// Latest returns the most recent reports by period end
	Latest(ctx context.Context, limit int) ([]*models.KPIReport, error)
}

// ReportingRepository defines the interface for cross-table aggregates
type ReportingRepository interface {
	// OverviewTotals counts entities and programs and sums program budgets
	OverviewTotals(ctx context.Context) (*models.OverviewTotals, error)

	// RegionSummaries aggregates every region that has entities
	RegionSummaries(ctx context.Context) ([]*models.RegionSummary, error)

	// RegionSummary aggregates a single region
	RegionSummary(ctx context.Context, region string) (*models.RegionSummary, error)

	// RegionBenchmark aggregates maturity, program and budget figures for one region
	RegionBenchmark(ctx context.Context, region string) (*models.RegionBenchmark, error)
}

// TicketRepository defines the interface for support ticket data access
type TicketRepository interface {
	List(ctx context.Context, filter models.TicketFilter, page models.PageRequest) ([]*models.Ticket, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)

	// NextNumber draws the next value of the ticket number sequence
	NextNumber(ctx context.Context) (int64, error)

	Create(ctx context.Context, ticket *models.Ticket) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Ticket, error)
}

// UserRepository defines the interface for user account data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail looks an account up case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmailOrUsername reports whether either identifier is taken
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, page models.PageRequest) ([]*models.User, int, error)

	// FilterExisting returns the subset of ids that belong to accounts
	FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, int, error)

	// MarkRead stamps read_at on a notification owned by userID
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error)
}

// WorkflowRepository defines the interface for approval workflow data access
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error)

	// GetByIDForUpdate reads a workflow and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Workflow, error)

	// UpdateState writes status, level, comment and completion when the stored version still
	// equals expectedVersion, then bumps the version. Returns false on a version mismatch.
	UpdateState(ctx context.Context, workflow *models.Workflow, expectedVersion int) (bool, error)

	List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, int, error)

	AddAction(ctx context.Context, action *models.WorkflowAction) error
	ListActions(ctx context.Context, workflowID uuid.UUID) ([]*models.WorkflowAction, error)
}

// ScheduleRepository defines the interface for report schedule data access
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	List(ctx context.Context, activeOnly bool) ([]*models.Schedule, error)

	// Deactivate marks a schedule inactive, reporting whether it existed
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuditRepository defines the interface for the audit trail
type AuditRepository interface {
	Record(ctx context.Context, entry *models.AuditEntry) error

	// List returns matching entries joined with the acting user, newest first
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEntry, error)

	// CountByActionTypes counts entries of the given action types, optionally for one entity
	CountByActionTypes(ctx context.Context, entityID *uuid.UUID, actionTypes []string) (int, error)
}

// BatchRepository applies whitelisted generic writes for the batch processor
type BatchRepository interface {
	// UpdateRow updates one row of a models.BatchTables table, reporting whether it existed
	UpdateRow(ctx context.Context, table string, id uuid.UUID, fields map[string]any) (bool, error)

	// DeleteRow deletes one row of a models.BatchTables table, reporting whether it existed
	DeleteRow(ctx context.Context, table string, id uuid.UUID) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// NotificationPublisher pushes delivered notifications to external subscribers
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, notification *models.Notification) error
}

// LockoutStore tracks failed logins per account
type LockoutStore interface {
	// Status returns how long the key stays locked, zero when it is not locked
	Status(ctx context.Context, key string) (time.Duration, error)

	// RecordFailure counts a failure and returns the attempts left before lockout,
	// locking the key once none remain
	RecordFailure(ctx context.Context, key string) (int, error)

	// Reset clears failures and any lock for key
	Reset(ctx context.Context, key string) error
}

// TokenIssuer signs access tokens for authenticated identities
type TokenIssuer interface {
	Issue(identity models.Identity) (string, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	EntityRepository() EntityRepository
	ProgramRepository() ProgramRepository
	ProjectRepository() ProjectRepository
	BudgetRepository() BudgetRepository
	KPIRepository() KPIRepository
	ReportingRepository() ReportingRepository
	TicketRepository() TicketRepository
	UserRepository() UserRepository
	NotificationRepository() NotificationRepository
	WorkflowRepository() WorkflowRepository
	ScheduleRepository() ScheduleRepository
	AuditRepository() AuditRepository
	BatchRepository() BatchRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// EntityService defines the interface for entity operations
type EntityService interface {
	List(ctx context.Context, filter models.EntityFilter, page models.PageRequest) ([]*models.Entity, models.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.EntityDetail, error)
	Create(ctx context.Context, entity *models.Entity) (*models.Entity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Entity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgramService defines the interface for program operations
type ProgramService interface {
	List(ctx context.Context, filter models.ProgramFilter, page models.PageRequest) ([]*models.Program, models.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ProgramDetail, error)
	Create(ctx context.Context, program *models.Program) (*models.Program, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Program, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectService defines the interface for project operations
type ProjectService interface {
	List(ctx context.Context, filter models.ProjectFilter, page models.PageRequest) ([]*models.Project, models.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BudgetService defines the interface for budget operations
type BudgetService interface {
	Overview(ctx context.Context) (*models.BudgetOverview, error)
	ForEntity(ctx context.Context, entityID uuid.UUID) (*models.EntityBudget, error)
	Create(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Budget, error)
}

// ReportingService defines the interface for dashboard reporting
type ReportingService interface {
	Overview(ctx context.Context) (*models.ReportingOverview, error)
	Region(ctx context.Context, region string) (*models.RegionReport, error)
	LatestKPIs(ctx context.Context) ([]*models.KPIReport, error)
}

// TicketService defines the interface for support ticket operations
type TicketService interface {
	List(ctx context.Context, filter models.TicketFilter, page models.PageRequest) ([]*models.Ticket, models.Pagination, error)
	Create(ctx context.Context, ticket *models.Ticket, creator models.Identity) (*models.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Ticket, error)
}

// UserService defines the interface for account administration
type UserService interface {
	List(ctx context.Context, page models.PageRequest) ([]*models.User, models.Pagination, error)
}

// AuthService defines the interface for authentication
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// AnalyticsService defines the interface for scoring and trend analysis
type AnalyticsService interface {
	DigitalMaturity(ctx context.Context, entityID uuid.UUID) (*models.MaturityResult, error)
	RiskAnalysis(ctx context.Context, filter models.RiskFilter) (*models.RiskAnalysis, error)
	BudgetTrends(ctx context.Context, filter models.BudgetTrendFilter) (*models.BudgetTrends, error)
	PredictBudget(ctx context.Context, entityID uuid.UUID, months int) (*models.BudgetPrediction, error)
	Benchmarks(ctx context.Context) (*models.Benchmarks, error)
}

// ComplianceService defines the interface for compliance assessment
type ComplianceService interface {
	Report(ctx context.Context, entityID *uuid.UUID) (*models.ComplianceReport, error)
	History(ctx context.Context, entityID *uuid.UUID, months int) (*models.ComplianceHistory, error)
	AuditReport(ctx context.Context, filter models.AuditFilter) (*models.AuditReport, error)
}

// AlertService defines the interface for the budget alert scan
type AlertService interface {
	ScanBudgets(ctx context.Context) (*models.AlertReport, error)
}

// WorkflowService defines the interface for multi-level approvals
type WorkflowService interface {
	Initiate(ctx context.Context, req *models.InitiateWorkflowRequest, initiator models.Identity) (*models.WorkflowInitiation, error)
	ProcessApproval(ctx context.Context, workflowID uuid.UUID, approver models.Identity, req *models.ApprovalRequest) (*models.ApprovalResult, error)
	Resubmit(ctx context.Context, workflowID uuid.UUID, actor models.Identity, comments string) (*models.ApprovalResult, error)
	Get(ctx context.Context, workflowID uuid.UUID) (*models.WorkflowDetail, error)
	List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, models.Pagination, error)
	AutoApprove(ctx context.Context, itemType string, itemID uuid.UUID, criteria models.AutoApproveCriteria) (*models.AutoApproveResult, error)
}

// ProgramStatusService defines the interface for the automated status pass
type ProgramStatusService interface {
	UpdateStatuses(ctx context.Context) (*models.StatusUpdateResult, error)
}

// BatchService defines the interface for batch operations
type BatchService interface {
	Process(ctx context.Context, req *models.BatchRequest, actor models.Identity) (*models.BatchResult, error)
}

// ScheduleService defines the interface for scheduled reports
type ScheduleService interface {
	Schedule(ctx context.Context, req *models.ScheduleRequest, actor models.Identity) (*models.ScheduleConfirmation, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Schedule, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// NotificationService defines the interface for user notifications
type NotificationService interface {
	Send(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page models.PageRequest) ([]*models.Notification, models.Pagination, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// AuditRecorder writes audit entries outside of request transactions
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}
