package repository

import (
	"context"
	"errors"
	"fmt"

	"oversight/database"
	"oversight/events"
	"oversight/service"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	entityRepo       service.EntityRepository
	programRepo      service.ProgramRepository
	projectRepo      service.ProjectRepository
	budgetRepo       service.BudgetRepository
	kpiRepo          service.KPIRepository
	reportingRepo    service.ReportingRepository
	ticketRepo       service.TicketRepository
	userRepo         service.UserRepository
	notificationRepo service.NotificationRepository
	workflowRepo     service.WorkflowRepository
	scheduleRepo     service.ScheduleRepository
	auditRepo        service.AuditRepository
	batchRepo        service.BatchRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.entityRepo = newEntityRepositoryWithTx(tx)
	u.programRepo = newProgramRepositoryWithTx(tx)
	u.projectRepo = newProjectRepositoryWithTx(tx)
	u.budgetRepo = newBudgetRepositoryWithTx(tx)
	u.kpiRepo = newKPIRepositoryWithTx(tx)
	u.reportingRepo = newReportingRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.userRepo = newUserRepositoryWithTx(tx)
	u.notificationRepo = newNotificationRepositoryWithTx(tx)
	u.workflowRepo = newWorkflowRepositoryWithTx(tx)
	u.scheduleRepo = newScheduleRepositoryWithTx(tx)
	u.auditRepo = newAuditRepositoryWithTx(tx)
	u.batchRepo = newBatchRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		if err := u.transactionalBus.Flush(u.ctx); err != nil {
			log.WithError(err).Warn("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// EntityRepository returns the entity repository for this unit of work
func (u *unitOfWork) EntityRepository() service.EntityRepository {
	if u.entityRepo == nil {
		panic(notStarted)
	}
	return u.entityRepo
}

// ProgramRepository returns the program repository for this unit of work
func (u *unitOfWork) ProgramRepository() service.ProgramRepository {
	if u.programRepo == nil {
		panic(notStarted)
	}
	return u.programRepo
}

// ProjectRepository returns the project repository for this unit of work
func (u *unitOfWork) ProjectRepository() service.ProjectRepository {
	if u.projectRepo == nil {
		panic(notStarted)
	}
	return u.projectRepo
}

// BudgetRepository returns the budget repository for this unit of work
func (u *unitOfWork) BudgetRepository() service.BudgetRepository {
	if u.budgetRepo == nil {
		panic(notStarted)
	}
	return u.budgetRepo
}

// KPIRepository returns the KPI repository for this unit of work
func (u *unitOfWork) KPIRepository() service.KPIRepository {
	if u.kpiRepo == nil {
		panic(notStarted)
	}
	return u.kpiRepo
}

// ReportingRepository returns the reporting repository for this unit of work
func (u *unitOfWork) ReportingRepository() service.ReportingRepository {
	if u.reportingRepo == nil {
		panic(notStarted)
	}
	return u.reportingRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() service.TicketRepository {
	if u.ticketRepo == nil {
		panic(notStarted)
	}
	return u.ticketRepo
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic(notStarted)
	}
	return u.userRepo
}

// NotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) NotificationRepository() service.NotificationRepository {
	if u.notificationRepo == nil {
		panic(notStarted)
	}
	return u.notificationRepo
}

// WorkflowRepository returns the workflow repository for this unit of work
func (u *unitOfWork) WorkflowRepository() service.WorkflowRepository {
	if u.workflowRepo == nil {
		panic(notStarted)
	}
	return u.workflowRepo
}

// ScheduleRepository returns the schedule repository for this unit of work
func (u *unitOfWork) ScheduleRepository() service.ScheduleRepository {
	if u.scheduleRepo == nil {
		panic(notStarted)
	}
	return u.scheduleRepo
}

// AuditRepository returns the audit repository for this unit of work
func (u *unitOfWork) AuditRepository() service.AuditRepository {
	if u.auditRepo == nil {
		panic(notStarted)
	}
	return u.auditRepo
}

// BatchRepository returns the batch repository for this unit of work
func (u *unitOfWork) BatchRepository() service.BatchRepository {
	if u.batchRepo == nil {
		panic(notStarted)
	}
	return u.batchRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic(notStarted)
	}
	return u.transactionalBus
}
