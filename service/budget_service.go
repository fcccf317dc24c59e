package service

import (
	"context"
	"fmt"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var quarters = []string{"Q1", "Q2", "Q3", "Q4"}

type budgetService struct {
	uowFactory UnitOfWorkFactory
}

// NewBudgetService creates a new budget service
func NewBudgetService(uowFactory UnitOfWorkFactory) BudgetService {
	return &budgetService{
		uowFactory: uowFactory,
	}
}

func (s *budgetService) Overview(ctx context.Context) (*models.BudgetOverview, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	overview, err := uow.BudgetRepository().Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget overview: %w", err)
	}
	return overview, nil
}

func (s *budgetService) ForEntity(ctx context.Context, entityID uuid.UUID) (*models.EntityBudget, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entity, err := uow.EntityRepository().GetByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	if entity == nil {
		return nil, notFound("entity", entityID)
	}

	records, err := uow.BudgetRepository().ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity budget records: %w", err)
	}
	totals, err := uow.BudgetRepository().TotalsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity budget totals: %w", err)
	}
	return &models.EntityBudget{Records: records, Totals: *totals}, nil
}

// Create inserts a budget line; a zero remaining amount is derived from the other amounts
func (s *budgetService) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	if budget.EntityID == uuid.Nil {
		return nil, NewValidationError("entity_id", "is required")
	}
	if budget.FiscalYear < 2000 || budget.FiscalYear > 2100 {
		return nil, NewValidationError("fiscal_year", "must be between 2000 and 2100")
	}
	if err := required([2]string{"budget_category", budget.Category}); err != nil {
		return nil, err
	}
	if budget.Quarter != nil && !oneOf(*budget.Quarter, quarters) {
		return nil, NewValidationError("quarter", "must be one of %v", quarters)
	}
	if budget.AllocatedAmount < 0 || budget.SpentAmount < 0 || budget.CommittedAmount < 0 {
		return nil, NewValidationError("allocated_amount", "amounts cannot be negative")
	}
	if budget.RemainingAmount == 0 {
		budget.RemainingAmount = budget.AllocatedAmount - budget.SpentAmount - budget.CommittedAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.BudgetRepository().Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"budgetID":   budget.ID,
		"entityID":   budget.EntityID,
		"fiscalYear": budget.FiscalYear,
		"allocated":  budget.AllocatedAmount,
	}).Info("Budget record created")
	return budget, nil
}

func (s *budgetService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Budget, error) {
	fields, err := coerceUpdates(models.BudgetFields, updates)
	if err != nil {
		return nil, err
	}
	if q, ok := fields["quarter"].(string); ok && !oneOf(q, quarters) {
		return nil, NewValidationError("quarter", "must be one of %v", quarters)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	budget, err := uow.BudgetRepository().Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	if budget == nil {
		return nil, notFound("budget", id)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return budget, nil
}
