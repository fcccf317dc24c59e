package service

import (
	"context"
	"fmt"
	"time"

	"oversight/analytics"
	"oversight/models"
	"oversight/observability"

	log "github.com/sirupsen/logrus"
)

type alertService struct {
	uowFactory UnitOfWorkFactory
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewAlertService creates a new budget alert service
func NewAlertService(uowFactory UnitOfWorkFactory, metrics *observability.Metrics) AlertService {
	return &alertService{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
	}
}

// ScanBudgets classifies every budget record. Nothing is persisted.
func (s *alertService) ScanBudgets(ctx context.Context) (*models.AlertReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.BudgetRepository().ListWithEntity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	report := analytics.ScanBudgets(records, s.now())
	s.metrics.SetBudgetAlerts(&report)

	if report.Critical > 0 {
		log.WithFields(log.Fields{
			"critical": report.Critical,
			"total":    report.TotalAlerts,
		}).Warn("Budget overruns detected")
	}
	return &report, nil
}
