package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oversight/analytics"
	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type scheduleService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewScheduleService creates a new report schedule service
func NewScheduleService(uowFactory UnitOfWorkFactory) ScheduleService {
	return &scheduleService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Schedule records a recurring report. Schedules are advisory and nothing runs them.
func (s *scheduleService) Schedule(ctx context.Context, req *models.ScheduleRequest, actor models.Identity) (*models.ScheduleConfirmation, error) {
	if !oneOf(req.ReportType, models.ReportTypes) {
		return nil, NewValidationError("report_type", "must be one of %v", models.ReportTypes)
	}
	if !req.Frequency.IsValid() {
		return nil, NewValidationError("frequency", "must be one of daily, weekly, monthly, quarterly")
	}

	recipients := make([]string, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		return nil, NewValidationError("recipients", "at least one recipient is required")
	}

	filters := req.Filters
	if filters == nil {
		filters = map[string]any{}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	schedule := &models.Schedule{
		ReportType: req.ReportType,
		Frequency:  req.Frequency,
		Recipients: recipients,
		Filters:    filters,
		NextRun:    analytics.NextRun(req.Frequency, s.now().UTC()),
		Active:     true,
		CreatedBy:  actor.UserID,
	}
	if err := uow.ScheduleRepository().Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"scheduleID": schedule.ID,
		"reportType": schedule.ReportType,
		"frequency":  schedule.Frequency,
	}).Info("Report scheduled")

	return &models.ScheduleConfirmation{
		ScheduleID: schedule.ID,
		Status:     "scheduled",
		NextRun:    schedule.NextRun,
		Recipients: schedule.Recipients,
	}, nil
}

func (s *scheduleService) List(ctx context.Context, activeOnly bool) ([]*models.Schedule, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	schedules, err := uow.ScheduleRepository().List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (s *scheduleService) Cancel(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	found, err := uow.ScheduleRepository().Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cancel schedule: %w", err)
	}
	if !found {
		return notFound("schedule", id)
	}
	return uow.Commit()
}
