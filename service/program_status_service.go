package service

import (
	"context"
	"fmt"
	"time"

	"oversight/analytics"
	"oversight/events"
	"oversight/models"
	"oversight/observability"

	log "github.com/sirupsen/logrus"
)

const (
	delayedAfterDays   = 90
	delayedMinProgress = 30
)

type programStatusService struct {
	uowFactory UnitOfWorkFactory
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewProgramStatusService creates the automated program status updater
func NewProgramStatusService(uowFactory UnitOfWorkFactory, metrics *observability.Metrics) ProgramStatusService {
	return &programStatusService{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
	}
}

type statusTransition struct {
	program *models.Program
	to      models.ProgramStatus
	reason  string
}

// UpdateStatuses moves In Progress programs to Delayed or Completed. Each transition
// commits on its own and is skipped when the program left In Progress in the meantime.
func (s *programStatusService) UpdateStatuses(ctx context.Context) (*models.StatusUpdateResult, error) {
	now := s.now().UTC()

	programs, err := s.inProgress(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.StatusUpdateResult{Updates: []*models.ProgramStatusChange{}}
	for _, p := range programs {
		transition := classifyProgress(p, now)
		if transition == nil {
			continue
		}

		change, err := s.apply(ctx, transition, now)
		if err != nil {
			log.WithError(err).WithField("programID", p.ID).Error("Failed to update program status")
			continue
		}
		if change == nil {
			log.WithField("programID", p.ID).Debug("Program status changed concurrently, skipping")
			continue
		}
		result.Updates = append(result.Updates, change)
	}
	result.UpdatedCount = len(result.Updates)

	if result.UpdatedCount > 0 {
		log.WithField("updated", result.UpdatedCount).Info("Program statuses updated")
	}
	return result, nil
}

func (s *programStatusService) inProgress(ctx context.Context) ([]*models.Program, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	programs, err := uow.ProgramRepository().ListInProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list in-progress programs: %w", err)
	}
	return programs, nil
}

// classifyProgress returns the transition an In Progress program is due, if any
func classifyProgress(p *models.Program, now time.Time) *statusTransition {
	switch {
	case analytics.DaysSince(p.StartDate.Time, now) > delayedAfterDays && p.ProgressPercentage < delayedMinProgress:
		return &statusTransition{program: p, to: models.ProgramStatusDelayed, reason: "Behind schedule"}
	case p.ProgressPercentage >= 100:
		return &statusTransition{program: p, to: models.ProgramStatusCompleted, reason: "Progress reached 100%"}
	default:
		return nil
	}
}

// apply runs one transition in its own transaction. A nil change means the conditional
// update matched no row.
func (s *programStatusService) apply(ctx context.Context, t *statusTransition, now time.Time) (*models.ProgramStatusChange, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var completedAt *time.Time
	if t.to == models.ProgramStatusCompleted {
		completedAt = &now
	}

	ok, err := uow.ProgramRepository().TransitionStatus(ctx, t.program.ID, models.ProgramStatusInProgress, t.to, completedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	change := &models.ProgramStatusChange{
		ProgramID: t.program.ID,
		OldStatus: models.ProgramStatusInProgress,
		NewStatus: t.to,
		Reason:    t.reason,
		ChangedAt: now,
	}
	if err := uow.ProgramRepository().RecordStatusChange(ctx, change); err != nil {
		return nil, fmt.Errorf("failed to record status change: %w", err)
	}

	uow.EventBus().Publish(events.ProgramStatusChangedEvent{
		ProgramID:   t.program.ID,
		ProgramName: t.program.Name,
		EntityID:    t.program.EntityID,
		Director:    t.program.Director,
		OldStatus:   models.ProgramStatusInProgress,
		NewStatus:   t.to,
		Reason:      t.reason,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.ProgramTransition(t.to)
	log.WithFields(log.Fields{
		"programID": t.program.ID,
		"status":    t.to,
		"reason":    t.reason,
	}).Info("Program status changed")
	return change, nil
}
