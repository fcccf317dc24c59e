package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oversight/analytics"
	"oversight/events"
	"oversight/models"
	"oversight/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type workflowService struct {
	uowFactory UnitOfWorkFactory
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewWorkflowService creates a new approval workflow service
func NewWorkflowService(uowFactory UnitOfWorkFactory, metrics *observability.Metrics) WorkflowService {
	return &workflowService{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Initiate persists a workflow at level one and notifies the first approvers once committed
func (s *workflowService) Initiate(ctx context.Context, req *models.InitiateWorkflowRequest, initiator models.Identity) (*models.WorkflowInitiation, error) {
	if !oneOf(req.ItemType, models.WorkflowItemTypes) {
		return nil, NewValidationError("item_type", "must be one of %v", models.WorkflowItemTypes)
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, NewValidationError("item_id", "must be a valid id")
	}
	if len(req.ApprovalLevels) == 0 {
		return nil, NewValidationError("approval_levels", "at least one level is required")
	}

	levels := make([]models.ApprovalLevel, 0, len(req.ApprovalLevels))
	for i, level := range req.ApprovalLevels {
		approvers := make([]string, 0, len(level.Approvers))
		for _, a := range level.Approvers {
			if a = strings.TrimSpace(a); a != "" {
				approvers = append(approvers, a)
			}
		}
		if len(approvers) == 0 {
			return nil, NewValidationError("approval_levels", "level %d has no approvers", i+1)
		}
		levels = append(levels, models.ApprovalLevel{Name: level.Name, Approvers: approvers})
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	workflow := &models.Workflow{
		ItemType:            req.ItemType,
		ItemID:              itemID,
		InitiatorID:         initiator.UserID,
		Status:              models.WorkflowStatusPending,
		CurrentLevel:        1,
		TotalLevels:         len(levels),
		ApprovalLevels:      levels,
		EstimatedCompletion: analytics.EstimatedCompletion(len(levels), s.now().UTC()),
	}
	if err := uow.WorkflowRepository().Create(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	uow.EventBus().Publish(events.WorkflowInitiatedEvent{
		WorkflowID: workflow.ID,
		ItemType:   workflow.ItemType,
		ItemID:     workflow.ItemID,
		Approvers:  levels[0].Approvers,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.WorkflowAction("initiate", "ok")
	log.WithFields(log.Fields{
		"workflowID": workflow.ID,
		"itemType":   workflow.ItemType,
		"itemID":     workflow.ItemID,
		"levels":     workflow.TotalLevels,
	}).Info("Workflow initiated")

	return &models.WorkflowInitiation{
		WorkflowID:          workflow.ID,
		Status:              "initiated",
		CurrentLevel:        workflow.CurrentLevel,
		TotalLevels:         workflow.TotalLevels,
		NextApprovers:       levels[0].Approvers,
		EstimatedCompletion: workflow.EstimatedCompletion,
	}, nil
}

// ProcessApproval applies one approver decision. The workflow row stays locked for the whole
// transaction and the write is guarded by the version that was read, so two approvers acting
// on the same level cannot both succeed.
func (s *workflowService) ProcessApproval(ctx context.Context, workflowID uuid.UUID, approver models.Identity, req *models.ApprovalRequest) (result *models.ApprovalResult, err error) {
	if !req.Action.IsValid() {
		return nil, NewValidationError("action", "must be one of approve, reject, request_changes")
	}
	defer func() {
		s.metrics.WorkflowAction(string(req.Action), outcome(err))
	}()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	workflow, err := uow.WorkflowRepository().GetByIDForUpdate(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	if workflow == nil {
		return nil, notFound("workflow", workflowID)
	}
	if !workflow.Status.AcceptsApproval() {
		return nil, conflict("workflow %s is %s", workflowID, workflow.Status)
	}
	if req.ExpectedLevel != nil && *req.ExpectedLevel != workflow.CurrentLevel {
		return nil, conflict("workflow %s is at level %d, not %d", workflowID, workflow.CurrentLevel, *req.ExpectedLevel)
	}

	level := workflow.Level(workflow.CurrentLevel)
	if approver.Role != models.RoleAdmin && (level == nil || !isApprover(*level, approver)) {
		return nil, forbidden("%s is not an approver for level %d", approver.UserID, workflow.CurrentLevel)
	}

	if err := uow.WorkflowRepository().AddAction(ctx, &models.WorkflowAction{
		WorkflowID: workflow.ID,
		ApproverID: approver.UserID,
		Level:      workflow.CurrentLevel,
		Action:     req.Action,
		Comments:   req.Comments,
	}); err != nil {
		return nil, fmt.Errorf("failed to record approval action: %w", err)
	}

	expectedVersion := workflow.Version
	result = &models.ApprovalResult{WorkflowID: workflow.ID}
	var event events.Event

	switch req.Action {
	case models.ApprovalActionApprove:
		if workflow.CurrentLevel < workflow.TotalLevels {
			workflow.CurrentLevel++
			workflow.Status = models.WorkflowStatusAdvanced
			next := workflow.Level(workflow.CurrentLevel).Approvers
			result.NextApprovers = next
			result.Message = fmt.Sprintf("Approved, advanced to level %d of %d", workflow.CurrentLevel, workflow.TotalLevels)
			event = events.WorkflowAdvancedEvent{
				WorkflowID: workflow.ID,
				ItemType:   workflow.ItemType,
				ItemID:     workflow.ItemID,
				Level:      workflow.CurrentLevel,
				Approvers:  next,
			}
		} else {
			completed := s.now().UTC()
			workflow.Status = models.WorkflowStatusApproved
			workflow.CompletedAt = &completed
			result.Message = "Workflow fully approved"
			event = s.completedEvent(workflow, req.Comments)
		}
	case models.ApprovalActionReject:
		completed := s.now().UTC()
		workflow.Status = models.WorkflowStatusRejected
		workflow.CompletedAt = &completed
		workflow.LastComment = commentOrNil(req.Comments)
		result.Message = "Workflow rejected"
		event = s.completedEvent(workflow, req.Comments)
	case models.ApprovalActionRequestChanges:
		workflow.Status = models.WorkflowStatusChangesRequested
		workflow.LastComment = commentOrNil(req.Comments)
		result.Message = "Changes requested from initiator"
		event = events.WorkflowChangesRequestedEvent{
			WorkflowID:  workflow.ID,
			ItemType:    workflow.ItemType,
			ItemID:      workflow.ItemID,
			InitiatorID: workflow.InitiatorID,
			ApproverID:  approver.UserID,
			Comments:    req.Comments,
		}
	}

	ok, err := uow.WorkflowRepository().UpdateState(ctx, workflow, expectedVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflict("workflow %s was modified concurrently", workflowID)
	}

	uow.EventBus().Publish(event)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.Status = workflow.Status
	result.CurrentLevel = workflow.CurrentLevel
	result.TotalLevels = workflow.TotalLevels

	log.WithFields(log.Fields{
		"workflowID": workflow.ID,
		"approver":   approver.UserID,
		"action":     req.Action,
		"status":     workflow.Status,
		"level":      workflow.CurrentLevel,
	}).Info("Workflow approval processed")
	return result, nil
}

// Resubmit reopens a workflow paused for changes at the level that requested them
func (s *workflowService) Resubmit(ctx context.Context, workflowID uuid.UUID, actor models.Identity, comments string) (result *models.ApprovalResult, err error) {
	defer func() {
		s.metrics.WorkflowAction(string(models.ApprovalActionResubmit), outcome(err))
	}()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	workflow, err := uow.WorkflowRepository().GetByIDForUpdate(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	if workflow == nil {
		return nil, notFound("workflow", workflowID)
	}
	if workflow.Status != models.WorkflowStatusChangesRequested {
		return nil, conflict("workflow %s is %s", workflowID, workflow.Status)
	}
	if actor.Role != models.RoleAdmin && actor.UserID != workflow.InitiatorID {
		return nil, forbidden("only the initiator may resubmit workflow %s", workflowID)
	}

	if err := uow.WorkflowRepository().AddAction(ctx, &models.WorkflowAction{
		WorkflowID: workflow.ID,
		ApproverID: actor.UserID,
		Level:      workflow.CurrentLevel,
		Action:     models.ApprovalActionResubmit,
		Comments:   comments,
	}); err != nil {
		return nil, fmt.Errorf("failed to record resubmission: %w", err)
	}

	expectedVersion := workflow.Version
	workflow.Status = models.WorkflowStatusPending
	workflow.LastComment = commentOrNil(comments)

	ok, err := uow.WorkflowRepository().UpdateState(ctx, workflow, expectedVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflict("workflow %s was modified concurrently", workflowID)
	}

	approvers := workflow.Level(workflow.CurrentLevel).Approvers
	uow.EventBus().Publish(events.WorkflowAdvancedEvent{
		WorkflowID: workflow.ID,
		ItemType:   workflow.ItemType,
		ItemID:     workflow.ItemID,
		Level:      workflow.CurrentLevel,
		Approvers:  approvers,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ApprovalResult{
		WorkflowID:    workflow.ID,
		Status:        workflow.Status,
		CurrentLevel:  workflow.CurrentLevel,
		TotalLevels:   workflow.TotalLevels,
		Message:       fmt.Sprintf("Resubmitted for level %d approval", workflow.CurrentLevel),
		NextApprovers: approvers,
	}, nil
}

func (s *workflowService) Get(ctx context.Context, workflowID uuid.UUID) (*models.WorkflowDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	workflow, err := uow.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	if workflow == nil {
		return nil, notFound("workflow", workflowID)
	}

	actions, err := uow.WorkflowRepository().ListActions(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow actions: %w", err)
	}
	return &models.WorkflowDetail{Workflow: workflow, Actions: actions}, nil
}

func (s *workflowService) List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	workflows, total, err := uow.WorkflowRepository().List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, models.NewPagination(page, total), nil
}

// AutoApprove reports whether an item qualifies for approval without a workflow: budgets
// allocated below the threshold and low priority programs do
func (s *workflowService) AutoApprove(ctx context.Context, itemType string, itemID uuid.UUID, criteria models.AutoApproveCriteria) (*models.AutoApproveResult, error) {
	if !oneOf(itemType, models.WorkflowItemTypes) {
		return nil, NewValidationError("item_type", "must be one of %v", models.WorkflowItemTypes)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var reasons []string
	switch itemType {
	case "budget":
		budget, err := uow.BudgetRepository().GetByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get budget: %w", err)
		}
		if budget == nil {
			return nil, notFound(itemType, itemID)
		}
		if budget.AllocatedAmount < criteria.AmountThreshold {
			reasons = append(reasons, fmt.Sprintf("Budget under threshold (%g)", criteria.AmountThreshold))
		}
	case "program":
		program, err := uow.ProgramRepository().GetByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get program: %w", err)
		}
		if program == nil {
			return nil, notFound(itemType, itemID)
		}
		if program.Priority == models.PriorityLow {
			reasons = append(reasons, "Low priority program")
		}
	}

	if len(reasons) == 0 {
		return &models.AutoApproveResult{RequiresManualApproval: true}, nil
	}

	approvedAt := s.now().UTC()
	s.metrics.WorkflowAction("auto_approve", "ok")
	log.WithFields(log.Fields{
		"itemType": itemType,
		"itemID":   itemID,
		"reasons":  reasons,
	}).Info("Item auto-approved")
	return &models.AutoApproveResult{
		AutoApproved: true,
		Reasons:      reasons,
		ApprovedAt:   &approvedAt,
	}, nil
}

func (s *workflowService) completedEvent(workflow *models.Workflow, comments string) events.WorkflowCompletedEvent {
	return events.WorkflowCompletedEvent{
		WorkflowID:  workflow.ID,
		ItemType:    workflow.ItemType,
		ItemID:      workflow.ItemID,
		InitiatorID: workflow.InitiatorID,
		Status:      workflow.Status,
		Comments:    comments,
	}
}

// isApprover matches the caller by user id or email
func isApprover(level models.ApprovalLevel, identity models.Identity) bool {
	return level.HasApprover(identity.UserID) || (identity.Email != "" && level.HasApprover(identity.Email))
}

func commentOrNil(comment string) *string {
	if comment = strings.TrimSpace(comment); comment == "" {
		return nil
	}
	return &comment
}

// outcome labels an operation result for metrics
func outcome(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &validationErr):
		return "invalid"
	default:
		return "error"
	}
}
