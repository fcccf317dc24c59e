package service

import (
	"context"
	"fmt"

	"oversight/models"
	"oversight/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxBatchItems = 500

var batchOperations = []string{models.BatchUpdate, models.BatchDelete, models.BatchApprove}

type batchService struct {
	uowFactory UnitOfWorkFactory
	workflows  WorkflowService
	metrics    *observability.Metrics
}

// NewBatchService creates a batch processor. Approvals are delegated to workflows.
func NewBatchService(uowFactory UnitOfWorkFactory, workflows WorkflowService, metrics *observability.Metrics) BatchService {
	return &batchService{
		uowFactory: uowFactory,
		workflows:  workflows,
		metrics:    metrics,
	}
}

// Process runs items in order, each in its own transaction. A failing item is reported
// in the result and never stops the rest of the batch.
func (s *batchService) Process(ctx context.Context, req *models.BatchRequest, actor models.Identity) (*models.BatchResult, error) {
	if len(req.Items) == 0 {
		return nil, NewValidationError("items", "at least one item is required")
	}
	if len(req.Items) > maxBatchItems {
		return nil, NewValidationError("items", "at most %d items per batch", maxBatchItems)
	}
	if req.OperationType != "" && !oneOf(req.OperationType, batchOperations) {
		return nil, NewValidationError("operation_type", "must be one of %v", batchOperations)
	}

	result := &models.BatchResult{
		Success: []uuid.UUID{},
		Failed:  []*models.BatchFailure{},
		Total:   len(req.Items),
	}

	for _, item := range req.Items {
		operation := req.OperationType
		if item != nil && item.Operation != "" {
			operation = item.Operation
		}

		id, err := s.processItem(ctx, operation, item, actor)
		if err != nil {
			fields := log.Fields{"operation": operation, "actor": actor.UserID}
			if item != nil {
				fields["table"] = item.Table
				fields["id"] = item.ID
				fields["workflow_id"] = item.WorkflowID
			}
			log.WithFields(fields).WithError(err).Warn("Batch item failed")
			result.Failed = append(result.Failed, &models.BatchFailure{Item: item, Error: clientMessage(err, "Operation failed")})
			s.metrics.BatchItem(operation, "failed")
			continue
		}
		result.Success = append(result.Success, id)
		s.metrics.BatchItem(operation, "ok")
	}

	result.Succeeded = len(result.Success)
	result.FailedCount = len(result.Failed)

	log.WithFields(log.Fields{
		"operation": req.OperationType,
		"total":     result.Total,
		"succeeded": result.Succeeded,
		"failed":    result.FailedCount,
		"actor":     actor.UserID,
	}).Info("Batch processed")
	return result, nil
}

func (s *batchService) processItem(ctx context.Context, operation string, item *models.BatchItem, actor models.Identity) (uuid.UUID, error) {
	if item == nil {
		return uuid.Nil, NewValidationError("", "item is empty")
	}

	switch operation {
	case models.BatchUpdate:
		return s.updateItem(ctx, item)
	case models.BatchDelete:
		return s.deleteItem(ctx, item)
	case models.BatchApprove:
		workflowID, err := uuid.Parse(item.WorkflowID)
		if err != nil {
			return uuid.Nil, NewValidationError("workflow_id", "invalid workflow_id %q", item.WorkflowID)
		}
		_, err = s.workflows.ProcessApproval(ctx, workflowID, actor, &models.ApprovalRequest{
			Action: models.ApprovalActionApprove,
		})
		if err != nil {
			return uuid.Nil, err
		}
		return workflowID, nil
	case "":
		return uuid.Nil, NewValidationError("operation", "is required")
	default:
		return uuid.Nil, NewValidationError("operation", "unknown operation %q", operation)
	}
}

// target validates the table and id of an item
func (s *batchService) target(item *models.BatchItem) (models.BatchTable, uuid.UUID, error) {
	table, ok := models.BatchTables[item.Table]
	if !ok {
		return models.BatchTable{}, uuid.Nil, NewValidationError("", "table %q is not allowed", item.Table)
	}
	id, err := uuid.Parse(item.ID)
	if err != nil {
		return models.BatchTable{}, uuid.Nil, NewValidationError("id", "invalid id %q", item.ID)
	}
	return table, id, nil
}

func (s *batchService) updateItem(ctx context.Context, item *models.BatchItem) (uuid.UUID, error) {
	table, id, err := s.target(item)
	if err != nil {
		return uuid.Nil, err
	}
	fields, err := coerceUpdates(table.Fields, item.Updates)
	if err != nil {
		return uuid.Nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	found, err := uow.BatchRepository().UpdateRow(ctx, item.Table, id, fields)
	if err != nil {
		return uuid.Nil, err
	}
	if !found {
		return uuid.Nil, notFound("record", id)
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (s *batchService) deleteItem(ctx context.Context, item *models.BatchItem) (uuid.UUID, error) {
	_, id, err := s.target(item)
	if err != nil {
		return uuid.Nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	found, err := uow.BatchRepository().DeleteRow(ctx, item.Table, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !found {
		return uuid.Nil, notFound("record", id)
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}
