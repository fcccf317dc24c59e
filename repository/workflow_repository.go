package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workflowColumns = `workflow_id, item_type, item_id, initiator_id, status, current_level, total_levels,
	approval_levels, version, last_comment, estimated_completion, completed_at, created_at, updated_at`

// WorkflowRepository implements the WorkflowRepository interface
type WorkflowRepository struct {
	q queryable
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *database.DB) *WorkflowRepository {
	return &WorkflowRepository{q: db.Pool}
}

// newWorkflowRepositoryWithTx creates a new workflow repository with a transaction
func newWorkflowRepositoryWithTx(tx queryable) *WorkflowRepository {
	return &WorkflowRepository{q: tx}
}

func scanWorkflow(row scanner) (*models.Workflow, error) {
	var w models.Workflow
	err := row.Scan(
		&w.ID,
		&w.ItemType,
		&w.ItemID,
		&w.InitiatorID,
		&w.Status,
		&w.CurrentLevel,
		&w.TotalLevels,
		&w.ApprovalLevels,
		&w.Version,
		&w.LastComment,
		&w.EstimatedCompletion,
		&w.CompletedAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a workflow; approval levels are stored as JSONB
func (r *WorkflowRepository) Create(ctx context.Context, workflow *models.Workflow) error {
	query := `
		INSERT INTO dga_workflows (
			item_type, item_id, initiator_id, status, current_level, total_levels,
			approval_levels, estimated_completion
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + workflowColumns

	created, err := scanWorkflow(r.q.QueryRow(ctx, query,
		workflow.ItemType,
		workflow.ItemID,
		workflow.InitiatorID,
		workflow.Status,
		workflow.CurrentLevel,
		workflow.TotalLevels,
		workflow.ApprovalLevels,
		workflow.EstimatedCompletion,
	))
	if err != nil {
		return fmt.Errorf("failed to create workflow for %s %s: %w", workflow.ItemType, workflow.ItemID, err)
	}

	*workflow = *created
	return nil
}

func (r *WorkflowRepository) get(ctx context.Context, id uuid.UUID, lock bool) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM dga_workflows WHERE workflow_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	workflow, err := scanWorkflow(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow %s: %w", id, err)
	}
	return workflow, nil
}

// GetByID retrieves a workflow by its ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate reads a workflow and holds its row lock until the transaction ends
func (r *WorkflowRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Workflow, error) {
	return r.get(ctx, id, true)
}

// UpdateState writes the mutable workflow columns when the stored version matches
func (r *WorkflowRepository) UpdateState(ctx context.Context, workflow *models.Workflow, expectedVersion int) (bool, error) {
	query := `
		UPDATE dga_workflows
		SET status = $1,
			current_level = $2,
			last_comment = $3,
			completed_at = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE workflow_id = $5 AND version = $6
		RETURNING version, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		workflow.Status,
		workflow.CurrentLevel,
		workflow.LastComment,
		workflow.CompletedAt,
		workflow.ID,
		expectedVersion,
	).Scan(&workflow.Version, &workflow.UpdatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update workflow %s: %w", workflow.ID, err)
	}
	return true, nil
}

// List returns one page of workflows, newest first
func (r *WorkflowRepository) List(ctx context.Context, filter models.WorkflowFilter, page models.PageRequest) ([]*models.Workflow, int, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}
	if filter.ItemType != "" {
		where = append(where, sq.Eq{"item_type": filter.ItemType})
	}

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_workflows").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count workflows: %w", err)
	}

	workflows, err := queryList(ctx, r.q, psql.Select(workflowColumns).
		From("dga_workflows").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanWorkflow)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, total, nil
}

// AddAction records an approver decision
func (r *WorkflowRepository) AddAction(ctx context.Context, action *models.WorkflowAction) error {
	query := `
		INSERT INTO dga_workflow_actions (workflow_id, approver_id, level, action, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING action_id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		action.WorkflowID,
		action.ApproverID,
		action.Level,
		action.Action,
		action.Comments,
	).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s on workflow %s: %w", action.Action, action.WorkflowID, err)
	}
	return nil
}

// ListActions returns a workflow's decisions in the order they were made
func (r *WorkflowRepository) ListActions(ctx context.Context, workflowID uuid.UUID) ([]*models.WorkflowAction, error) {
	builder := psql.Select("action_id", "workflow_id", "approver_id", "level", "action", "comments", "created_at").
		From("dga_workflow_actions").
		Where(sq.Eq{"workflow_id": workflowID}).
		OrderBy("created_at")

	actions, err := queryList(ctx, r.q, builder, func(row scanner) (*models.WorkflowAction, error) {
		var a models.WorkflowAction
		if err := row.Scan(&a.ID, &a.WorkflowID, &a.ApproverID, &a.Level, &a.Action, &a.Comments, &a.CreatedAt); err != nil {
			return nil, err
		}
		return &a, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions for workflow %s: %w", workflowID, err)
	}
	return actions, nil
}
