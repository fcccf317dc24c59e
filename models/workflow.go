package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowStatus is the state of an approval workflow
type WorkflowStatus string

const (
	WorkflowStatusPending          WorkflowStatus = "pending"
	WorkflowStatusAdvanced         WorkflowStatus = "advanced"
	WorkflowStatusApproved         WorkflowStatus = "approved"
	WorkflowStatusRejected         WorkflowStatus = "rejected"
	WorkflowStatusChangesRequested WorkflowStatus = "changes_requested"
)

// IsTerminal reports whether no further approval actions are accepted
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusApproved || s == WorkflowStatusRejected
}

// AcceptsApproval reports whether an approver may act in this state
func (s WorkflowStatus) AcceptsApproval() bool {
	return s == WorkflowStatusPending || s == WorkflowStatusAdvanced
}

// ApprovalAction is an approver's decision
type ApprovalAction string

const (
	ApprovalActionApprove        ApprovalAction = "approve"
	ApprovalActionReject         ApprovalAction = "reject"
	ApprovalActionRequestChanges ApprovalAction = "request_changes"
	ApprovalActionResubmit       ApprovalAction = "resubmit"
)

// IsValid reports whether a is one of the approver actions
func (a ApprovalAction) IsValid() bool {
	return a == ApprovalActionApprove || a == ApprovalActionReject || a == ApprovalActionRequestChanges
}

// WorkflowItemTypes lists the kinds of items a workflow may govern
var WorkflowItemTypes = []string{"program", "project", "budget", "entity"}

// ApprovalLevel is one step of a workflow and the identities allowed to act on it
type ApprovalLevel struct {
	Name      string   `json:"name,omitempty"`
	Approvers []string `json:"approvers"`
}

// HasApprover reports whether id may act on this level
func (l ApprovalLevel) HasApprover(id string) bool {
	for _, a := range l.Approvers {
		if a == id {
			return true
		}
	}
	return false
}

// Workflow is a durable multi-level approval record
type Workflow struct {
	ID                  uuid.UUID       `json:"workflow_id"`
	ItemType            string          `json:"item_type"`
	ItemID              uuid.UUID       `json:"item_id"`
	InitiatorID         string          `json:"initiator_id"`
	Status              WorkflowStatus  `json:"status"`
	CurrentLevel        int             `json:"current_level"`
	TotalLevels         int             `json:"total_levels"`
	ApprovalLevels      []ApprovalLevel `json:"approval_levels"`
	Version             int             `json:"version"`
	LastComment         *string         `json:"last_comment"`
	EstimatedCompletion time.Time       `json:"estimated_completion"`
	CompletedAt         *time.Time      `json:"completed_at"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Level returns the approval level at the 1-based index, or nil when out of range
func (w *Workflow) Level(index int) *ApprovalLevel {
	if index < 1 || index > len(w.ApprovalLevels) {
		return nil
	}
	return &w.ApprovalLevels[index-1]
}

// WorkflowAction records one approver decision
type WorkflowAction struct {
	ID         uuid.UUID      `json:"action_id"`
	WorkflowID uuid.UUID      `json:"workflow_id"`
	ApproverID string         `json:"approver_id"`
	Level      int            `json:"level"`
	Action     ApprovalAction `json:"action"`
	Comments   string         `json:"comments"`
	CreatedAt  time.Time      `json:"created_at"`
}

// WorkflowDetail is a workflow with its action history
type WorkflowDetail struct {
	*Workflow
	Actions []*WorkflowAction `json:"actions"`
}

// WorkflowFilter narrows workflow listings
type WorkflowFilter struct {
	Status   string
	ItemType string
}

// InitiateWorkflowRequest starts a workflow
type InitiateWorkflowRequest struct {
	ItemType       string          `json:"item_type"`
	ItemID         string          `json:"item_id"`
	ApprovalLevels []ApprovalLevel `json:"approval_levels"`
}

// WorkflowInitiation is returned when a workflow starts
type WorkflowInitiation struct {
	WorkflowID          uuid.UUID `json:"workflow_id"`
	Status              string    `json:"status"`
	CurrentLevel        int       `json:"current_level"`
	TotalLevels         int       `json:"total_levels"`
	NextApprovers       []string  `json:"next_approvers"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// ApprovalRequest is an approver decision on a workflow
type ApprovalRequest struct {
	Action        ApprovalAction `json:"action"`
	Comments      string         `json:"comments"`
	ExpectedLevel *int           `json:"expected_level,omitempty"`
}

// ApprovalResult reports the workflow state after an action
type ApprovalResult struct {
	WorkflowID    uuid.UUID      `json:"workflow_id"`
	Status        WorkflowStatus `json:"status"`
	CurrentLevel  int            `json:"current_level"`
	TotalLevels   int            `json:"total_levels"`
	Message       string         `json:"message"`
	NextApprovers []string       `json:"next_approvers,omitempty"`
}

// AutoApproveCriteria configures automatic approval
type AutoApproveCriteria struct {
	AmountThreshold float64 `json:"amount_threshold"`
}

// AutoApproveResult reports whether an item qualified for automatic approval
type AutoApproveResult struct {
	AutoApproved           bool       `json:"auto_approved"`
	Reasons                []string   `json:"reasons,omitempty"`
	ApprovedAt             *time.Time `json:"approved_at,omitempty"`
	RequiresManualApproval bool       `json:"requires_manual_approval,omitempty"`
}
