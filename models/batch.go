package models

import "github.com/google/uuid"

// Batch operations
const (
	BatchUpdate  = "bulk_update"
	BatchDelete  = "bulk_delete"
	BatchApprove = "bulk_approve"
)

// BatchTable is a table the batch processor may touch
type BatchTable struct {
	IDColumn string
	Fields   FieldSpec
}

// BatchTables whitelists the tables reachable through batch operations
var BatchTables = map[string]BatchTable{
	"dga_entities": {IDColumn: "entity_id", Fields: EntityFields},
	"dga_programs": {IDColumn: "program_id", Fields: ProgramFields},
	"dga_projects": {IDColumn: "project_id", Fields: ProjectFields},
	"dga_budget":   {IDColumn: "budget_id", Fields: BudgetFields},
	"dga_tickets":  {IDColumn: "ticket_id", Fields: TicketFields},
}

// BatchItem is one operation of a batch request
type BatchItem struct {
	Operation  string         `json:"operation,omitempty"`
	Table      string         `json:"table,omitempty"`
	ID         string         `json:"id,omitempty"`
	Updates    map[string]any `json:"updates,omitempty"`
	WorkflowID string         `json:"workflow_id,omitempty"`
}

// BatchRequest is a list of operations sharing a default operation type
type BatchRequest struct {
	OperationType string       `json:"operation_type"`
	Items         []*BatchItem `json:"items"`
}

// BatchFailure pairs a failed item with its error message
type BatchFailure struct {
	Item  *BatchItem `json:"item"`
	Error string     `json:"error"`
}

// BatchResult always carries both lists
type BatchResult struct {
	Success     []uuid.UUID     `json:"success"`
	Failed      []*BatchFailure `json:"failed"`
	Total       int             `json:"total"`
	Succeeded   int             `json:"succeeded"`
	FailedCount int             `json:"failed_count"`
}
