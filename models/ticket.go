package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ticket statuses
const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusResolved   = "Resolved"
	TicketStatusClosed     = "Closed"
)

// TicketCategories lists the accepted ticket categories
var TicketCategories = []string{
	"Technical Issue", "Access Request", "Data Correction", "Feature Request",
	"Bug Report", "Training", "Other",
}

// Ticket is a support request raised by a user
type Ticket struct {
	ID          uuid.UUID  `json:"ticket_id"`
	Number      string     `json:"ticket_number"`
	EntityID    *uuid.UUID `json:"entity_id"`
	ProgramID   *uuid.UUID `json:"program_id"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Resolution  *string    `json:"resolution"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CreatorName string `json:"created_by_name,omitempty"`
}

// TicketFilter narrows ticket listings
type TicketFilter struct {
	Status   string
	Priority string
}

// FormatTicketNumber renders TKT-YYYY-NNNNNN
func FormatTicketNumber(year int, seq int64) string {
	return fmt.Sprintf("TKT-%d-%06d", year, seq)
}
