package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit action types
const (
	AuditCreate  = "CREATE"
	AuditUpdate  = "UPDATE"
	AuditDelete  = "DELETE"
	AuditLogin   = "LOGIN"
	AuditLogout  = "LOGOUT"
	AuditExport  = "EXPORT"
	AuditApprove = "APPROVE"
	AuditReject  = "REJECT"
)

// AuditEntry is one row of the audit trail
type AuditEntry struct {
	ID         uuid.UUID      `json:"audit_id"`
	UserID     *uuid.UUID     `json:"user_id"`
	ActionType string         `json:"action_type"`
	Action     string         `json:"action"`
	TableName  *string        `json:"table_name"`
	RecordID   *string        `json:"record_id"`
	EntityID   *uuid.UUID     `json:"entity_id"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	IPAddress  *string        `json:"ip_address"`
	UserAgent  *string        `json:"user_agent"`
	Timestamp  time.Time      `json:"action_timestamp"`

	UserName  *string `json:"full_name,omitempty"`
	UserEmail *string `json:"email,omitempty"`
	UserRole  *string `json:"role,omitempty"`
}

// AuditFilter narrows audit report queries
type AuditFilter struct {
	EntityID   *uuid.UUID
	Start      *time.Time
	End        *time.Time
	ActionType string
	Limit      int
}

// AuditReport summarizes audit activity
type AuditReport struct {
	TotalEvents    int            `json:"total_events"`
	Categories     map[string]int `json:"categories"`
	RecentEvents   []*AuditEntry  `json:"recent_events"`
	HighRiskEvents []*AuditEntry  `json:"high_risk_events"`
}
