package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the request-level notification kind
type NotificationType string

const (
	NotificationAlert   NotificationType = "alert"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
)

// StoredType maps the request kind to the capitalized column value
func (t NotificationType) StoredType() string {
	switch t {
	case NotificationAlert:
		return "Alert"
	case NotificationWarning:
		return "Warning"
	case NotificationSuccess:
		return "Success"
	default:
		return "Info"
	}
}

// IsValid reports whether t is a known notification type
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationAlert, NotificationInfo, NotificationWarning, NotificationSuccess:
		return true
	}
	return false
}

// IsValidPriority reports whether p is high, medium or low
func IsValidPriority(p string) bool {
	return p == "high" || p == "medium" || p == "low"
}

// Notification is a message delivered to a user
type Notification struct {
	ID        uuid.UUID  `json:"notification_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	EntityID  *uuid.UUID `json:"entity_id"`
	IsRead    bool       `json:"is_read"`
	Link      *string    `json:"link"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationRequest describes a fan-out to several users
type NotificationRequest struct {
	UserIDs  []string         `json:"user_ids"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Type     NotificationType `json:"type"`
	Priority string           `json:"priority"`
	EntityID *uuid.UUID       `json:"entity_id"`
}

// NotificationResult reports what was delivered
type NotificationResult struct {
	Sent            int         `json:"sent"`
	NotificationIDs []uuid.UUID `json:"notification_ids"`
}
