package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a platform role; RoleAdmin passes every role check
type Role string

const (
	RoleAdmin               Role = "dga_admin"
	RoleRegionalManager     Role = "regional_manager"
	RoleProgramDirector     Role = "program_director"
	RoleFinancialController Role = "financial_controller"
	RoleComplianceAuditor   Role = "compliance_auditor"
	RoleAnalyticsLead       Role = "analytics_lead"
	RoleMinistryUser        Role = "ministry_user"
)

// Roles lists every valid role
var Roles = []Role{
	RoleAdmin, RoleRegionalManager, RoleProgramDirector, RoleFinancialController,
	RoleComplianceAuditor, RoleAnalyticsLead, RoleMinistryUser,
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is a platform account
type User struct {
	ID           uuid.UUID  `json:"user_id"`
	Username     *string    `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Phone        *string    `json:"phone"`
	Role         Role       `json:"role"`
	Region       *string    `json:"region"`
	EntityID     *uuid.UUID `json:"entity_id"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Region string `json:"region"`
}

// HasRole reports whether the identity holds one of roles; admins always do
func (i Identity) HasRole(roles ...Role) bool {
	if i.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token  string         `json:"token"`
	User   *User          `json:"user"`
	Entity *EntitySummary `json:"entity,omitempty"`
}

// RegisterRequest carries the fields of a new account
type RegisterRequest struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	FullName string     `json:"full_name"`
	Phone    *string    `json:"phone"`
	Role     Role       `json:"role"`
	Region   *string    `json:"region"`
	EntityID *uuid.UUID `json:"entity_id"`
}
