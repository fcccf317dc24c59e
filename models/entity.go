package models

import (
	"time"

	"github.com/google/uuid"
)

// Regions used across entities, users and benchmarks
var Regions = []string{"Central", "Western", "Eastern", "Northern", "Southern"}

// IsValidRegion reports whether region is one of Regions
func IsValidRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// Entity is a government body overseen by the platform
type Entity struct {
	ID                   uuid.UUID `json:"entity_id"`
	Code                 string    `json:"entity_code"`
	NameEN               string    `json:"entity_name_en"`
	NameAR               string    `json:"entity_name_ar"`
	Type                 string    `json:"entity_type"`
	Region               string    `json:"region"`
	Sector               string    `json:"sector"`
	LocationCity         string    `json:"location_city"`
	ContactEmail         *string   `json:"contact_email"`
	ContactPhone         *string   `json:"contact_phone"`
	Description          *string   `json:"description"`
	Status               string    `json:"status"`
	TotalPrograms        int       `json:"total_programs"`
	ActivePrograms       int       `json:"active_programs"`
	TotalBudget          float64   `json:"total_budget"`
	DigitalMaturityScore float64   `json:"digital_maturity_score"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// EntityFilter narrows entity listings
type EntityFilter struct {
	Region string
	Status string
	Sector string
}

// EntityDetail is an entity together with its programs and budget totals
type EntityDetail struct {
	*Entity
	Programs []*Program    `json:"programs"`
	Budget   *BudgetTotals `json:"budget_summary"`
}

// EntitySummary is the short form embedded in login responses
type EntitySummary struct {
	ID     uuid.UUID `json:"entity_id"`
	NameEN string    `json:"entity_name_en"`
	NameAR string    `json:"entity_name_ar"`
	Region string    `json:"region"`
}
