package models

// RegionSummary aggregates one region for the reporting overview
type RegionSummary struct {
	Region       string  `json:"region"`
	EntityCount  int     `json:"entity_count"`
	ProgramCount int     `json:"program_count"`
	TotalBudget  float64 `json:"total_budget"`
	AvgMaturity  float64 `json:"avg_maturity"`
}

// OverviewTotals are platform-wide counts and sums
type OverviewTotals struct {
	TotalEntities  int     `json:"total_entities"`
	ActiveEntities int     `json:"active_entities"`
	TotalPrograms  int     `json:"total_programs"`
	ActivePrograms int     `json:"active_programs"`
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`
	AvgMaturity    float64 `json:"avg_maturity"`
}

// ReportingOverview backs GET /reporting/overview
type ReportingOverview struct {
	OverviewTotals
	BudgetUtilization float64          `json:"budget_utilization"`
	RiskIndex         float64          `json:"risk_index"`
	Regions           []*RegionSummary `json:"regions"`
}

// RegionReport backs GET /reporting/region/{region}
type RegionReport struct {
	Region   string        `json:"region"`
	Entities []*Entity     `json:"entities"`
	Summary  RegionSummary `json:"summary"`
	Budget   BudgetTotals  `json:"budget"`
}
