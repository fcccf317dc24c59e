package models

import (
	"time"

	"github.com/google/uuid"
)

// MaturityFactors are the rounded inputs of a maturity score
type MaturityFactors struct {
	ProgramCompletion int `json:"program_completion"`
	AvgProgress       int `json:"avg_progress"`
	BudgetUtilization int `json:"budget_utilization"`
	TotalPrograms     int `json:"total_programs"`
}

// MaturityResult is an entity's digital maturity assessment
type MaturityResult struct {
	EntityID uuid.UUID        `json:"entity_id"`
	Score    float64          `json:"score"`
	Level    string           `json:"level"`
	Factors  *MaturityFactors `json:"factors"`
}

// ProgramStats are the inputs the maturity score is computed from
type ProgramStats struct {
	Total        int
	Completed    int
	AvgProgress  float64
	SumAllocated float64
	SumSpent     float64
}

// ProgramRisk is a single program's risk assessment
type ProgramRisk struct {
	ProgramID   uuid.UUID `json:"program_id"`
	ProgramName string    `json:"program_name"`
	EntityName  string    `json:"entity_name"`
	Region      string    `json:"region"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   string    `json:"risk_level"`
	Factors     []string  `json:"factors"`
}

// RiskFilter narrows risk analysis
type RiskFilter struct {
	EntityID *uuid.UUID
	Region   string
}

// RiskAnalysis buckets programs by risk level
type RiskAnalysis struct {
	HighRisk      []*ProgramRisk `json:"high_risk"`
	MediumRisk    []*ProgramRisk `json:"medium_risk"`
	LowRisk       []*ProgramRisk `json:"low_risk"`
	TotalPrograms int            `json:"total_programs"`
	AvgRiskScore  float64        `json:"avg_risk_score"`
}

// BudgetTrendPoint is a monthly bucket with its utilization and moving average
type BudgetTrendPoint struct {
	Month           time.Time `json:"month"`
	TotalAllocated  float64   `json:"total_allocated"`
	TotalSpent      float64   `json:"total_spent"`
	UtilizationRate float64   `json:"utilization_rate"`
	MovingAverage   float64   `json:"moving_average"`
}

// BudgetTrendSummary totals a trend series
type BudgetTrendSummary struct {
	AvgUtilization float64 `json:"avg_utilization"`
	TotalAllocated float64 `json:"total_allocated"`
	TotalSpent     float64 `json:"total_spent"`
}

// BudgetTrends is the monthly utilization series
type BudgetTrends struct {
	Trends  []*BudgetTrendPoint `json:"trends"`
	Summary BudgetTrendSummary  `json:"summary"`
}

// BudgetPrediction forecasts future spend
type BudgetPrediction struct {
	Prediction    *float64 `json:"prediction"`
	Confidence    string   `json:"confidence"`
	HistoricalAvg float64  `json:"historical_avg,omitempty"`
	Trend         string   `json:"trend,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// RegionBenchmark compares regions
type RegionBenchmark struct {
	Region             string  `json:"region"`
	Entities           int     `json:"entities"`
	AvgMaturity        float64 `json:"avg_maturity"`
	TotalPrograms      int     `json:"total_programs"`
	AvgProgramProgress float64 `json:"avg_program_progress"`
	BudgetAllocated    float64 `json:"budget_allocated"`
	BudgetSpent        float64 `json:"budget_spent"`
	BudgetUtilization  float64 `json:"budget_utilization"`
}

// Benchmarks lists every region and the best performer per dimension
type Benchmarks struct {
	Benchmarks     []*RegionBenchmark `json:"benchmarks"`
	BestPerformers struct {
		Maturity         *RegionBenchmark `json:"maturity"`
		BudgetEfficiency *RegionBenchmark `json:"budget_efficiency"`
		ProgramProgress  *RegionBenchmark `json:"program_progress"`
	} `json:"best_performers"`
}
