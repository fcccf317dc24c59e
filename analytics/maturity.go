package analytics

import (
	"math"

	"oversight/models"
)

// Maturity weights
const (
	completionWeight  = 0.4
	progressWeight    = 0.35
	utilizationWeight = 0.25
)

// MaturityScore combines the three inputs, each clamped to [0,100], into a score in
// [0,100] rounded to one decimal
func MaturityScore(completionRate, avgProgress, utilization float64) float64 {
	score := clamp(completionRate, 0, 100)*completionWeight +
		clamp(avgProgress, 0, 100)*progressWeight +
		clamp(utilization, 0, 100)*utilizationWeight
	return Round(score, 1)
}

// MaturityLevel maps a score to its ordinal level
func MaturityLevel(score float64) string {
	switch {
	case score >= 80:
		return "Leading"
	case score >= 60:
		return "Advanced"
	case score >= 40:
		return "Intermediate"
	case score >= 20:
		return "Developing"
	default:
		return "Foundational"
	}
}

// AssessMaturity scores an entity from its program statistics
func AssessMaturity(stats models.ProgramStats) *models.MaturityResult {
	if stats.Total == 0 {
		return &models.MaturityResult{
			Score:   0,
			Level:   MaturityLevel(0),
			Factors: &models.MaturityFactors{},
		}
	}

	completionRate := float64(stats.Completed) / float64(stats.Total) * 100
	utilization := 0.0
	if stats.SumAllocated > 0 {
		utilization = stats.SumSpent / stats.SumAllocated * 100
	}

	score := MaturityScore(completionRate, stats.AvgProgress, utilization)
	return &models.MaturityResult{
		Score: score,
		Level: MaturityLevel(score),
		Factors: &models.MaturityFactors{
			ProgramCompletion: int(math.Round(completionRate)),
			AvgProgress:       int(math.Round(stats.AvgProgress)),
			BudgetUtilization: int(math.Round(utilization)),
			TotalPrograms:     stats.Total,
		},
	}
}
