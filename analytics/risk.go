package analytics

import (
	"sort"
	"time"

	"oversight/models"
)

// Risk penalties
const (
	penaltyBudgetOverrun = 30
	penaltySlowProgress  = 25
	penaltyOnHold        = 40
	penaltyPlanning      = 15
)

// RiskLevel buckets a risk score
func RiskLevel(score int) string {
	switch {
	case score >= 60:
		return models.SeverityHigh
	case score >= 30:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// DaysSince counts whole days between start and now
func DaysSince(start, now time.Time) int {
	return int(now.Sub(start) / (24 * time.Hour))
}

// AssessProgramRisk sums the penalties that apply to p at now, capped at 100
func AssessProgramRisk(p *models.Program, now time.Time) *models.ProgramRisk {
	score := 0
	factors := []string{}

	if p.SpentBudget > p.AllocatedBudget*overrunThreshold {
		score += penaltyBudgetOverrun
		factors = append(factors, "Budget overrun imminent")
	}
	if p.Status == models.ProgramStatusInProgress && p.ProgressPercentage < 50 &&
		DaysSince(p.StartDate.Time, now) > 90 {
		score += penaltySlowProgress
		factors = append(factors, "Slow progress")
	}
	switch p.Status {
	case models.ProgramStatusOnHold:
		score += penaltyOnHold
		factors = append(factors, "Program on hold")
	case models.ProgramStatusPlanning:
		score += penaltyPlanning
		factors = append(factors, "Still in planning phase")
	}
	if score > 100 {
		score = 100
	}

	return &models.ProgramRisk{
		ProgramID:   p.ID,
		ProgramName: p.Name,
		EntityName:  p.EntityName,
		Region:      p.EntityRegion,
		RiskScore:   score,
		RiskLevel:   RiskLevel(score),
		Factors:     factors,
	}
}

// AnalyzeRisks scores every program, sorts by descending score and buckets by level
func AnalyzeRisks(programs []*models.Program, now time.Time) *models.RiskAnalysis {
	risks := make([]*models.ProgramRisk, 0, len(programs))
	for _, p := range programs {
		risks = append(risks, AssessProgramRisk(p, now))
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].RiskScore > risks[j].RiskScore
	})

	out := &models.RiskAnalysis{
		HighRisk:      []*models.ProgramRisk{},
		MediumRisk:    []*models.ProgramRisk{},
		LowRisk:       []*models.ProgramRisk{},
		TotalPrograms: len(programs),
	}
	total := 0
	for _, r := range risks {
		total += r.RiskScore
		switch r.RiskLevel {
		case models.SeverityHigh:
			out.HighRisk = append(out.HighRisk, r)
		case models.SeverityMedium:
			out.MediumRisk = append(out.MediumRisk, r)
		default:
			out.LowRisk = append(out.LowRisk, r)
		}
	}
	if len(risks) > 0 {
		out.AvgRiskScore = Round(float64(total)/float64(len(risks)), 1)
	}
	return out
}
