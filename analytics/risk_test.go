package analytics

import (
	"testing"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func program(status models.ProgramStatus, daysAgo, progress int, allocated, spent float64) *models.Program {
	return &models.Program{
		ID:                 uuid.New(),
		Name:               string(status),
		Status:             status,
		StartDate:          models.NewDate(scanTime.AddDate(0, 0, -daysAgo)),
		ProgressPercentage: progress,
		AllocatedBudget:    allocated,
		SpentBudget:        spent,
	}
}

func TestAssessProgramRisk(t *testing.T) {
	tests := []struct {
		name    string
		program *models.Program
		score   int
		level   string
		factors []string
	}{
		{"healthy", program(models.ProgramStatusInProgress, 30, 40, 100, 20), 0, "low", []string{}},
		{"slow progress", program(models.ProgramStatusInProgress, 120, 45, 100, 20), 25, "low", []string{"Slow progress"}},
		{"slow and overspending", program(models.ProgramStatusInProgress, 120, 45, 100, 95), 55, "medium", []string{"Budget overrun imminent", "Slow progress"}},
		{"on hold overspending", program(models.ProgramStatusOnHold, 10, 10, 100, 95), 70, "high", []string{"Budget overrun imminent", "Program on hold"}},
		{"planning", program(models.ProgramStatusPlanning, 0, 0, 100, 0), 15, "low", []string{"Still in planning phase"}},
		{"ninety days exactly", program(models.ProgramStatusInProgress, 90, 10, 100, 0), 0, "low", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := AssessProgramRisk(tt.program, scanTime)
			assert.Equal(t, tt.score, risk.RiskScore)
			assert.Equal(t, tt.level, risk.RiskLevel)
			assert.Equal(t, tt.factors, risk.Factors)
		})
	}
}

func TestAnalyzeRisks(t *testing.T) {
	onHold := program(models.ProgramStatusOnHold, 10, 10, 100, 95)
	slow := program(models.ProgramStatusInProgress, 120, 45, 100, 95)
	fine := program(models.ProgramStatusInProgress, 10, 45, 100, 10)

	result := AnalyzeRisks([]*models.Program{fine, slow, onHold}, scanTime)

	assert.Equal(t, 3, result.TotalPrograms)
	require.Len(t, result.HighRisk, 1)
	require.Len(t, result.MediumRisk, 1)
	require.Len(t, result.LowRisk, 1)
	assert.Equal(t, onHold.ID, result.HighRisk[0].ProgramID)
	assert.Equal(t, slow.ID, result.MediumRisk[0].ProgramID)
	assert.Equal(t, 41.7, result.AvgRiskScore)

	empty := AnalyzeRisks(nil, scanTime)
	assert.Equal(t, 0.0, empty.AvgRiskScore)
	assert.NotNil(t, empty.HighRisk)
}
