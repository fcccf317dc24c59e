package analytics

import (
	"testing"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scanTime = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func budget(allocated, spent float64, fiscalYear int, created time.Time) *models.Budget {
	return &models.Budget{
		ID:              uuid.New(),
		EntityID:        uuid.New(),
		FiscalYear:      fiscalYear,
		AllocatedAmount: allocated,
		SpentAmount:     spent,
		CreatedAt:       created,
		EntityName:      "Ministry of Health",
		EntityRegion:    "Central",
	}
}

func TestClassifyBudget(t *testing.T) {
	thisYear := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	lastYear := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	laterThisYear := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		record       *models.Budget
		wantType     string
		wantSeverity string
		wantMessage  string
	}{
		{"overspent", budget(1000, 1200, 2024, lastYear), models.AlertTypeBudgetOverrun, models.SeverityHigh, "Budget utilization at 120.0%"},
		{"near limit", budget(1_000_000, 950_000, 2024, lastYear), models.AlertTypeBudgetOverrun, models.SeverityMedium, "Budget utilization at 95.0%"},
		{"exactly allocated", budget(1000, 1000, 2024, lastYear), models.AlertTypeBudgetOverrun, models.SeverityMedium, "Budget utilization at 100.0%"},
		{"exactly ninety percent", budget(1000, 900, 2024, lastYear), "", "", ""},
		{"underutilized this year", budget(1000, 200, 2025, thisYear), models.AlertTypeBudgetUnderutilization, models.SeverityLow, "Low budget utilization at 20.0%"},
		{"underutilized prior year", budget(1000, 200, 2024, thisYear), "", "", ""},
		{"created after current month", budget(1000, 200, 2025, laterThisYear), "", "", ""},
		{"healthy", budget(1000, 700, 2025, thisYear), "", "", ""},
		{"nothing allocated", budget(0, 50, 2025, thisYear), "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := ClassifyBudget(tt.record, scanTime)
			if tt.wantType == "" {
				assert.Nil(t, alert)
				return
			}
			require.NotNil(t, alert)
			assert.Equal(t, tt.wantType, alert.Type)
			assert.Equal(t, tt.wantSeverity, alert.Severity)
			assert.Equal(t, tt.wantMessage, alert.Message)
			assert.Equal(t, tt.record.AllocatedAmount-tt.record.SpentAmount, alert.Remaining)
			assert.Equal(t, "Ministry of Health", alert.EntityName)
		})
	}
}

func TestScanBudgets_SortsBySeverity(t *testing.T) {
	created := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	low := budget(1000, 100, 2025, created)
	medium := budget(1000, 950, 2025, created)
	high := budget(1000, 1500, 2025, created)
	secondHigh := budget(2000, 2100, 2025, created)
	quiet := budget(1000, 700, 2025, created)

	report := ScanBudgets([]*models.Budget{low, medium, quiet, high, secondHigh}, scanTime)

	assert.Equal(t, 4, report.TotalAlerts)
	assert.Equal(t, 2, report.Critical)
	assert.Equal(t, 1, report.Warnings)
	assert.Equal(t, 1, report.Info)

	require.Len(t, report.Alerts, 4)
	assert.Equal(t, high.ID, report.Alerts[0].BudgetID)
	assert.Equal(t, secondHigh.ID, report.Alerts[1].BudgetID)
	assert.Equal(t, medium.ID, report.Alerts[2].BudgetID)
	assert.Equal(t, low.ID, report.Alerts[3].BudgetID)
}

func TestScanBudgets_Empty(t *testing.T) {
	report := ScanBudgets(nil, scanTime)
	assert.Equal(t, 0, report.TotalAlerts)
	assert.Empty(t, report.Alerts)
}
