package analytics

import (
	"fmt"
	"sort"
	"time"

	"oversight/models"
)

const (
	overrunThreshold        = 0.9
	underutilizationCeiling = 0.5
)

// SeverityRank orders severities: high 3, medium 2, low 1
func SeverityRank(severity string) int {
	switch severity {
	case models.SeverityHigh:
		return 3
	case models.SeverityMedium:
		return 2
	case models.SeverityLow:
		return 1
	}
	return 0
}

// ClassifyBudget returns the alert a budget record raises at now, or nil.
// A record raises at most one alert.
func ClassifyBudget(b *models.Budget, now time.Time) *models.BudgetAlert {
	allocated, spent := b.AllocatedAmount, b.SpentAmount
	if allocated <= 0 {
		return nil
	}
	utilization := spent / allocated * 100

	alert := &models.BudgetAlert{
		BudgetID:   b.ID,
		EntityID:   b.EntityID,
		EntityName: b.EntityName,
		Region:     b.EntityRegion,
		Allocated:  allocated,
		Spent:      spent,
		Remaining:  allocated - spent,
	}

	if spent > allocated*overrunThreshold {
		alert.Type = models.AlertTypeBudgetOverrun
		alert.Severity = models.SeverityMedium
		if spent > allocated {
			alert.Severity = models.SeverityHigh
		}
		alert.Message = fmt.Sprintf("Budget utilization at %.1f%%", utilization)
		return alert
	}

	if b.FiscalYear == now.Year() &&
		b.CreatedAt.Month() <= now.Month() &&
		spent < allocated*underutilizationCeiling {
		alert.Type = models.AlertTypeBudgetUnderutilization
		alert.Severity = models.SeverityLow
		alert.Message = fmt.Sprintf("Low budget utilization at %.1f%%", utilization)
		return alert
	}

	return nil
}

// ScanBudgets classifies every record and summarizes the resulting alerts
func ScanBudgets(records []*models.Budget, now time.Time) models.AlertReport {
	var alerts []*models.BudgetAlert
	for _, b := range records {
		if alert := ClassifyBudget(b, now); alert != nil {
			alerts = append(alerts, alert)
		}
	}
	return SummarizeAlerts(alerts)
}

// SummarizeAlerts sorts alerts by descending severity, keeping input order within a
// severity, and counts them per bucket
func SummarizeAlerts(alerts []*models.BudgetAlert) models.AlertReport {
	sorted := make([]*models.BudgetAlert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return SeverityRank(sorted[i].Severity) > SeverityRank(sorted[j].Severity)
	})

	report := models.AlertReport{
		TotalAlerts: len(sorted),
		Alerts:      sorted,
	}
	for _, a := range sorted {
		switch a.Severity {
		case models.SeverityHigh:
			report.Critical++
		case models.SeverityMedium:
			report.Warnings++
		case models.SeverityLow:
			report.Info++
		}
	}
	return report
}
