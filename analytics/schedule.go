package analytics

import (
	"time"

	"oversight/models"
)

const daysPerApprovalLevel = 2

// NextRun returns when a report with the given cadence next runs after from
func NextRun(frequency models.Frequency, from time.Time) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// EstimatedCompletion allows two days per approval level
func EstimatedCompletion(levels int, from time.Time) time.Time {
	return from.AddDate(0, 0, daysPerApprovalLevel*levels)
}
