package analytics

import (
	"testing"
	"time"

	"oversight/models"

	"github.com/stretchr/testify/assert"
)

func TestNextRun(t *testing.T) {
	from := time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 16, 8, 30, 0, 0, time.UTC), NextRun(models.FrequencyDaily, from))
	assert.Equal(t, time.Date(2025, 1, 22, 8, 30, 0, 0, time.UTC), NextRun(models.FrequencyWeekly, from))
	assert.Equal(t, time.Date(2025, 2, 15, 8, 30, 0, 0, time.UTC), NextRun(models.FrequencyMonthly, from))
	assert.Equal(t, time.Date(2025, 4, 15, 8, 30, 0, 0, time.UTC), NextRun(models.FrequencyQuarterly, from))
}

func TestEstimatedCompletion(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(6*24*time.Hour), EstimatedCompletion(3, now))
	assert.Equal(t, now.Add(2*24*time.Hour), EstimatedCompletion(1, now))
}
