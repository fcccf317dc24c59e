package analytics

import (
	"testing"

	"oversight/models"

	"github.com/stretchr/testify/assert"
)

func TestMaturityScore_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, MaturityScore(0, 0, 0))
	assert.Equal(t, 100.0, MaturityScore(100, 100, 100))
	assert.Equal(t, 100.0, MaturityScore(250, 180, 400))
	assert.Equal(t, 0.0, MaturityScore(-10, -5, -1))
	assert.Equal(t, 47.5, MaturityScore(50, 50, 40))
}

func TestMaturityScore_Monotonic(t *testing.T) {
	steps := []float64{0, 10, 25, 33.3, 50, 75, 99.9, 100, 120}
	for _, fixed := range []float64{0, 40, 100} {
		prev := [3]float64{-1, -1, -1}
		for _, v := range steps {
			scores := [3]float64{
				MaturityScore(v, fixed, fixed),
				MaturityScore(fixed, v, fixed),
				MaturityScore(fixed, fixed, v),
			}
			for i, s := range scores {
				assert.GreaterOrEqual(t, s, prev[i])
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)
				prev[i] = s
			}
		}
	}
}

func TestMaturityLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "Foundational"},
		{19.9, "Foundational"},
		{20, "Developing"},
		{40, "Intermediate"},
		{60, "Advanced"},
		{79.9, "Advanced"},
		{80, "Leading"},
		{100, "Leading"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaturityLevel(tt.score), "score %.1f", tt.score)
	}
}

func TestAssessMaturity(t *testing.T) {
	t.Run("no programs", func(t *testing.T) {
		result := AssessMaturity(models.ProgramStats{})
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, "Foundational", result.Level)
	})

	t.Run("mixed portfolio", func(t *testing.T) {
		result := AssessMaturity(models.ProgramStats{
			Total:        4,
			Completed:    2,
			AvgProgress:  70,
			SumAllocated: 1000,
			SumSpent:     800,
		})
		// 50*0.4 + 70*0.35 + 80*0.25
		assert.Equal(t, 64.5, result.Score)
		assert.Equal(t, "Advanced", result.Level)
		assert.Equal(t, &models.MaturityFactors{
			ProgramCompletion: 50,
			AvgProgress:       70,
			BudgetUtilization: 80,
			TotalPrograms:     4,
		}, result.Factors)
	})

	t.Run("nothing allocated", func(t *testing.T) {
		result := AssessMaturity(models.ProgramStats{Total: 1, AvgProgress: 40, SumSpent: 10})
		assert.Equal(t, 0, result.Factors.BudgetUtilization)
		assert.Equal(t, 14.0, result.Score)
	})
}
