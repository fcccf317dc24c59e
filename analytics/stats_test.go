package analytics

import (
	"testing"

	"oversight/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{10, 15, 20, 30}, MovingAverage([]float64{10, 20, 30, 40}, 3))
	assert.Equal(t, []float64{1, 1.5, 1.7}, MovingAverage([]float64{1, 2, 2}, 5))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestLinearRegressionForecast(t *testing.T) {
	// y = 2x + 1 over x = 0..3; three periods past x=3 is x=6
	assert.Equal(t, 13.0, LinearRegressionForecast([]float64{1, 3, 5, 7}, 3))
	assert.Equal(t, 5.0, LinearRegressionForecast([]float64{5, 5, 5}, 6))
	assert.Equal(t, 4.0, LinearRegressionForecast([]float64{4}, 2))
	assert.Equal(t, 0.0, LinearRegressionForecast(nil, 2))
}

func TestForecastConfidence(t *testing.T) {
	assert.Equal(t, "high", ForecastConfidence([]float64{100, 101, 99, 100}))
	assert.Equal(t, "medium", ForecastConfidence([]float64{100, 130, 80, 110}))
	assert.Equal(t, "low", ForecastConfidence([]float64{10, 100, 1, 50}))
	assert.Equal(t, "low", ForecastConfidence([]float64{0, 0, 0}))
}

func TestPredictSpend(t *testing.T) {
	insufficient := PredictSpend([]float64{1, 2}, 6)
	assert.Nil(t, insufficient.Prediction)
	assert.Equal(t, "Insufficient data", insufficient.Message)
	assert.Equal(t, "low", insufficient.Confidence)

	rising := PredictSpend([]float64{100, 110, 120, 130}, 2)
	require.NotNil(t, rising.Prediction)
	assert.Equal(t, 150.0, *rising.Prediction)
	assert.Equal(t, "increasing", rising.Trend)
	assert.Equal(t, 115.0, rising.HistoricalAvg)
}

func TestBuildTrends(t *testing.T) {
	months := []*models.BudgetMonth{
		{TotalAllocated: 100, TotalSpent: 50},
		{TotalAllocated: 200, TotalSpent: 150},
		{TotalAllocated: 0, TotalSpent: 0},
	}
	trends := BuildTrends(months)

	require.Len(t, trends.Trends, 3)
	assert.Equal(t, 50.0, trends.Trends[0].UtilizationRate)
	assert.Equal(t, 75.0, trends.Trends[1].UtilizationRate)
	assert.Equal(t, 62.5, trends.Trends[1].MovingAverage)
	assert.Equal(t, 0.0, trends.Trends[2].UtilizationRate)
	assert.Equal(t, 300.0, trends.Summary.TotalAllocated)
	assert.Equal(t, 200.0, trends.Summary.TotalSpent)
	assert.Equal(t, 41.67, trends.Summary.AvgUtilization)
}

func TestRankBenchmarks(t *testing.T) {
	central := &models.RegionBenchmark{Region: "Central", AvgMaturity: 80, BudgetUtilization: 60, AvgProgramProgress: 40}
	western := &models.RegionBenchmark{Region: "Western", AvgMaturity: 70, BudgetUtilization: 90, AvgProgramProgress: 40}

	result := RankBenchmarks([]*models.RegionBenchmark{central, western})
	assert.Same(t, central, result.BestPerformers.Maturity)
	assert.Same(t, western, result.BestPerformers.BudgetEfficiency)
	assert.Same(t, central, result.BestPerformers.ProgramProgress)
	assert.Equal(t, "Central", result.Benchmarks[0].Region)
}
