package analytics

import (
	"sort"

	"oversight/models"
)

const (
	trendWindow           = 3
	minPredictionSamples  = 3
	DefaultForecastMonths = 6
)

// BuildTrends turns monthly aggregates (oldest first) into a utilization series with a
// trailing three-month moving average
func BuildTrends(months []*models.BudgetMonth) *models.BudgetTrends {
	rates := make([]float64, len(months))
	for i, m := range months {
		if m.TotalAllocated > 0 {
			rates[i] = m.TotalSpent / m.TotalAllocated * 100
		}
	}
	averages := MovingAverage(rates, trendWindow)

	out := &models.BudgetTrends{Trends: make([]*models.BudgetTrendPoint, 0, len(months))}
	for i, m := range months {
		out.Trends = append(out.Trends, &models.BudgetTrendPoint{
			Month:           m.Month,
			TotalAllocated:  m.TotalAllocated,
			TotalSpent:      m.TotalSpent,
			UtilizationRate: Round(rates[i], 2),
			MovingAverage:   averages[i],
		})
		out.Summary.TotalAllocated += m.TotalAllocated
		out.Summary.TotalSpent += m.TotalSpent
	}
	out.Summary.AvgUtilization = Round(Mean(rates), 2)
	return out
}

// PredictSpend forecasts spend periods steps ahead from a chronological series
func PredictSpend(values []float64, periods int) *models.BudgetPrediction {
	if len(values) < minPredictionSamples {
		return &models.BudgetPrediction{Confidence: "low", Message: "Insufficient data"}
	}
	if periods < 1 {
		periods = DefaultForecastMonths
	}

	prediction := LinearRegressionForecast(values, periods)
	trend := "decreasing"
	if prediction > values[len(values)-1] {
		trend = "increasing"
	}
	return &models.BudgetPrediction{
		Prediction:    &prediction,
		Confidence:    ForecastConfidence(values),
		HistoricalAvg: Round(Mean(values), 2),
		Trend:         trend,
	}
}

// RankBenchmarks fills the best performer of each dimension. Ties keep region order.
func RankBenchmarks(regions []*models.RegionBenchmark) *models.Benchmarks {
	out := &models.Benchmarks{Benchmarks: regions}
	if len(regions) == 0 {
		return out
	}
	out.BestPerformers.Maturity = best(regions, func(b *models.RegionBenchmark) float64 { return b.AvgMaturity })
	out.BestPerformers.BudgetEfficiency = best(regions, func(b *models.RegionBenchmark) float64 { return b.BudgetUtilization })
	out.BestPerformers.ProgramProgress = best(regions, func(b *models.RegionBenchmark) float64 { return b.AvgProgramProgress })
	return out
}

func best(regions []*models.RegionBenchmark, key func(*models.RegionBenchmark) float64) *models.RegionBenchmark {
	ranked := make([]*models.RegionBenchmark, len(regions))
	copy(ranked, regions)
	sort.SliceStable(ranked, func(i, j int) bool { return key(ranked[i]) > key(ranked[j]) })
	return ranked[0]
}
