package service

import (
	"context"
	"fmt"
	"time"

	"oversight/analytics"
	"oversight/models"

	"github.com/google/uuid"
)

const (
	predictionSampleSize = 12
	maxForecastMonths    = 24
)

type analyticsService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(uowFactory UnitOfWorkFactory) AnalyticsService {
	return &analyticsService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// DigitalMaturity scores an entity from its programs and their budgets
func (s *analyticsService) DigitalMaturity(ctx context.Context, entityID uuid.UUID) (*models.MaturityResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entity, err := uow.EntityRepository().GetByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	if entity == nil {
		return nil, notFound("entity", entityID)
	}

	stats, err := uow.ProgramRepository().GetStats(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get program stats: %w", err)
	}

	result := analytics.AssessMaturity(*stats)
	result.EntityID = entityID
	return result, nil
}

func (s *analyticsService) RiskAnalysis(ctx context.Context, filter models.RiskFilter) (*models.RiskAnalysis, error) {
	if filter.Region != "" && !models.IsValidRegion(filter.Region) {
		return nil, NewValidationError("region", "must be one of %v", models.Regions)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	programs, err := uow.ProgramRepository().ListWithEntity(ctx, models.ProgramFilter{
		EntityID: filter.EntityID,
		Region:   filter.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return analytics.AnalyzeRisks(programs, s.now()), nil
}

func (s *analyticsService) BudgetTrends(ctx context.Context, filter models.BudgetTrendFilter) (*models.BudgetTrends, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(filter.Start.Time) {
		return nil, NewValidationError("end_date", "must not be before start_date")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	months, err := uow.BudgetRepository().MonthlyTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate budget months: %w", err)
	}
	return analytics.BuildTrends(months), nil
}

// PredictBudget forecasts an entity's spend from its most recent budget records
func (s *analyticsService) PredictBudget(ctx context.Context, entityID uuid.UUID, months int) (*models.BudgetPrediction, error) {
	if months < 1 {
		months = analytics.DefaultForecastMonths
	}
	if months > maxForecastMonths {
		return nil, NewValidationError("months", "must be at most %d", maxForecastMonths)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entity, err := uow.EntityRepository().GetByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	if entity == nil {
		return nil, notFound("entity", entityID)
	}

	spend, err := uow.BudgetRepository().RecentSpend(ctx, entityID, predictionSampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get spend history: %w", err)
	}
	return analytics.PredictSpend(spend, months), nil
}

func (s *analyticsService) Benchmarks(ctx context.Context) (*models.Benchmarks, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	regions := make([]*models.RegionBenchmark, 0, len(models.Regions))
	for _, region := range models.Regions {
		b, err := uow.ReportingRepository().RegionBenchmark(ctx, region)
		if err != nil {
			return nil, err
		}
		b.AvgMaturity = analytics.Round(b.AvgMaturity, 1)
		b.AvgProgramProgress = analytics.Round(b.AvgProgramProgress, 1)
		if b.BudgetAllocated > 0 {
			b.BudgetUtilization = analytics.Round(b.BudgetSpent/b.BudgetAllocated*100, 1)
		}
		regions = append(regions, b)
	}
	return analytics.RankBenchmarks(regions), nil
}
