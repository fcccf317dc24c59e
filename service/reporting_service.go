package service

import (
	"context"
	"fmt"
	"time"

	"oversight/analytics"
	"oversight/models"
)

const latestKPILimit = 10

type reportingService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewReportingService creates a new reporting service
func NewReportingService(uowFactory UnitOfWorkFactory) ReportingService {
	return &reportingService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Overview combines national totals, budget utilization, the program risk index and
// per-region summaries
func (s *reportingService) Overview(ctx context.Context) (*models.ReportingOverview, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	totals, err := uow.ReportingRepository().OverviewTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview totals: %w", err)
	}
	regions, err := uow.ReportingRepository().RegionSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get region summaries: %w", err)
	}
	programs, err := uow.ProgramRepository().ListWithEntity(ctx, models.ProgramFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load programs: %w", err)
	}

	overview := &models.ReportingOverview{
		OverviewTotals: *totals,
		Regions:        regions,
	}
	if totals.TotalAllocated > 0 {
		overview.BudgetUtilization = analytics.Round(totals.TotalSpent/totals.TotalAllocated*100, 1)
	}
	risks := analytics.AnalyzeRisks(programs, s.now())
	overview.RiskIndex = analytics.Round(risks.AvgRiskScore/100, 2)
	return overview, nil
}

func (s *reportingService) Region(ctx context.Context, region string) (*models.RegionReport, error) {
	if !models.IsValidRegion(region) {
		return nil, NewValidationError("region", "must be one of %v", models.Regions)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entities, err := uow.EntityRepository().ListByRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to list region entities: %w", err)
	}
	summary, err := uow.ReportingRepository().RegionSummary(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize region: %w", err)
	}
	budget, err := uow.BudgetRepository().TotalsByRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to sum region budget: %w", err)
	}

	return &models.RegionReport{
		Region:   region,
		Entities: entities,
		Summary:  *summary,
		Budget:   *budget,
	}, nil
}

func (s *reportingService) LatestKPIs(ctx context.Context) ([]*models.KPIReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	kpis, err := uow.KPIRepository().Latest(ctx, latestKPILimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest KPIs: %w", err)
	}
	return kpis, nil
}
