package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"oversight/analytics"
	"oversight/models"

	"github.com/google/uuid"
)

const (
	auditReportLimit   = 500
	recentAuditEvents  = 50
	highRiskAuditLimit = 20
	maxHistoryMonths   = 60
)

// auditCategories maps a report category to the keywords that place an entry in it
var auditCategories = []struct {
	name     string
	keywords []string
}{
	{"data_access", []string{"read", "view", "export"}},
	{"data_modification", []string{"update", "modify", "create"}},
	{"data_deletion", []string{"delete", "remove"}},
	{"user_management", []string{"user", "role"}},
	{"security_events", []string{"security", "login", "logout"}},
}

var highRiskKeywords = []string{"delete", "security", "admin"}

type complianceService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewComplianceService creates a new compliance service. rnd drives the simulated parts of
// the assessment; a nil source is seeded from the clock.
func NewComplianceService(uowFactory UnitOfWorkFactory, rnd *rand.Rand) ComplianceService {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &complianceService{
		uowFactory: uowFactory,
		now:        time.Now,
		rnd:        rnd,
	}
}

// Report assesses an entity against PDPL, NCA ECC and ISO 27001, or the national baseline
// when entityID is nil
func (s *complianceService) Report(ctx context.Context, entityID *uuid.UUID) (*models.ComplianceReport, error) {
	var signals models.ComplianceSignals

	if entityID != nil {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		entity, err := uow.EntityRepository().GetByID(ctx, *entityID)
		if err != nil {
			return nil, fmt.Errorf("failed to get entity: %w", err)
		}
		if entity == nil {
			return nil, notFound("entity", *entityID)
		}
		score := entity.DigitalMaturityScore
		signals.MaturityScore = &score

		signals.PrivacyEvents, err = uow.AuditRepository().CountByActionTypes(ctx, entityID, []string{models.AuditExport})
		if err != nil {
			return nil, fmt.Errorf("failed to count privacy events: %w", err)
		}
		signals.SecurityEvents, err = uow.AuditRepository().CountByActionTypes(ctx, entityID, []string{models.AuditLogin, models.AuditLogout})
		if err != nil {
			return nil, fmt.Errorf("failed to count security events: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.BuildComplianceReport(signals, s.rnd, s.now().UTC()), nil
}

func (s *complianceService) History(ctx context.Context, entityID *uuid.UUID, months int) (*models.ComplianceHistory, error) {
	if months < 1 {
		months = 12
	}
	if months > maxHistoryMonths {
		return nil, NewValidationError("months", "must be at most %d", maxHistoryMonths)
	}

	if entityID != nil {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		entity, err := uow.EntityRepository().GetByID(ctx, *entityID)
		if err != nil {
			return nil, fmt.Errorf("failed to get entity: %w", err)
		}
		if entity == nil {
			return nil, notFound("entity", *entityID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return analytics.SimulatedHistory(months, s.rnd, s.now().UTC()), nil
}

// AuditReport summarizes up to 500 of the newest matching audit entries
func (s *complianceService) AuditReport(ctx context.Context, filter models.AuditFilter) (*models.AuditReport, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, NewValidationError("end_date", "must not be before start_date")
	}
	filter.Limit = auditReportLimit

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.AuditRepository().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	report := &models.AuditReport{
		TotalEvents:    len(entries),
		Categories:     make(map[string]int, len(auditCategories)),
		RecentEvents:   entries[:min(len(entries), recentAuditEvents)],
		HighRiskEvents: []*models.AuditEntry{},
	}
	for _, c := range auditCategories {
		report.Categories[c.name] = 0
	}

	for _, e := range entries {
		text := strings.ToLower(e.ActionType + " " + e.Action)
		for _, c := range auditCategories {
			if containsAny(text, c.keywords) {
				report.Categories[c.name]++
			}
		}
		if len(report.HighRiskEvents) < highRiskAuditLimit && containsAny(text, highRiskKeywords) {
			report.HighRiskEvents = append(report.HighRiskEvents, e)
		}
	}
	return report, nil
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
