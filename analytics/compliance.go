package analytics

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"oversight/models"
)

const (
	gapThreshold            = 70
	highSeverityThreshold   = 50
	recommendationThreshold = 85
	securityMonitoringFloor = 10
)

// ComplianceStatus maps a score to compliant, partially_compliant or non_compliant
func ComplianceStatus(score float64) string {
	switch {
	case score >= 90:
		return "compliant"
	case score >= 70:
		return "partially_compliant"
	default:
		return "non_compliant"
	}
}

// ComplianceLevel maps an overall score to its label
func ComplianceLevel(score float64) string {
	switch {
	case score >= 95:
		return "Excellent"
	case score >= 85:
		return "Good"
	case score >= 70:
		return "Satisfactory"
	case score >= 50:
		return "Needs Improvement"
	default:
		return "Non-Compliant"
	}
}

// IdentifyGaps lists criteria scoring below 70; below 50 is high severity
func IdentifyGaps(criteria []models.Criterion, framework string) []*models.ComplianceGap {
	gaps := []*models.ComplianceGap{}
	for _, c := range criteria {
		if c.Score >= gapThreshold {
			continue
		}
		severity := models.SeverityMedium
		if c.Score < highSeverityThreshold {
			severity = models.SeverityHigh
		}
		gaps = append(gaps, &models.ComplianceGap{
			Control:   strings.ToUpper(strings.ReplaceAll(c.Name, "_", " ")),
			Score:     c.Score,
			Severity:  severity,
			Framework: framework,
		})
	}
	return gaps
}

func assessment(framework string, criteria []models.Criterion) *models.FrameworkAssessment {
	sum := 0
	for _, c := range criteria {
		sum += c.Score
	}
	avg := 0.0
	if len(criteria) > 0 {
		avg = float64(sum) / float64(len(criteria))
	}
	return &models.FrameworkAssessment{
		Framework: framework,
		Score:     Round(avg, 1),
		Status:    ComplianceStatus(avg),
		Criteria:  criteria,
		Gaps:      IdentifyGaps(criteria, framework),
	}
}

func above(score, threshold float64, high, low int) int {
	if score > threshold {
		return high
	}
	return low
}

// AssessPDPL scores the eight PDPL criteria. Without an entity maturity score the
// national baseline is used.
func AssessPDPL(signals models.ComplianceSignals) *models.FrameworkAssessment {
	if signals.MaturityScore == nil {
		return assessment("PDPL", []models.Criterion{
			{Name: "data_inventory", Score: 85},
			{Name: "consent_management", Score: 90},
			{Name: "data_minimization", Score: 88},
			{Name: "data_retention", Score: 82},
			{Name: "breach_notification", Score: 95},
			{Name: "data_subject_rights", Score: 92},
			{Name: "dpia_conducted", Score: 87},
			{Name: "privacy_by_design", Score: 86},
		})
	}

	m := *signals.MaturityScore
	dpia := 50
	if signals.PrivacyEvents > 0 {
		dpia = 90
	}
	return assessment("PDPL", []models.Criterion{
		{Name: "data_inventory", Score: above(m, 50, 100, 50)},
		{Name: "consent_management", Score: above(m, 60, 100, 60)},
		{Name: "data_minimization", Score: 80},
		{Name: "data_retention", Score: 75},
		{Name: "breach_notification", Score: above(m, 70, 100, 70)},
		{Name: "data_subject_rights", Score: above(m, 65, 100, 65)},
		{Name: "dpia_conducted", Score: dpia},
		{Name: "privacy_by_design", Score: above(m, 55, 85, 55)},
	})
}

// AssessNCA scores the nine NCA Essential Cybersecurity Controls
func AssessNCA(signals models.ComplianceSignals) *models.FrameworkAssessment {
	if signals.MaturityScore == nil {
		return assessment("NCA ECC", []models.Criterion{
			{Name: "access_control", Score: 92},
			{Name: "network_security", Score: 95},
			{Name: "system_hardening", Score: 88},
			{Name: "vulnerability_management", Score: 85},
			{Name: "incident_response", Score: 98},
			{Name: "backup_recovery", Score: 94},
			{Name: "monitoring_logging", Score: 96},
			{Name: "security_awareness", Score: 87},
			{Name: "third_party_security", Score: 84},
		})
	}

	factor := *signals.MaturityScore / 100
	scaled := func(base float64) int { return int(math.Round(base * factor)) }
	monitored := signals.SecurityEvents > securityMonitoringFloor
	incident, logging := 70, 65
	if monitored {
		incident, logging = 95, 100
	}
	return assessment("NCA ECC", []models.Criterion{
		{Name: "access_control", Score: scaled(85)},
		{Name: "network_security", Score: scaled(90)},
		{Name: "system_hardening", Score: scaled(80)},
		{Name: "vulnerability_management", Score: scaled(75)},
		{Name: "incident_response", Score: incident},
		{Name: "backup_recovery", Score: scaled(88)},
		{Name: "monitoring_logging", Score: logging},
		{Name: "security_awareness", Score: scaled(82)},
		{Name: "third_party_security", Score: scaled(78)},
	})
}

var isoDomains = []string{
	"information_security_policies",
	"organization_of_information_security",
	"human_resource_security",
	"asset_management",
	"access_control",
	"cryptography",
	"physical_security",
	"operations_security",
	"communications_security",
	"system_acquisition",
	"supplier_relationships",
	"incident_management",
	"business_continuity",
	"compliance",
}

// AssessISO27001 scores the fourteen ISO 27001 domains. Scores are sampled from rnd
// within a band scaled by maturity.
func AssessISO27001(signals models.ComplianceSignals, rnd *rand.Rand) *models.FrameworkAssessment {
	criteria := make([]models.Criterion, len(isoDomains))
	for i, name := range isoDomains {
		var score int
		if signals.MaturityScore == nil {
			score = 80 + rnd.IntN(15)
		} else {
			score = int(math.Round((75 + rnd.Float64()*20) * (*signals.MaturityScore / 100)))
		}
		criteria[i] = models.Criterion{Name: name, Score: score}
	}
	return assessment("ISO 27001", criteria)
}

func gapActions(verb string, a *models.FrameworkAssessment) []string {
	actions := make([]string, 0, len(a.Gaps))
	for _, g := range a.Gaps {
		actions = append(actions, verb+" "+g.Control)
	}
	return actions
}

// Recommendations suggests remediation for every framework scoring below 85
func Recommendations(pdpl, nca, iso *models.FrameworkAssessment) []*models.Recommendation {
	recs := []*models.Recommendation{}
	if pdpl.Score < recommendationThreshold {
		recs = append(recs, &models.Recommendation{
			Priority:    models.SeverityHigh,
			Category:    "Data Protection",
			Title:       "Enhance PDPL Compliance",
			Description: "Improve data protection practices to meet PDPL requirements",
			Actions:     gapActions("Address", pdpl),
		})
	}
	if nca.Score < recommendationThreshold {
		recs = append(recs, &models.Recommendation{
			Priority:    models.SeverityHigh,
			Category:    "Cybersecurity",
			Title:       "Strengthen NCA ECC Controls",
			Description: "Implement missing cybersecurity controls",
			Actions:     gapActions("Improve", nca),
		})
	}
	if iso.Score < recommendationThreshold {
		recs = append(recs, &models.Recommendation{
			Priority:    models.SeverityMedium,
			Category:    "Information Security",
			Title:       "ISO 27001 Alignment",
			Description: "Align with ISO 27001 standards",
			Actions:     gapActions("Implement", iso),
		})
	}
	return recs
}

// BuildComplianceReport combines the three frameworks into one report
func BuildComplianceReport(signals models.ComplianceSignals, rnd *rand.Rand, now time.Time) *models.ComplianceReport {
	pdpl := AssessPDPL(signals)
	nca := AssessNCA(signals)
	iso := AssessISO27001(signals, rnd)
	overall := (pdpl.Score + nca.Score + iso.Score) / 3

	report := &models.ComplianceReport{
		OverallScore:    Round(overall, 1),
		ComplianceLevel: ComplianceLevel(overall),
		Recommendations: Recommendations(pdpl, nca, iso),
		LastAssessed:    now,
	}
	report.Frameworks.PDPL = pdpl
	report.Frameworks.NCAECC = nca
	report.Frameworks.ISO27001 = iso
	return report
}

// SimulatedHistory produces a monthly series ending at now's month, oldest first.
// Scores drift around 85 and are clamped to [0,100].
func SimulatedHistory(months int, rnd *rand.Rand, now time.Time) *models.ComplianceHistory {
	if months < 1 {
		months = 12
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	history := make([]*models.ComplianceHistoryPoint, months)
	sum := 0.0
	for i := 0; i < months; i++ {
		score := clamp(85+(rnd.Float64()*10-5)+float64(i)*0.5, 0, 100)
		rounded := Round(score, 1)
		history[months-1-i] = &models.ComplianceHistoryPoint{
			Month:  start.AddDate(0, -i, 0).Format("2006-01"),
			Score:  rounded,
			Status: ComplianceStatus(score),
		}
		sum += rounded
	}

	trend := "declining"
	if history[months-1].Score > history[0].Score {
		trend = "improving"
	}
	return &models.ComplianceHistory{
		History:  history,
		Trend:    trend,
		AvgScore: Round(sum/float64(months), 1),
	}
}
