package analytics

import (
	"math/rand/v2"
	"testing"
	"time"

	"oversight/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestComplianceThresholds(t *testing.T) {
	assert.Equal(t, "compliant", ComplianceStatus(90))
	assert.Equal(t, "partially_compliant", ComplianceStatus(89.9))
	assert.Equal(t, "non_compliant", ComplianceStatus(69.9))

	assert.Equal(t, "Excellent", ComplianceLevel(95))
	assert.Equal(t, "Good", ComplianceLevel(85))
	assert.Equal(t, "Satisfactory", ComplianceLevel(70))
	assert.Equal(t, "Needs Improvement", ComplianceLevel(50))
	assert.Equal(t, "Non-Compliant", ComplianceLevel(49.9))
}

func TestIdentifyGaps(t *testing.T) {
	gaps := IdentifyGaps([]models.Criterion{
		{Name: "access_control", Score: 45},
		{Name: "data_retention", Score: 69},
		{Name: "backup_recovery", Score: 70},
	}, "NCA ECC")

	require.Len(t, gaps, 2)
	assert.Equal(t, &models.ComplianceGap{Control: "ACCESS CONTROL", Score: 45, Severity: "high", Framework: "NCA ECC"}, gaps[0])
	assert.Equal(t, "medium", gaps[1].Severity)
}

func TestAssessPDPL(t *testing.T) {
	national := AssessPDPL(models.ComplianceSignals{})
	assert.Equal(t, 88.1, national.Score)
	assert.Equal(t, "partially_compliant", national.Status)
	assert.Empty(t, national.Gaps)

	low := 40.0
	entity := AssessPDPL(models.ComplianceSignals{MaturityScore: &low})
	assert.Equal(t, 63.1, entity.Score)
	assert.Len(t, entity.Criteria, 8)
	assert.Len(t, entity.Gaps, 5)
}

func TestAssessNCA(t *testing.T) {
	maturity := 80.0
	quiet := AssessNCA(models.ComplianceSignals{MaturityScore: &maturity})
	monitored := AssessNCA(models.ComplianceSignals{MaturityScore: &maturity, SecurityEvents: 11})

	assert.Len(t, quiet.Criteria, 9)
	assert.Greater(t, monitored.Score, quiet.Score)
	assert.Equal(t, 68, quiet.Criteria[0].Score)
}

func TestAssessISO27001(t *testing.T) {
	national := AssessISO27001(models.ComplianceSignals{}, seeded())
	require.Len(t, national.Criteria, 14)
	for _, c := range national.Criteria {
		assert.GreaterOrEqual(t, c.Score, 80)
		assert.Less(t, c.Score, 95)
	}

	maturity := 50.0
	entity := AssessISO27001(models.ComplianceSignals{MaturityScore: &maturity}, seeded())
	for _, c := range entity.Criteria {
		assert.GreaterOrEqual(t, c.Score, 37)
		assert.LessOrEqual(t, c.Score, 48)
	}
}

func TestBuildComplianceReport(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	maturity := 30.0
	report := BuildComplianceReport(models.ComplianceSignals{MaturityScore: &maturity}, seeded(), now)

	expected := Round((report.Frameworks.PDPL.Score+report.Frameworks.NCAECC.Score+report.Frameworks.ISO27001.Score)/3, 1)
	assert.InDelta(t, expected, report.OverallScore, 0.051)
	assert.Equal(t, now, report.LastAssessed)
	require.Len(t, report.Recommendations, 3)
	assert.Equal(t, "Enhance PDPL Compliance", report.Recommendations[0].Title)
	assert.NotEmpty(t, report.Recommendations[0].Actions)
}

func TestSimulatedHistory(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	history := SimulatedHistory(12, seeded(), now)

	require.Len(t, history.History, 12)
	assert.Equal(t, "2024-04", history.History[0].Month)
	assert.Equal(t, "2025-03", history.History[11].Month)
	for _, h := range history.History {
		assert.GreaterOrEqual(t, h.Score, 0.0)
		assert.LessOrEqual(t, h.Score, 100.0)
	}
	assert.Contains(t, []string{"improving", "declining"}, history.Trend)

	assert.Len(t, SimulatedHistory(0, seeded(), now).History, 12)
}
