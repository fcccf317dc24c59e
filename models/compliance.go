package models

import "time"

// ComplianceGap is a control scoring below the acceptable threshold
type ComplianceGap struct {
	Control   string `json:"control"`
	Score     int    `json:"score"`
	Severity  string `json:"severity"`
	Framework string `json:"framework"`
}

// Criterion is one named score within a framework, kept in a stable order
type Criterion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// FrameworkAssessment is the result for one compliance framework
type FrameworkAssessment struct {
	Framework string           `json:"framework"`
	Score     float64          `json:"score"`
	Status    string           `json:"status"`
	Criteria  []Criterion      `json:"criteria"`
	Gaps      []*ComplianceGap `json:"gaps"`
}

// Recommendation is a remediation suggestion
type Recommendation struct {
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// ComplianceReport combines the three framework assessments
type ComplianceReport struct {
	OverallScore    float64 `json:"overall_score"`
	ComplianceLevel string  `json:"compliance_level"`
	Frameworks      struct {
		PDPL     *FrameworkAssessment `json:"pdpl"`
		NCAECC   *FrameworkAssessment `json:"nca_ecc"`
		ISO27001 *FrameworkAssessment `json:"iso27001"`
	} `json:"frameworks"`
	Recommendations []*Recommendation `json:"recommendations"`
	LastAssessed    time.Time         `json:"last_assessed"`
}

// ComplianceSignals are the stored facts an assessment is derived from
type ComplianceSignals struct {
	MaturityScore  *float64
	PrivacyEvents  int
	SecurityEvents int
}

// ComplianceHistoryPoint is one month of the compliance series
type ComplianceHistoryPoint struct {
	Month  string  `json:"month"`
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

// ComplianceHistory is a monthly compliance series
type ComplianceHistory struct {
	History  []*ComplianceHistoryPoint `json:"history"`
	Trend    string                    `json:"trend"`
	AvgScore float64                   `json:"avg_score"`
}
