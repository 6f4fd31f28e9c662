package heatmap

// AnalysisType selects how points are weighted.
type AnalysisType string

const (
	CrashDensity     AnalysisType = "crash_density"
	SeverityWeighted AnalysisType = "severity_weighted"
	RiskAssessment   AnalysisType = "risk_assessment"
	TemporalAnalysis AnalysisType = "temporal_analysis"
)

// AnalysisInfo describes an analysis type for pickers and help text.
type AnalysisInfo struct {
	Type        AnalysisType
	Label       string
	Description string
}

// Analyses lists the supported analysis types in menu order.
func Analyses() []AnalysisInfo {
	return []AnalysisInfo{
		{CrashDensity, "كثافة الحوادث", "Incident density per area"},
		{SeverityWeighted, "مرجح بالشدة", "More severe incidents weigh more"},
		{RiskAssessment, "تقييم المخاطر", "Incidents combined with known blackspots"},
		{TemporalAnalysis, "التحليل الزمني", "Recent incidents weigh more"},
	}
}

// Valid reports whether a is a known analysis type.
func (a AnalysisType) Valid() bool {
	switch a {
	case CrashDensity, SeverityWeighted, RiskAssessment, TemporalAnalysis:
		return true
	}
	return false
}

// Normalize returns a, or CrashDensity when a is unknown.
func (a AnalysisType) Normalize() AnalysisType {
	if a.Valid() {
		return a
	}
	return CrashDensity
}
