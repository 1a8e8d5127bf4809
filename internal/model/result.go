package model

// Status is the per-point conformity status reported for a control point
type Status string

const (
	StatusConforme    Status = "CONFORME"
	StatusDouteux     Status = "DOUTEUX"
	StatusNonConforme Status = "NON_CONFORME"
)

// Recommendation is the action derived from a point or document verdict
type Recommendation string

const (
	RecommendValidate Recommendation = "VALIDER"
	RecommendMoreInfo Recommendation = "DEMANDER_COMPLEMENT"
	RecommendReject   Recommendation = "REFUSER"
)

// GlobalStatus aggregates per-point statuses over a whole document
type GlobalStatus string

const (
	GlobalConforme       GlobalStatus = "CONFORME"
	GlobalPartialConform GlobalStatus = "PARTIELLEMENT_CONFORME"
	GlobalNonConforme    GlobalStatus = "NON_CONFORME"
)

// PointResult is the resolved verdict for one control point.
// Recommendation is always recomputed from (status, criticity) by the
// resolver; the model's own suggestion is kept for audit but never exposed.
type PointResult struct {
	Name       string         `json:"name"`
	Status     Status         `json:"status"`
	ValueFound string         `json:"value_found,omitempty"`
	Comment    string         `json:"comment,omitempty"`
	Criticity  CriticityLevel `json:"criticity"`

	Recommendation Recommendation `json:"recommendation"`

	// ModelRecommendation is what the model claimed before the override.
	ModelRecommendation Recommendation `json:"-"`
}

// Summary holds the status counts and narrative for one document
type Summary struct {
	TotalPoints     int      `json:"total_points"`
	Conforme        int      `json:"conforme"`
	Douteux         int      `json:"douteux"`
	NonConforme     int      `json:"non_conforme"`
	CriticalIssues  []string `json:"critical_issues,omitempty"`
	Recommendations string   `json:"recommendations"`
}

// AnalysisResult is the complete verdict for one document.
// Immutable after resolution except for the batch-enrichment fields
// (Filename, Metadata, Error) set by the coordinator.
type AnalysisResult struct {
	DocumentType         string         `json:"document_type"`
	AnalysisDate         string         `json:"analysis_date"`
	GlobalStatus         GlobalStatus   `json:"global_status"`
	GlobalRecommendation Recommendation `json:"global_recommendation"`
	Points               []PointResult  `json:"points"`
	Summary              Summary        `json:"summary"`

	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Error is set on failure placeholders. Callers must treat its presence
	// as authoritative regardless of the other fields.
	Error string `json:"error,omitempty"`
}

// IsError reports whether this result is a failure placeholder
func (r *AnalysisResult) IsError() bool {
	return r.Error != ""
}

// ErrorResult builds the canonical failure placeholder for a document.
// Absence of certainty biases toward non-conformance, never the opposite.
func ErrorResult(documentType, date, errMsg string) *AnalysisResult {
	return &AnalysisResult{
		DocumentType:         documentType,
		AnalysisDate:         date,
		GlobalStatus:         GlobalNonConforme,
		GlobalRecommendation: RecommendMoreInfo,
		Points:               []PointResult{},
		Summary:              Summary{},
		Error:                errMsg,
	}
}
