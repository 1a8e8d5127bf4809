package model

// BatchSummary holds the aggregate counters for a batch run
type BatchSummary struct {
	TotalDocuments        int     `json:"total_documents"`
	Conforme              int     `json:"conforme"`
	PartiellementConforme int     `json:"partiellement_conforme"`
	NonConforme           int     `json:"non_conforme"`
	ConformityRate        float64 `json:"conformity_rate"`
}

// BatchResult aggregates the verdicts of a document batch.
// Documents keeps the input order for reproducible reports.
type BatchResult struct {
	Summary        BatchSummary      `json:"batch_summary"`
	CriticalIssues []string          `json:"critical_issues_summary"`
	Documents      []*AnalysisResult `json:"documents"`
}
