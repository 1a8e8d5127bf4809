package report

import (
	"fmt"
	"io"

	"github.com/cbrunet/conforma/internal/model"
)

// PrintSummary writes a human-readable verdict to w
func PrintSummary(w io.Writer, result *model.AnalysisResult) {
	fmt.Fprintln(w)
	if result.Filename != "" {
		fmt.Fprintf(w, "Document:        %s\n", result.Filename)
	}
	fmt.Fprintf(w, "Type:            %s\n", result.DocumentType)

	if result.IsError() {
		fmt.Fprintf(w, "Erreur:          %s\n", result.Error)
		return
	}

	fmt.Fprintf(w, "Statut global:   %s %s\n", globalSymbol(result.GlobalStatus), result.GlobalStatus)
	fmt.Fprintf(w, "Recommandation:  %s\n", result.GlobalRecommendation)
	fmt.Fprintf(w, "Points:          %d conformes, %d douteux, %d non conformes (sur %d)\n",
		result.Summary.Conforme, result.Summary.Douteux, result.Summary.NonConforme, result.Summary.TotalPoints)

	for _, issue := range result.Summary.CriticalIssues {
		fmt.Fprintf(w, "  ❌ %s\n", issue)
	}
}

// PrintBatchSummary writes the consolidated batch verdict to w
func PrintBatchSummary(w io.Writer, batch *model.BatchResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Documents:             %d\n", batch.Summary.TotalDocuments)
	fmt.Fprintf(w, "Conformes:             %d\n", batch.Summary.Conforme)
	fmt.Fprintf(w, "Partiellement:         %d\n", batch.Summary.PartiellementConforme)
	fmt.Fprintf(w, "Non conformes:         %d\n", batch.Summary.NonConforme)
	fmt.Fprintf(w, "Taux de conformité:    %.1f%%\n", batch.Summary.ConformityRate)

	if len(batch.CriticalIssues) > 0 {
		fmt.Fprintln(w, "\nProblèmes critiques:")
		for _, issue := range batch.CriticalIssues {
			fmt.Fprintf(w, "  ❌ %s\n", issue)
		}
	}
}
