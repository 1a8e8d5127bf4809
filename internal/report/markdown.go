package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/cbrunet/conforma/internal/model"
)

const footer = "\n---\n*Rapport généré par conforma*\n"

func (r *Renderer) writeMarkdown(content string, path string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func resultMarkdown(result *model.AnalysisResult, includeFooter bool) string {
	var b strings.Builder

	b.WriteString("# Rapport d'analyse de conformité\n\n")
	if result.Filename != "" {
		fmt.Fprintf(&b, "**Document**: %s\n\n", result.Filename)
	}
	fmt.Fprintf(&b, "**Type de document**: %s\n\n", result.DocumentType)
	fmt.Fprintf(&b, "**Date d'analyse**: %s\n\n", result.AnalysisDate)

	if result.IsError() {
		fmt.Fprintf(&b, "## Erreur\n\n%s\n", result.Error)
		if includeFooter {
			b.WriteString(footer)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "**Statut global**: %s %s\n\n", globalSymbol(result.GlobalStatus), result.GlobalStatus)
	fmt.Fprintf(&b, "**Recommandation**: %s\n\n", result.GlobalRecommendation)

	b.WriteString("## Points de contrôle\n\n")
	b.WriteString("| Point | Statut | Valeur trouvée | Criticité | Commentaire | Recommandation |\n")
	b.WriteString("|-------|--------|----------------|-----------|-------------|----------------|\n")
	for _, p := range result.Points {
		fmt.Fprintf(&b, "| %s | %s %s | %s | %s | %s | %s |\n",
			mdCell(p.Name),
			statusSymbol(p.Status), p.Status,
			mdCell(p.ValueFound),
			p.Criticity,
			mdCell(p.Comment),
			p.Recommendation)
	}

	b.WriteString("\n## Synthèse\n\n")
	fmt.Fprintf(&b, "- Points contrôlés: %d\n", result.Summary.TotalPoints)
	fmt.Fprintf(&b, "- Conformes: %d\n", result.Summary.Conforme)
	fmt.Fprintf(&b, "- Douteux: %d\n", result.Summary.Douteux)
	fmt.Fprintf(&b, "- Non conformes: %d\n", result.Summary.NonConforme)

	if len(result.Summary.CriticalIssues) > 0 {
		b.WriteString("\n### Problèmes critiques\n\n")
		for _, issue := range result.Summary.CriticalIssues {
			fmt.Fprintf(&b, "- ❌ %s\n", issue)
		}
	}

	if result.Summary.Recommendations != "" {
		fmt.Fprintf(&b, "\n### Recommandations\n\n%s\n", result.Summary.Recommendations)
	}

	if includeFooter {
		b.WriteString(footer)
	}
	return b.String()
}

func batchMarkdown(batch *model.BatchResult, includeFooter bool) string {
	var b strings.Builder

	b.WriteString("# Rapport de lot\n\n")
	b.WriteString("## Synthèse\n\n")
	fmt.Fprintf(&b, "- Documents analysés: %d\n", batch.Summary.TotalDocuments)
	fmt.Fprintf(&b, "- Conformes: %d\n", batch.Summary.Conforme)
	fmt.Fprintf(&b, "- Partiellement conformes: %d\n", batch.Summary.PartiellementConforme)
	fmt.Fprintf(&b, "- Non conformes: %d\n", batch.Summary.NonConforme)
	fmt.Fprintf(&b, "- Taux de conformité: %.1f%%\n", batch.Summary.ConformityRate)

	if len(batch.CriticalIssues) > 0 {
		b.WriteString("\n## Problèmes critiques\n\n")
		for _, issue := range batch.CriticalIssues {
			fmt.Fprintf(&b, "- ❌ %s\n", issue)
		}
	}

	b.WriteString("\n## Documents\n\n")
	b.WriteString("| Document | Statut | Recommandation | Conformes | Non conformes | Erreur |\n")
	b.WriteString("|----------|--------|----------------|-----------|---------------|--------|\n")
	for _, doc := range batch.Documents {
		fmt.Fprintf(&b, "| %s | %s %s | %s | %d | %d | %s |\n",
			mdCell(doc.Filename),
			globalSymbol(doc.GlobalStatus), doc.GlobalStatus,
			doc.GlobalRecommendation,
			doc.Summary.Conforme,
			doc.Summary.NonConforme,
			mdCell(doc.Error))
	}

	if includeFooter {
		b.WriteString(footer)
	}
	return b.String()
}

// mdCell keeps multi-line or pipe-bearing values from breaking the table
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
