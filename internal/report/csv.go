package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/cbrunet/conforma/internal/model"
)

func writeResultCSV(result *model.AnalysisResult, path string) error {
	rows := [][]string{
		{"point", "statut", "valeur_trouvee", "criticite", "commentaire", "recommandation"},
	}
	for _, p := range result.Points {
		rows = append(rows, []string{
			p.Name,
			string(p.Status),
			p.ValueFound,
			p.Criticity.String(),
			p.Comment,
			string(p.Recommendation),
		})
	}
	return writeCSV(rows, path)
}

func writeBatchCSV(batch *model.BatchResult, path string) error {
	rows := [][]string{
		{"document", "statut_global", "recommandation", "conformes", "douteux", "non_conformes", "erreur"},
	}
	for _, doc := range batch.Documents {
		rows = append(rows, []string{
			doc.Filename,
			string(doc.GlobalStatus),
			string(doc.GlobalRecommendation),
			strconv.Itoa(doc.Summary.Conforme),
			strconv.Itoa(doc.Summary.Douteux),
			strconv.Itoa(doc.Summary.NonConforme),
			doc.Error,
		})
	}
	return writeCSV(rows, path)
}

func writeCSV(rows [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
