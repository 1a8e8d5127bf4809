package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cbrunet/conforma/internal/model"
)

const (
	sheetSummary = "Résumé"
	sheetPoints  = "Points de contrôle"
	sheetStats   = "Statistiques"
	sheetDocs    = "Documents"
)

func writeResultExcel(result *model.AnalysisResult, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summaryRows := [][]any{
		{"Document", result.Filename},
		{"Type de document", result.DocumentType},
		{"Date d'analyse", result.AnalysisDate},
		{"Statut global", string(result.GlobalStatus)},
		{"Recommandation", string(result.GlobalRecommendation)},
	}
	if result.IsError() {
		summaryRows = append(summaryRows, []any{"Erreur", result.Error})
	}
	if err := fillRows(f, sheetSummary, summaryRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetPoints); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	pointRows := [][]any{
		{"Point", "Statut", "Valeur trouvée", "Criticité", "Commentaire", "Recommandation"},
	}
	for _, p := range result.Points {
		pointRows = append(pointRows, []any{
			p.Name, string(p.Status), p.ValueFound, p.Criticity.String(), p.Comment, string(p.Recommendation),
		})
	}
	if err := fillRows(f, sheetPoints, pointRows); err != nil {
		return err
	}
	if err := styleHeader(f, sheetPoints, len(pointRows[0])); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetStats); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	statRows := [][]any{
		{"Points contrôlés", result.Summary.TotalPoints},
		{"Conformes", result.Summary.Conforme},
		{"Douteux", result.Summary.Douteux},
		{"Non conformes", result.Summary.NonConforme},
		{"Problèmes critiques", len(result.Summary.CriticalIssues)},
	}
	if err := fillRows(f, sheetStats, statRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeBatchExcel(batch *model.BatchResult, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summaryRows := [][]any{
		{"Documents analysés", batch.Summary.TotalDocuments},
		{"Conformes", batch.Summary.Conforme},
		{"Partiellement conformes", batch.Summary.PartiellementConforme},
		{"Non conformes", batch.Summary.NonConforme},
		{"Taux de conformité (%)", batch.Summary.ConformityRate},
	}
	if err := fillRows(f, sheetSummary, summaryRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetDocs); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	docRows := [][]any{
		{"Document", "Statut global", "Recommandation", "Conformes", "Douteux", "Non conformes", "Erreur"},
	}
	for _, doc := range batch.Documents {
		docRows = append(docRows, []any{
			doc.Filename, string(doc.GlobalStatus), string(doc.GlobalRecommendation),
			doc.Summary.Conforme, doc.Summary.Douteux, doc.Summary.NonConforme, doc.Error,
		})
	}
	if err := fillRows(f, sheetDocs, docRows); err != nil {
		return err
	}
	if err := styleHeader(f, sheetDocs, len(docRows[0])); err != nil {
		return err
	}

	if len(batch.CriticalIssues) > 0 {
		const sheetIssues = "Problèmes critiques"
		if _, err := f.NewSheet(sheetIssues); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		issueRows := make([][]any, 0, len(batch.CriticalIssues))
		for _, issue := range batch.CriticalIssues {
			issueRows = append(issueRows, []any{issue})
		}
		if err := fillRows(f, sheetIssues, issueRows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func fillRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("set row: %w", err)
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", end, style); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}
	return nil
}
