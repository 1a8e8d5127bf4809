package pipeline

import (
	"context"

	"github.com/cbrunet/conforma/internal/model"
)

// Comparison reports how two versions of the same datasheet differ once both
// have been analyzed with the same template.
type Comparison struct {
	Document1   *model.AnalysisResult `json:"document_1"`
	Document2   *model.AnalysisResult `json:"document_2"`
	Differences []PointDifference     `json:"differences"`
}

// PointDifference is one control point whose outcome changed between the two
// versions.
type PointDifference struct {
	Point      string       `json:"point"`
	Doc1Status model.Status `json:"doc1_status"`
	Doc1Value  string       `json:"doc1_value,omitempty"`
	Doc2Status model.Status `json:"doc2_status"`
	Doc2Value  string       `json:"doc2_value,omitempty"`
}

// CompareDocuments analyzes two versions of a datasheet and diffs them point
// by point. Both versions are checked against the category of the first one.
func (p *Pipeline) CompareDocuments(ctx context.Context, doc1, doc2 Document) (*Comparison, error) {
	doc2.Category = doc1.Category

	r1, err := p.AnalyzeDocument(ctx, doc1)
	if err != nil {
		return nil, err
	}
	r2, err := p.AnalyzeDocument(ctx, doc2)
	if err != nil {
		return nil, err
	}

	return Diff(r1, r2), nil
}

// Diff pairs the control points of two analyses positionally and keeps the
// ones whose status or extracted value changed. The resolver emits every
// template point in template order, so positional pairing is exact when both
// analyses come from the same template.
func Diff(r1, r2 *model.AnalysisResult) *Comparison {
	cmp := &Comparison{Document1: r1, Document2: r2}

	n := len(r1.Points)
	if len(r2.Points) < n {
		n = len(r2.Points)
	}
	for i := 0; i < n; i++ {
		p1, p2 := r1.Points[i], r2.Points[i]
		if p1.Status == p2.Status && p1.ValueFound == p2.ValueFound {
			continue
		}
		cmp.Differences = append(cmp.Differences, PointDifference{
			Point:      p1.Name,
			Doc1Status: p1.Status,
			Doc1Value:  p1.ValueFound,
			Doc2Status: p2.Status,
			Doc2Value:  p2.ValueFound,
		})
	}

	return cmp
}
