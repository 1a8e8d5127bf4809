package resolve

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/normalize"
	"github.com/cbrunet/conforma/internal/template"
)

var fixedTime = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func testTemplate() *model.DocumentTemplate {
	return &model.DocumentTemplate{
		Name:     "Fiche Test",
		Category: "test",
		Points: []model.ControlPoint{
			{Name: "Estampille", Criticity: model.CriticityCritical, Required: true},
			{Name: "Origine", Criticity: model.CriticityMajor, Required: true},
			{Name: "Fournisseur", Criticity: model.CriticityMinor, Required: true},
		},
	}
}

func answer(name string, status model.Status, value string) normalize.RawPoint {
	return normalize.RawPoint{Name: name, Status: status, ValueFound: value}
}

func TestResolve_CriticalIssuesSorted(t *testing.T) {
	// Template order puts Traçabilité first; the summary must list the
	// issues lexicographically regardless.
	tpl := &model.DocumentTemplate{
		Name:     "Fiche Test",
		Category: "test",
		Points: []model.ControlPoint{
			{Name: "Traçabilité", Criticity: model.CriticityCritical, Required: true},
			{Name: "Allergènes", Criticity: model.CriticityCritical, Required: true},
		},
	}
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		{Name: "Traçabilité", Status: model.StatusNonConforme, Comment: "numéro de lot absent"},
		{Name: "Allergènes", Status: model.StatusNonConforme, Comment: "non déclarés"},
	}}

	res := NewResolver(nil).Resolve(tpl, raw, fixedTime)

	want := []string{"Allergènes: non déclarés", "Traçabilité: numéro de lot absent"}
	if !reflect.DeepEqual(res.Summary.CriticalIssues, want) {
		t.Errorf("critical issues: got %v, want %v", res.Summary.CriticalIssues, want)
	}
}

func TestRecommend_TotalFunction(t *testing.T) {
	statuses := []model.Status{model.StatusConforme, model.StatusDouteux, model.StatusNonConforme}
	criticities := []model.CriticityLevel{model.CriticityMinor, model.CriticityMajor, model.CriticityCritical}

	for _, st := range statuses {
		for _, cr := range criticities {
			got := Recommend(st, cr)

			// status == Conforme <=> recommendation == VALIDER
			if (st == model.StatusConforme) != (got == model.RecommendValidate) {
				t.Errorf("Recommend(%s, %s) = %s breaks the Conforme<=>VALIDER invariant", st, cr, got)
			}
			// critical fail => REFUSER
			if st != model.StatusConforme && cr == model.CriticityCritical && got != model.RecommendReject {
				t.Errorf("Recommend(%s, Critique) = %s, want REFUSER", st, got)
			}
			// non-critical fail => DEMANDER_COMPLEMENT
			if st != model.StatusConforme && cr != model.CriticityCritical && got != model.RecommendMoreInfo {
				t.Errorf("Recommend(%s, %s) = %s, want DEMANDER_COMPLEMENT", st, cr, got)
			}
		}
	}
}

func TestResolve_OverridesModelRecommendation(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		{Name: "Estampille", Status: model.StatusNonConforme, Comment: "absente", Recommendation: model.RecommendValidate},
		{Name: "Origine", Status: model.StatusConforme, ValueFound: "France"},
		{Name: "Fournisseur", Status: model.StatusConforme, ValueFound: "ACME SA"},
	}}

	res := r.Resolve(testTemplate(), raw, fixedTime)

	p := res.Points[0]
	if p.Recommendation != model.RecommendReject {
		t.Errorf("critical non-conforme must resolve to REFUSER regardless of model claim, got %s", p.Recommendation)
	}
	if p.ModelRecommendation != model.RecommendValidate {
		t.Errorf("model's advisory recommendation must be kept for audit, got %s", p.ModelRecommendation)
	}
}

func TestResolve_CriticityComesFromTemplate(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		// Model mislabels the critical point as minor
		{Name: "Estampille", Status: model.StatusNonConforme, Criticity: model.CriticityMinor},
		{Name: "Origine", Status: model.StatusConforme, ValueFound: "France"},
		{Name: "Fournisseur", Status: model.StatusConforme, ValueFound: "ACME SA"},
	}}

	res := r.Resolve(testTemplate(), raw, fixedTime)

	if res.Points[0].Criticity != model.CriticityCritical {
		t.Errorf("criticity must come from the template, got %s", res.Points[0].Criticity)
	}
	if res.GlobalRecommendation != model.RecommendReject {
		t.Errorf("mislabeled criticity must not soften the global verdict, got %s", res.GlobalRecommendation)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Estampille", model.StatusConforme, "FR 12.345.678 CE"),
		answer("Origine", model.StatusDouteux, "mention partielle"),
	}}

	first := r.Resolve(testTemplate(), raw, fixedTime)
	second := r.Resolve(testTemplate(), raw, fixedTime)

	if !reflect.DeepEqual(first, second) {
		t.Error("resolving the same parsed response twice must be bit-identical")
	}
}

func TestResolve_Completeness(t *testing.T) {
	r := NewResolver(nil)

	// Model answered nothing at all
	res := r.Resolve(testTemplate(), &normalize.RawAnalysis{}, fixedTime)
	if len(res.Points) != 3 {
		t.Fatalf("expected one result per control point, got %d", len(res.Points))
	}
	for _, p := range res.Points {
		if p.Status != model.StatusNonConforme {
			t.Errorf("point %s: synthesized status must be NON_CONFORME, got %s", p.Name, p.Status)
		}
		if p.Comment != "missing from model response" {
			t.Errorf("point %s: comment %q", p.Name, p.Comment)
		}
	}
}

func TestResolve_ChimieMissingSixthPoint(t *testing.T) {
	tpl, err := template.NewRegistry().Get("chimie")
	if err != nil {
		t.Fatal(err)
	}

	raw := &normalize.RawAnalysis{}
	for _, cp := range tpl.Points[:5] {
		raw.Points = append(raw.Points, answer(cp.Name, model.StatusConforme, "présent"))
	}

	res := NewResolver(nil).Resolve(tpl, raw, fixedTime)

	if len(res.Points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(res.Points))
	}
	last := res.Points[5]
	if last.Status != model.StatusNonConforme {
		t.Errorf("missing point must resolve NON_CONFORME, got %s", last.Status)
	}
	if last.Comment != "missing from model response" {
		t.Errorf("missing point comment: %q", last.Comment)
	}
	if last.Criticity != tpl.Points[5].Criticity {
		t.Errorf("missing point must carry its own criticity")
	}
}

func TestResolve_DowngradesInconsistentConforme(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Estampille", model.StatusConforme, "non trouvé"),
		answer("Origine", model.StatusConforme, "France"),
		answer("Fournisseur", model.StatusConforme, "ACME SA"),
	}}

	res := r.Resolve(testTemplate(), raw, fixedTime)

	p := res.Points[0]
	if p.Status != model.StatusNonConforme {
		t.Errorf("'non trouvé' evidence with claimed Conforme must downgrade, got %s", p.Status)
	}
	if p.Recommendation != model.RecommendReject {
		t.Errorf("downgraded critical point must resolve REFUSER, got %s", p.Recommendation)
	}
	if res.GlobalStatus != model.GlobalPartialConform {
		t.Errorf("global status: got %s", res.GlobalStatus)
	}
}

func TestResolve_UnknownPointDropped(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Estampille", model.StatusConforme, "FR 12.345.678 CE"),
		answer("Origine", model.StatusConforme, "France"),
		answer("Fournisseur", model.StatusConforme, "ACME SA"),
		answer("Point Fantôme", model.StatusNonConforme, ""),
	}}

	res := r.Resolve(testTemplate(), raw, fixedTime)

	if len(res.Points) != 3 {
		t.Fatalf("unknown point must be dropped, got %d points", len(res.Points))
	}
	if res.GlobalStatus != model.GlobalConforme {
		t.Errorf("dropped entry must not affect the verdict, got %s", res.GlobalStatus)
	}
}

func TestResolve_GlobalStatusThreeWaySplit(t *testing.T) {
	r := NewResolver(nil)
	tpl := testTemplate()

	cases := []struct {
		name     string
		statuses [3]model.Status
		want     model.GlobalStatus
	}{
		{"all conforme", [3]model.Status{model.StatusConforme, model.StatusConforme, model.StatusConforme}, model.GlobalConforme},
		{"zero conforme", [3]model.Status{model.StatusNonConforme, model.StatusDouteux, model.StatusNonConforme}, model.GlobalNonConforme},
		{"mixed", [3]model.Status{model.StatusConforme, model.StatusNonConforme, model.StatusConforme}, model.GlobalPartialConform},
	}

	for _, tc := range cases {
		raw := &normalize.RawAnalysis{}
		for i, cp := range tpl.Points {
			raw.Points = append(raw.Points, answer(cp.Name, tc.statuses[i], "valeur citée"))
		}
		res := r.Resolve(tpl, raw, fixedTime)
		if res.GlobalStatus != tc.want {
			t.Errorf("%s: global status %s, want %s", tc.name, res.GlobalStatus, tc.want)
		}
	}
}

func TestResolve_GlobalRecommendationLadder(t *testing.T) {
	r := NewResolver(nil)
	tpl := testTemplate()

	cases := []struct {
		name     string
		statuses [3]model.Status // order: critical, major, minor points
		want     model.Recommendation
	}{
		{"critical fail wins", [3]model.Status{model.StatusDouteux, model.StatusNonConforme, model.StatusNonConforme}, model.RecommendReject},
		{"major fail", [3]model.Status{model.StatusConforme, model.StatusNonConforme, model.StatusNonConforme}, model.RecommendMoreInfo},
		{"minor fail still validates", [3]model.Status{model.StatusConforme, model.StatusConforme, model.StatusDouteux}, model.RecommendValidate},
		{"clean", [3]model.Status{model.StatusConforme, model.StatusConforme, model.StatusConforme}, model.RecommendValidate},
	}

	for _, tc := range cases {
		raw := &normalize.RawAnalysis{}
		for i, cp := range tpl.Points {
			raw.Points = append(raw.Points, answer(cp.Name, tc.statuses[i], "valeur citée"))
		}
		res := r.Resolve(tpl, raw, fixedTime)
		if res.GlobalRecommendation != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, res.GlobalRecommendation, tc.want)
		}

		// REFUSER <=> exists critical fail
		hasCriticalFail := tc.statuses[0] != model.StatusConforme
		if hasCriticalFail != (res.GlobalRecommendation == model.RecommendReject) {
			t.Errorf("%s: REFUSER<=>critical-fail invariant broken", tc.name)
		}

		// minor-only fails are flagged in the narrative
		if tc.name == "minor fail still validates" && !strings.Contains(res.Summary.Recommendations, "remarque") {
			t.Errorf("minor-only failure must be flagged with a remark, narrative: %q", res.Summary.Recommendations)
		}
	}
}

func TestResolve_AbsenceConformePoints(t *testing.T) {
	tpl := &model.DocumentTemplate{
		Name:     "Fiche Agro Réduite",
		Category: "agro-mini",
		Points: []model.ControlPoint{
			{Name: "Composition", Criticity: model.CriticityCritical, Required: true},
			{Name: "Corps étrangers", Criticity: model.CriticityCritical, AbsenceConforme: true},
		},
	}
	r := NewResolver(nil)

	// Missing from response: absence is the conforming outcome
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Composition", model.StatusConforme, "Farine, eau, sel"),
	}}
	res := r.Resolve(tpl, raw, fixedTime)
	if res.Points[1].Status != model.StatusConforme {
		t.Errorf("absent exception point must resolve CONFORME, got %s", res.Points[1].Status)
	}
	if res.GlobalStatus != model.GlobalConforme {
		t.Errorf("global status: got %s", res.GlobalStatus)
	}

	// Model reported non-conformance backed only by absence markers
	raw = &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Composition", model.StatusConforme, "Farine, eau, sel"),
		answer("Corps étrangers", model.StatusNonConforme, "aucune mention"),
	}}
	res = r.Resolve(tpl, raw, fixedTime)
	if res.Points[1].Status != model.StatusConforme {
		t.Errorf("absence-backed failure on exception point must upgrade to CONFORME, got %s", res.Points[1].Status)
	}

	// An actual contamination mention stands as reported
	raw = &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Composition", model.StatusConforme, "Farine, eau, sel"),
		answer("Corps étrangers", model.StatusNonConforme, "présence possible de fragments métalliques signalée p.3"),
	}}
	res = r.Resolve(tpl, raw, fixedTime)
	if res.Points[1].Status != model.StatusNonConforme {
		t.Errorf("real contamination mention must stay NON_CONFORME, got %s", res.Points[1].Status)
	}
	if res.Points[1].Recommendation != model.RecommendReject {
		t.Errorf("critical contamination must resolve REFUSER, got %s", res.Points[1].Recommendation)
	}
}

func TestResolve_SummaryCounts(t *testing.T) {
	r := NewResolver(nil)
	raw := &normalize.RawAnalysis{Points: []normalize.RawPoint{
		answer("Estampille", model.StatusNonConforme, ""),
		answer("Origine", model.StatusDouteux, "mention partielle"),
		answer("Fournisseur", model.StatusConforme, "ACME SA"),
	}}

	res := r.Resolve(testTemplate(), raw, fixedTime)
	s := res.Summary

	if s.TotalPoints != 3 || s.Conforme != 1 || s.Douteux != 1 || s.NonConforme != 1 {
		t.Errorf("summary counts wrong: %+v", s)
	}
	if len(s.CriticalIssues) != 1 || !strings.HasPrefix(s.CriticalIssues[0], "Estampille") {
		t.Errorf("critical issues: %v", s.CriticalIssues)
	}
	if res.AnalysisDate != "2025-03-14" {
		t.Errorf("analysis date: %q", res.AnalysisDate)
	}
}

func TestValueIndicatesAbsence(t *testing.T) {
	cases := map[string]bool{
		"non trouvé":                      true,
		"NON TROUVE":                      true,
		"Aucune mention dans le document": true,
		"not found":                       true,
		"N/A":                             true,
		"néant":                           true,
		"":                                false,
		"FR 12.345.678 CE":                false,
		"Conservation entre 0°C et 4°C":   false,
	}

	for value, want := range cases {
		if got := ValueIndicatesAbsence(value); got != want {
			t.Errorf("ValueIndicatesAbsence(%q) = %v, want %v", value, got, want)
		}
	}
}
