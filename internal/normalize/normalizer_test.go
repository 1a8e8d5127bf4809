package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/cbrunet/conforma/internal/model"
)

const cleanResponse = `{
	"document_type": "Fiche Technique Agro-alimentaire",
	"global_status": "PARTIELLEMENT_CONFORME",
	"global_recommendation": "DEMANDER_COMPLEMENT",
	"points": [
		{"name": "Composition", "status": "CONFORME", "value_found": "Farine, eau, sel", "comment": null, "criticity": "Critique", "recommendation": "VALIDER"},
		{"name": "Origine", "status": "NON_CONFORME", "value_found": null, "comment": "Pays d'origine introuvable", "criticity": "Majeur", "recommendation": "DEMANDER_COMPLEMENT"}
	]
}`

func TestParse_CleanJSON(t *testing.T) {
	raw, err := Parse(cleanResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.DocumentType != "Fiche Technique Agro-alimentaire" {
		t.Errorf("document_type: got %q", raw.DocumentType)
	}
	if len(raw.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(raw.Points))
	}

	p := raw.Points[0]
	if p.Name != "Composition" || p.Status != model.StatusConforme || p.ValueFound != "Farine, eau, sel" {
		t.Errorf("point 0 parsed wrong: %+v", p)
	}
	if p.Criticity != model.CriticityCritical {
		t.Errorf("point 0 criticity: got %v", p.Criticity)
	}

	if raw.Points[1].Status != model.StatusNonConforme {
		t.Errorf("point 1 status: got %v", raw.Points[1].Status)
	}
	if raw.Points[1].ValueFound != "" {
		t.Errorf("null value_found should parse as empty, got %q", raw.Points[1].ValueFound)
	}
}

func TestParse_CodeFences(t *testing.T) {
	fenced := "```json\n" + cleanResponse + "\n```"
	raw, err := Parse(fenced)
	if err != nil {
		t.Fatalf("fenced payload should parse: %v", err)
	}
	if len(raw.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(raw.Points))
	}
}

func TestParse_LeadingProse(t *testing.T) {
	noisy := "Voici mon analyse du document :\n\n" + cleanResponse + "\n\nN'hésitez pas si vous avez des questions."
	raw, err := Parse(noisy)
	if err != nil {
		t.Fatalf("payload with surrounding prose should parse: %v", err)
	}
	if len(raw.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(raw.Points))
	}
}

func TestParse_KeyCasingVariance(t *testing.T) {
	raw, err := Parse(`{"Points": [{"Name": "Danger", "STATUS": "Non Conforme", "Criticity": "critique"}]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(raw.Points))
	}
	if raw.Points[0].Status != model.StatusNonConforme {
		t.Errorf("'Non Conforme' should canonicalize, got %v", raw.Points[0].Status)
	}
	if raw.Points[0].Criticity != model.CriticityCritical {
		t.Errorf("'critique' should parse as critical, got %v", raw.Points[0].Criticity)
	}
}

func TestParse_NumericValueFound(t *testing.T) {
	raw, err := Parse(`{"points": [{"name": "Température", "status": "CONFORME", "value_found": 4}]}`)
	if err != nil {
		t.Fatalf("numeric value_found must not break parsing: %v", err)
	}
	if raw.Points[0].ValueFound != "4" {
		t.Errorf("expected coerced \"4\", got %q", raw.Points[0].ValueFound)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"the model refused to answer",
		"{ broken json",
	} {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("input %q: expected ParseError", in)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("input %q: expected *ParseError, got %T", in, err)
			continue
		}
		if pe.Raw != in {
			t.Errorf("ParseError must carry the raw text for diagnostics")
		}
	}
}

func TestParseStatus_UnknownBiasesToDoubt(t *testing.T) {
	if got := ParseStatus("peut-être"); got != model.StatusDouteux {
		t.Errorf("unknown status must resolve to DOUTEUX, got %v", got)
	}
	if got := ParseStatus("conforme"); got != model.StatusConforme {
		t.Errorf("lowercase conforme: got %v", got)
	}
}

func TestParse_MissingPointsKey(t *testing.T) {
	raw, err := Parse(`{"document_type": "Fiche", "global_status": "CONFORME"}`)
	if err != nil {
		t.Fatalf("payload without points is decodable; the resolver enforces completeness: %v", err)
	}
	if len(raw.Points) != 0 {
		t.Errorf("expected empty points, got %d", len(raw.Points))
	}
	if !strings.Contains(raw.DocumentType, "Fiche") {
		t.Errorf("document_type lost: %q", raw.DocumentType)
	}
}
