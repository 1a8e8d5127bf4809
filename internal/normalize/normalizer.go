// Package normalize parses raw model output into a canonical structure.
// Models wrap their JSON in code fences, prepend prose and drift on label
// casing; everything recoverable is recovered here. Irrecoverable input
// becomes a ParseError carrying the raw text - never a fabricated verdict.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cbrunet/conforma/internal/model"
)

// ParseError reports model output that could not be decoded into the schema
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response not decodable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RawPoint is one per-point answer as the model stated it, before resolution
type RawPoint struct {
	Name           string
	Status         model.Status
	ValueFound     string
	Comment        string
	Criticity      model.CriticityLevel
	Recommendation model.Recommendation
}

// RawAnalysis is the model's full answer. The global fields and per-point
// recommendations are advisory input only; the resolver recomputes them.
type RawAnalysis struct {
	DocumentType         string
	GlobalStatus         string
	GlobalRecommendation string
	Points               []RawPoint
}

// flexString absorbs null, numeric and boolean values where a string is expected
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(trimmed)
	return nil
}

// Wire structs. encoding/json matches keys case-insensitively, which covers
// the key-casing variance for free.
type wirePoint struct {
	Name           flexString `json:"name"`
	Status         flexString `json:"status"`
	ValueFound     flexString `json:"value_found"`
	Comment        flexString `json:"comment"`
	Criticity      flexString `json:"criticity"`
	Recommendation flexString `json:"recommendation"`
}

type wireAnalysis struct {
	DocumentType         flexString  `json:"document_type"`
	GlobalStatus         flexString  `json:"global_status"`
	GlobalRecommendation flexString  `json:"global_recommendation"`
	Points               []wirePoint `json:"points"`
}

// Parse decodes raw model output into a RawAnalysis
func Parse(raw string) (*RawAnalysis, error) {
	payload := extractPayload(raw)
	if payload == "" {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("no JSON object found in response")}
	}

	var wire wireAnalysis
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	out := &RawAnalysis{
		DocumentType:         string(wire.DocumentType),
		GlobalStatus:         string(wire.GlobalStatus),
		GlobalRecommendation: string(wire.GlobalRecommendation),
		Points:               make([]RawPoint, 0, len(wire.Points)),
	}

	for _, p := range wire.Points {
		out.Points = append(out.Points, RawPoint{
			Name:           strings.TrimSpace(string(p.Name)),
			Status:         ParseStatus(string(p.Status)),
			ValueFound:     strings.TrimSpace(string(p.ValueFound)),
			Comment:        strings.TrimSpace(string(p.Comment)),
			Criticity:      ParseCriticity(string(p.Criticity)),
			Recommendation: ParseRecommendation(string(p.Recommendation)),
		})
	}

	return out, nil
}

// extractPayload strips code fences and surrounding prose, returning the
// outermost JSON object candidate.
func extractPayload(raw string) string {
	s := strings.TrimSpace(raw)

	// Prefer fenced content when present
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			s = rest[:end]
		} else {
			s = rest
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// canonical lowercases and collapses separators so that "Non Conforme",
// "NON-CONFORME" and "non_conforme" compare equal.
func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// ParseStatus maps a status label to its canonical value. Unrecognized labels
// resolve to DOUTEUX: uncertainty must never read as conformance.
func ParseStatus(s string) model.Status {
	switch canonical(s) {
	case "conforme", "conform", "ok":
		return model.StatusConforme
	case "non_conforme", "nonconforme", "non_conform", "ko":
		return model.StatusNonConforme
	case "douteux", "doubtful", "partiel", "partial":
		return model.StatusDouteux
	default:
		return model.StatusDouteux
	}
}

// ParseCriticity maps a criticity label to its level, defaulting to minor
func ParseCriticity(s string) model.CriticityLevel {
	switch canonical(s) {
	case "critique", "critical":
		return model.CriticityCritical
	case "majeur", "major":
		return model.CriticityMajor
	default:
		return model.CriticityMinor
	}
}

// ParseRecommendation maps a recommendation label; unknown labels yield ""
func ParseRecommendation(s string) model.Recommendation {
	switch canonical(s) {
	case "valider", "validate":
		return model.RecommendValidate
	case "refuser", "reject":
		return model.RecommendReject
	case "demander_complement", "complement", "request_more_information", "request_more_info":
		return model.RecommendMoreInfo
	default:
		return ""
	}
}
