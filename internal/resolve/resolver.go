// Package resolve turns parsed model answers into deterministic, auditable
// verdicts. The model's stated recommendations are advisory input only: every
// decision surfaced to callers is recomputed here from structured fields, so
// the same parsed response always resolves to the same result.
package resolve

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cbrunet/conforma/internal/model"
	"github.com/cbrunet/conforma/internal/normalize"
)

// missingComment marks control points the model failed to cover
const missingComment = "missing from model response"

// Resolver applies the per-point and global decision rules
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Recommend is the per-point recommendation rule. Total over every
// (status, criticity) pair, no exceptions:
//
//	Conforme           -> VALIDER
//	fail on Critique   -> REFUSER
//	fail on Majeur/Mineur -> DEMANDER_COMPLEMENT
func Recommend(status model.Status, criticity model.CriticityLevel) model.Recommendation {
	if status == model.StatusConforme {
		return model.RecommendValidate
	}
	if criticity == model.CriticityCritical {
		return model.RecommendReject
	}
	return model.RecommendMoreInfo
}

// Resolve matches the parsed answer against the template and produces the
// document verdict. The analysis time is an argument so that resolving the
// same parsed response twice is bit-identical.
func (r *Resolver) Resolve(tpl *model.DocumentTemplate, raw *normalize.RawAnalysis, at time.Time) *model.AnalysisResult {
	byName := r.indexAnswers(tpl, raw)

	points := make([]model.PointResult, 0, len(tpl.Points))
	for _, cp := range tpl.Points {
		answer, ok := byName[cp.Name]
		var pr model.PointResult
		if ok {
			pr = r.resolvePoint(cp, answer)
		} else {
			pr = r.synthesizeMissing(cp)
		}
		points = append(points, pr)
	}

	result := &model.AnalysisResult{
		DocumentType:         tpl.Name,
		AnalysisDate:         at.Format("2006-01-02"),
		Points:               points,
		GlobalStatus:         globalStatus(points),
		GlobalRecommendation: globalRecommendation(points),
	}
	result.Summary = buildSummary(points, result.GlobalRecommendation)

	return result
}

// indexAnswers maps template point names to the model's answers, dropping
// entries whose name matches no control point.
func (r *Resolver) indexAnswers(tpl *model.DocumentTemplate, raw *normalize.RawAnalysis) map[string]normalize.RawPoint {
	known := make(map[string]string, len(tpl.Points)) // folded -> canonical name
	for _, cp := range tpl.Points {
		known[foldLabel(cp.Name)] = cp.Name
	}

	byName := make(map[string]normalize.RawPoint, len(raw.Points))
	for _, p := range raw.Points {
		name, ok := known[foldLabel(p.Name)]
		if !ok {
			r.logger.Warn("dropping answer for unknown control point",
				zap.String("point", p.Name),
				zap.String("template", tpl.Name))
			continue
		}
		if _, dup := byName[name]; dup {
			r.logger.Warn("duplicate answer for control point, keeping first",
				zap.String("point", name))
			continue
		}
		byName[name] = p
	}
	return byName
}

// resolvePoint applies the consistency rules and the recommendation override
// to one answered control point.
func (r *Resolver) resolvePoint(cp model.ControlPoint, answer normalize.RawPoint) model.PointResult {
	status := answer.Status
	value := answer.ValueFound
	comment := answer.Comment

	absent := ValueIndicatesAbsence(value)

	if cp.AbsenceConforme {
		// Inverted default: no mention is the conforming outcome. A real
		// mention that the model judged non-conforming stands as reported.
		if status != model.StatusConforme && (absent || value == "") {
			r.logger.Info("consistency correction: absence is conforming for this point",
				zap.String("point", cp.Name),
				zap.String("reported_status", string(status)))
			status = model.StatusConforme
			comment = "aucune mention dans le document (résultat attendu)"
		}
	} else if status == model.StatusConforme && (absent || (value == "" && cp.Required)) {
		// The evidence contradicts the claimed status: the value reads as
		// "not found" (or is empty on a required point). Never let that
		// pass as conforming.
		r.logger.Warn("consistency correction: downgrading inconsistent Conforme",
			zap.String("point", cp.Name),
			zap.String("value_found", value))
		status = model.StatusNonConforme
		if comment == "" {
			comment = "valeur déclarée conforme mais introuvable dans le document"
		}
	}

	if status != model.StatusConforme && comment == "" {
		comment = "information absente ou non conforme"
	}

	resolved := Recommend(status, cp.Criticity)
	if answer.Recommendation != "" && answer.Recommendation != resolved {
		r.logger.Debug("overriding model recommendation",
			zap.String("point", cp.Name),
			zap.String("model", string(answer.Recommendation)),
			zap.String("resolved", string(resolved)))
	}

	return model.PointResult{
		Name:                cp.Name,
		Status:              status,
		ValueFound:          value,
		Comment:             comment,
		Criticity:           cp.Criticity, // template owns criticity, the echo is discarded
		Recommendation:      resolved,
		ModelRecommendation: answer.Recommendation,
	}
}

// synthesizeMissing enforces exhaustiveness: a control point the model did not
// cover is resolved here, not silently skipped.
func (r *Resolver) synthesizeMissing(cp model.ControlPoint) model.PointResult {
	if cp.AbsenceConforme {
		return model.PointResult{
			Name:           cp.Name,
			Status:         model.StatusConforme,
			Comment:        "aucune mention dans le document (résultat attendu)",
			Criticity:      cp.Criticity,
			Recommendation: model.RecommendValidate,
		}
	}

	r.logger.Warn("control point missing from model response, synthesizing",
		zap.String("point", cp.Name))

	return model.PointResult{
		Name:           cp.Name,
		Status:         model.StatusNonConforme,
		Comment:        missingComment,
		Criticity:      cp.Criticity,
		Recommendation: Recommend(model.StatusNonConforme, cp.Criticity),
	}
}

// globalStatus derives the document status from the raw status distribution:
// all Conforme, zero Conforme, or mixed. Zero points counts as zero Conforme.
func globalStatus(points []model.PointResult) model.GlobalStatus {
	conforme := 0
	for _, p := range points {
		if p.Status == model.StatusConforme {
			conforme++
		}
	}

	switch {
	case len(points) > 0 && conforme == len(points):
		return model.GlobalConforme
	case conforme == 0:
		return model.GlobalNonConforme
	default:
		return model.GlobalPartialConform
	}
}

// globalRecommendation aggregates failures by criticity. Status and
// recommendation are deliberately independent tracks: status measures how much
// is wrong, recommendation says what to do about it.
func globalRecommendation(points []model.PointResult) model.Recommendation {
	var criticalFail, majorFail bool
	for _, p := range points {
		if p.Status == model.StatusConforme {
			continue
		}
		switch p.Criticity {
		case model.CriticityCritical:
			criticalFail = true
		case model.CriticityMajor:
			majorFail = true
		}
	}

	switch {
	case criticalFail:
		return model.RecommendReject
	case majorFail:
		return model.RecommendMoreInfo
	default:
		return model.RecommendValidate
	}
}

func buildSummary(points []model.PointResult, rec model.Recommendation) model.Summary {
	s := model.Summary{TotalPoints: len(points)}

	var minorFails int
	for _, p := range points {
		switch p.Status {
		case model.StatusConforme:
			s.Conforme++
		case model.StatusDouteux:
			s.Douteux++
		case model.StatusNonConforme:
			s.NonConforme++
		}
		if p.Status != model.StatusConforme {
			if p.Criticity == model.CriticityCritical {
				s.CriticalIssues = append(s.CriticalIssues, criticalIssue(p))
			}
			if p.Criticity == model.CriticityMinor {
				minorFails++
			}
		}
	}

	sort.Strings(s.CriticalIssues)
	s.Recommendations = narrative(rec, len(s.CriticalIssues), minorFails)
	return s
}

func criticalIssue(p model.PointResult) string {
	if p.Comment != "" {
		return fmt.Sprintf("%s: %s", p.Name, p.Comment)
	}
	return p.Name
}

// narrative is the deterministic free-text recommendation line
func narrative(rec model.Recommendation, criticalCount, minorFails int) string {
	switch rec {
	case model.RecommendReject:
		return fmt.Sprintf("Refus recommandé: %d point(s) critique(s) en défaut.", criticalCount)
	case model.RecommendMoreInfo:
		return "Demander un complément d'information au fournisseur sur les points majeurs en défaut."
	default:
		if minorFails > 0 {
			return fmt.Sprintf("Validation possible, avec remarque sur %d point(s) mineur(s) en défaut.", minorFails)
		}
		return "Document conforme, validation recommandée."
	}
}
