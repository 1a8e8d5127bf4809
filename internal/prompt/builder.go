// Package prompt turns a document template into the instruction text sent to
// the model. The output is configuration from the resolver's point of view:
// instructions and the response schema, nothing the resolver depends on.
package prompt

import (
	"fmt"
	"strings"

	"github.com/cbrunet/conforma/internal/model"
)

// SystemPrompt pins the model to JSON-only output
const SystemPrompt = "Tu es un système d'analyse documentaire expert. Tu réponds uniquement en JSON valide, sans texte additionnel."

// ResponseSchema is the literal JSON structure the normalizer expects back
const ResponseSchema = `{
    "document_type": "string",
    "analysis_date": "date du jour",
    "global_status": "CONFORME|PARTIELLEMENT_CONFORME|NON_CONFORME",
    "global_recommendation": "VALIDER|DEMANDER_COMPLEMENT|REFUSER",
    "points": [
        {
            "name": "nom du point",
            "status": "CONFORME|DOUTEUX|NON_CONFORME",
            "value_found": "valeur extraite ou null",
            "comment": "explication ou null",
            "criticity": "Mineur|Majeur|Critique",
            "recommendation": "VALIDER|DEMANDER_COMPLEMENT|REFUSER"
        }
    ],
    "summary": {
        "total_points": 0,
        "conforme": 0,
        "douteux": 0,
        "non_conforme": 0,
        "critical_issues": ["liste des problèmes critiques"],
        "recommendations": "recommandation globale détaillée"
    }
}`

// Build generates the checklist prompt for a template. Deterministic: the same
// template always yields the same text, points enumerated in template order.
func Build(tpl *model.DocumentTemplate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tu es un expert en analyse de documents techniques. Tu dois analyser un %s et vérifier la présence et la conformité des informations.\n\n", tpl.Name)

	b.WriteString("## DOCUMENT À ANALYSER\n")
	fmt.Fprintf(&b, "Catégorie: %s\n", tpl.Category)
	fmt.Fprintf(&b, "Description: %s\n\n", tpl.Description)

	b.WriteString("## POINTS DE CONTRÔLE À VÉRIFIER\n")
	for i, p := range tpl.Points {
		writePoint(&b, i+1, p)
	}

	b.WriteString(`
## INSTRUCTIONS D'ANALYSE

Pour chaque point de contrôle, tu dois fournir:

1. **Statut** (un des trois):
   - CONFORME: Information présente et conforme
   - DOUTEUX: Information partielle ou ambiguë
   - NON_CONFORME: Information absente ou non conforme

2. **Valeur trouvée**: Le texte ou la valeur exacte extraite du document

3. **Commentaire**: Brève explication si DOUTEUX ou NON_CONFORME

4. **Criticité**: Reprendre la criticité indiquée (Mineur/Majeur/Critique)

5. **Recommandation**:
   - VALIDER si CONFORME
   - DEMANDER_COMPLEMENT si DOUTEUX ou NON_CONFORME sur point Mineur/Majeur
   - REFUSER si NON_CONFORME sur point Critique

## RÈGLES IMPORTANTES

- Sois exhaustif: vérifie tous les points de contrôle, sans omission
- Pour chaque point, cherche d'abord les synonymes listés avant de conclure à l'absence
- Si une information est introuvable même avec les synonymes, marque NON_CONFORME
- Pour les points notés "Absence attendue", l'absence de toute mention est le résultat CONFORME
- Fournis des preuves concrètes (citations du texte) pour chaque statut
- Ne fais pas de suppositions, n'invente aucune valeur, base-toi uniquement sur le texte fourni

## FORMAT DE RÉPONSE

Réponds en JSON avec cette structure exacte:

`)
	b.WriteString(ResponseSchema)
	b.WriteString("\n\n## TEXTE DU DOCUMENT À ANALYSER\n\n")

	return b.String()
}

func writePoint(b *strings.Builder, position int, p model.ControlPoint) {
	synonyms := "Aucun"
	if len(p.Synonyms) > 0 {
		synonyms = strings.Join(p.Synonyms, ", ")
	}

	required := "Non"
	if p.Required {
		required = "Oui"
	}

	fmt.Fprintf(b, "\n%d. **%s** (Criticité: %s)\n", position, p.Name, p.Criticity)
	fmt.Fprintf(b, "   - Description: %s\n", p.Description)
	fmt.Fprintf(b, "   - Synonymes à rechercher: %s\n", synonyms)
	fmt.Fprintf(b, "   - Requis: %s\n", required)
	for _, rule := range p.ValidationRules {
		fmt.Fprintf(b, "   - Contrainte: %s\n", rule)
	}
	if p.AbsenceConforme {
		b.WriteString("   - Absence attendue: l'absence de toute mention est CONFORME\n")
	}
}
