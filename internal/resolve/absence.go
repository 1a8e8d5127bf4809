package resolve

import "strings"

// absenceMarkers are evidence phrases equivalent to "nothing found".
// Compared accent- and case-insensitively against the folded value.
var absenceMarkers = []string{
	"non trouve",
	"not found",
	"no mention",
	"aucune mention",
	"pas de mention",
	"absent",
	"introuvable",
	"non mentionne",
	"none found",
	"n/a",
	"neant",
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func foldLabel(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ValueIndicatesAbsence reports whether an evidence value reads as
// "the information is not in the document".
func ValueIndicatesAbsence(value string) bool {
	folded := foldLabel(value)
	if folded == "" {
		return false
	}
	for _, marker := range absenceMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}
