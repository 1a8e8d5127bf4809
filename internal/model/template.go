package model

// CriticityLevel classifies how severe a non-conformance on a control point is
type CriticityLevel int

const (
	CriticityMinor    CriticityLevel = 1 // Mineur
	CriticityMajor    CriticityLevel = 2 // Majeur
	CriticityCritical CriticityLevel = 3 // Critique
)

func (c CriticityLevel) String() string {
	switch c {
	case CriticityCritical:
		return "Critique"
	case CriticityMajor:
		return "Majeur"
	case CriticityMinor:
		return "Mineur"
	default:
		return "Mineur"
	}
}

// MarshalText serializes the French label used on the wire and in reports
func (c CriticityLevel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the French labels back, so serialized results and
// template files round-trip.
func (c *CriticityLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Critique":
		*c = CriticityCritical
	case "Majeur":
		*c = CriticityMajor
	default:
		*c = CriticityMinor
	}
	return nil
}

// ControlPoint is one checklist item of a document template.
// Immutable once constructed; owned by its template.
type ControlPoint struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Criticity   CriticityLevel `json:"criticity" yaml:"criticity"`

	// Synonyms widen the search for the fact in the document text.
	// Order matters: it is the order presented to the model.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	Required bool `json:"required" yaml:"required"`

	// ValidationRules are free-form advisory constraints shown to the model.
	// The resolver never evaluates them.
	ValidationRules []string `json:"validation_rules,omitempty" yaml:"validation_rules,omitempty"`

	// AbsenceConforme inverts the default reading of absence: no mention of
	// this point in the document is the conforming outcome (e.g. foreign-body
	// or needle-contamination checks on food datasheets).
	AbsenceConforme bool `json:"absence_conforme,omitempty" yaml:"absence_conforme,omitempty"`
}

// DocumentTemplate is a named checklist bound to a document category.
// Templates are process-wide static configuration: built at startup,
// never mutated, looked up by category key.
type DocumentTemplate struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Category    string         `json:"category" yaml:"category"`
	Points      []ControlPoint `json:"control_points" yaml:"control_points"`
}

// Point returns the control point with the given name, or nil.
func (t *DocumentTemplate) Point(name string) *ControlPoint {
	for i := range t.Points {
		if t.Points[i].Name == name {
			return &t.Points[i]
		}
	}
	return nil
}
