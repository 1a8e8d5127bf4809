package template

import "github.com/cbrunet/conforma/internal/model"

// Builtin checklists. Plain data: new document categories are added here (or
// via Register), never by branching code elsewhere.

func builtinTemplates() []*model.DocumentTemplate {
	return []*model.DocumentTemplate{
		agroTemplate(),
		electroniqueTemplate(),
		chimieTemplate(),
	}
}

func agroTemplate() *model.DocumentTemplate {
	return &model.DocumentTemplate{
		Name:        "Fiche Technique Agro-alimentaire",
		Description: "Analyse de fiches techniques produits agro-alimentaires",
		Category:    "agro",
		Points: []model.ControlPoint{
			{
				Name:        "Intitulé du produit",
				Description: "Dénomination légale du produit",
				Criticity:   model.CriticityMinor,
				Synonyms:    []string{"Dénomination légale", "Nom du produit", "Nom commercial", "Produit"},
				Required:    true,
			},
			{
				Name:        "Estampille",
				Description: "Numéro d'agrément sanitaire",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Estampille sanitaire", "N° d'agrément", "Agrément sanitaire", "FR", "CE"},
				Required:    true,
			},
			{
				Name:        "Composition",
				Description: "Liste des ingrédients et composition",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Ingrédients", "Ingredients", "Composition", "Recette"},
				Required:    true,
			},
			{
				Name:        "DLC / DLUO",
				Description: "Durée de vie et date limite",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Durée de vie", "Date limite", "Use by", "DDM", "DLC"},
				Required:    true,
			},
			{
				Name:            "Température",
				Description:     "Conditions de température",
				Criticity:       model.CriticityCritical,
				Synonyms:        []string{"Température de conservation", "Storage temperature", "À conserver à"},
				Required:        true,
				ValidationRules: []string{"Une plage ou une valeur en °C doit être citée"},
			},
			{
				Name:        "Origine",
				Description: "Pays d'origine",
				Criticity:   model.CriticityMajor,
				Synonyms:    []string{"Pays d'origine", "Origine", "Provenance"},
				Required:    true,
			},
			{
				Name:        "Conditionnement",
				Description: "Type d'emballage",
				Criticity:   model.CriticityMajor,
				Synonyms:    []string{"Packaging", "Emballage", "Colisage", "Type de contenant"},
				Required:    true,
			},
			{
				Name:        "Fournisseur",
				Description: "Coordonnées du fournisseur",
				Criticity:   model.CriticityMinor,
				Synonyms:    []string{"Adresse fournisseur", "Fabricant", "Contact"},
				Required:    true,
			},
			{
				Name:        "Certifications",
				Description: "Certifications qualité",
				Criticity:   model.CriticityMinor,
				Synonyms:    []string{"VRF", "VVF", "BIO", "VPF", "Label"},
				Required:    false,
			},
			{
				Name:        "Critères microbiologiques",
				Description: "Normes microbiologiques",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Microbiologie", "Germes", "Bactéries"},
				Required:    true,
			},
			// Contamination checks read the other way around: no mention in
			// the datasheet is the conforming outcome.
			{
				Name:            "Corps étrangers",
				Description:     "Signalement de corps étrangers (métal, verre, aiguilles)",
				Criticity:       model.CriticityCritical,
				Synonyms:        []string{"Corps étranger", "Fragment métallique", "Aiguille", "Contamination physique"},
				Required:        false,
				AbsenceConforme: true,
			},
		},
	}
}

func electroniqueTemplate() *model.DocumentTemplate {
	return &model.DocumentTemplate{
		Name:        "Fiche Technique Électronique",
		Description: "Analyse de fiches techniques composants électroniques",
		Category:    "electronique",
		Points: []model.ControlPoint{
			{
				Name:        "Référence produit",
				Description: "Numéro de référence",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Part Number", "Référence", "PN", "SKU"},
				Required:    true,
			},
			{
				Name:        "Spécifications électriques",
				Description: "Caractéristiques électriques",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Electrical Characteristics", "Specs", "Tension", "Courant"},
				Required:    true,
			},
			{
				Name:        "Dimensions",
				Description: "Dimensions physiques",
				Criticity:   model.CriticityMajor,
				Synonyms:    []string{"Package", "Footprint", "Dimensions", "Taille"},
				Required:    true,
			},
			{
				Name:        "Plage de température",
				Description: "Température de fonctionnement",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Operating Temperature", "Température", "Range"},
				Required:    true,
			},
			{
				Name:        "Conformité RoHS",
				Description: "Conformité environnementale",
				Criticity:   model.CriticityMajor,
				Synonyms:    []string{"RoHS", "REACH", "Conformité", "Environmental"},
				Required:    true,
			},
			{
				Name:        "Datasheet version",
				Description: "Version du document",
				Criticity:   model.CriticityMinor,
				Synonyms:    []string{"Revision", "Version", "Date"},
				Required:    false,
			},
		},
	}
}

func chimieTemplate() *model.DocumentTemplate {
	return &model.DocumentTemplate{
		Name:        "Fiche de Sécurité Chimique",
		Description: "Analyse de fiches de données de sécurité (FDS)",
		Category:    "chimie",
		Points: []model.ControlPoint{
			{
				Name:        "Identification",
				Description: "Identification de la substance",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Product Identifier", "Identification", "Nom chimique", "CAS"},
				Required:    true,
			},
			{
				Name:        "Danger",
				Description: "Identification des dangers",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Hazards", "Pictogrammes", "H-phrases", "Danger"},
				Required:    true,
			},
			{
				Name:        "Composition",
				Description: "Composition chimique",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Composition", "Substances", "Mélange", "Ingrédients"},
				Required:    true,
			},
			{
				Name:        "Premiers secours",
				Description: "Mesures premiers secours",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"First Aid", "Secours", "Intervention"},
				Required:    true,
			},
			{
				Name:        "Manipulation",
				Description: "Précautions de manipulation",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"Handling", "Storage", "Manipulation", "Stockage"},
				Required:    true,
			},
			{
				Name:        "Protection",
				Description: "Équipements de protection",
				Criticity:   model.CriticityCritical,
				Synonyms:    []string{"PPE", "Protection", "EPC", "Gants", "Lunettes"},
				Required:    true,
			},
		},
	}
}
