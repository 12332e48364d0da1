// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StructuredEligibility is the machine-readable form of a trial's
// eligibility criteria, produced by an external extraction collaborator
// and consumed read-only by the scoring engine.
//
// Every sub-object may be absent. Absence always means "unconstrained",
// never "excludes everything"; Normalize is applied once when a candidate
// is loaded so comparators can assume well-shaped input.
type StructuredEligibility struct {
	Age             *BoundsRequirement          `json:"age,omitempty" yaml:"age,omitempty"`
	ECOG            *BoundsRequirement          `json:"ecog,omitempty" yaml:"ecog,omitempty"`
	DiseaseStage    *ListRequirement            `json:"disease_stage,omitempty" yaml:"disease_stage,omitempty"`
	Histology       *ListRequirement            `json:"histology,omitempty" yaml:"histology,omitempty"`
	Biomarkers      *BiomarkerRequirements      `json:"biomarkers,omitempty" yaml:"biomarkers,omitempty"`
	PriorTreatments *PriorTreatmentRequirements `json:"prior_treatments,omitempty" yaml:"prior_treatments,omitempty"`
	BrainMetastases *BrainMetastasesRequirement `json:"brain_metastases,omitempty" yaml:"brain_metastases,omitempty"`
	OrganFunction   *OrganFunctionRequirements  `json:"organ_function,omitempty" yaml:"organ_function,omitempty"`
	PriorMalignancy *PriorMalignancyRequirement `json:"prior_malignancy,omitempty" yaml:"prior_malignancy,omitempty"`
	Washout         *WashoutRequirement         `json:"washout,omitempty" yaml:"washout,omitempty"`

	// CommonExclusions lists free-form exclusion criteria the extractor
	// recognized (pregnancy, active infection, ...). Informational only.
	CommonExclusions []string `json:"common_exclusions,omitempty" yaml:"common_exclusions,omitempty"`

	// ExtractionConfidence in [0,1] reports how clear the source text was.
	ExtractionConfidence float64 `json:"extraction_confidence" yaml:"extraction_confidence"`

	// ExtractionNotes records extraction challenges or uncertainties.
	ExtractionNotes []string `json:"extraction_notes,omitempty" yaml:"extraction_notes,omitempty"`
}

// BoundsRequirement is an inclusive numeric interval with optional bounds.
// Used for age (years) and ECOG performance score (0-4).
type BoundsRequirement struct {
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`
}

// ListRequirement is a categorical allow/deny constraint. A non-empty
// Allowed list is exhaustive: values outside it fail the criterion.
type ListRequirement struct {
	Allowed  []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// ExpressionRequirement bounds an expression-level biomarker such as
// PD-L1 TPS. Level names the measurement scale when the extractor found one.
type ExpressionRequirement struct {
	Min   *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Level string   `json:"level,omitempty" yaml:"level,omitempty"`
}

// BiomarkerRequirements captures biomarker eligibility constraints.
type BiomarkerRequirements struct {
	// RequiredPositive maps biomarker name to the specific mutations that
	// satisfy it; an empty mutation list means any positivity qualifies.
	RequiredPositive map[string][]string `json:"required_positive,omitempty" yaml:"required_positive,omitempty"`

	// RequiredNegative lists biomarkers that must be negative/wild-type.
	RequiredNegative []string `json:"required_negative,omitempty" yaml:"required_negative,omitempty"`

	// Expression bounds an expression-level marker (PD-L1 TPS percent).
	Expression *ExpressionRequirement `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// PriorTreatmentRequirements captures treatment-history constraints.
type PriorTreatmentRequirements struct {
	Required              []string `json:"required,omitempty" yaml:"required,omitempty"`
	Excluded              []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	MaxLines              *int     `json:"max_lines,omitempty" yaml:"max_lines,omitempty"`
	MinLines              *int     `json:"min_lines,omitempty" yaml:"min_lines,omitempty"`
	TreatmentNaiveRequired bool    `json:"treatment_naive_required" yaml:"treatment_naive_required"`
}

// BrainMetastasesRequirement captures brain-metastasis eligibility.
type BrainMetastasesRequirement struct {
	Allowed          bool `json:"allowed" yaml:"allowed"`
	ControlledOnly   bool `json:"controlled_only" yaml:"controlled_only"`
	UntreatedAllowed bool `json:"untreated_allowed" yaml:"untreated_allowed"`
}

// OrganFunctionRequirements captures organ-function and lab-value
// constraints. Carried through for display; the structured path does not
// score lab values the patient profile cannot supply.
type OrganFunctionRequirements struct {
	RenalExclusion   bool     `json:"renal_exclusion" yaml:"renal_exclusion"`
	HepaticExclusion bool     `json:"hepatic_exclusion" yaml:"hepatic_exclusion"`
	CreatinineMax    *float64 `json:"creatinine_max,omitempty" yaml:"creatinine_max,omitempty"`
	BilirubinMax     *float64 `json:"bilirubin_max,omitempty" yaml:"bilirubin_max,omitempty"`
	Notes            string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PriorMalignancyRequirement captures prior-malignancy exclusions.
type PriorMalignancyRequirement struct {
	Excluded      bool     `json:"excluded" yaml:"excluded"`
	YearsLookback *int     `json:"years_lookback,omitempty" yaml:"years_lookback,omitempty"`
	Exceptions    []string `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
}

// WashoutRequirement captures minimum-days-since-treatment windows.
type WashoutRequirement struct {
	MinDaysSinceChemo         *int `json:"min_days_since_chemo,omitempty" yaml:"min_days_since_chemo,omitempty"`
	MinDaysSinceRadiation     *int `json:"min_days_since_radiation,omitempty" yaml:"min_days_since_radiation,omitempty"`
	MinDaysSinceSurgery       *int `json:"min_days_since_surgery,omitempty" yaml:"min_days_since_surgery,omitempty"`
	MinDaysSinceImmunotherapy *int `json:"min_days_since_immunotherapy,omitempty" yaml:"min_days_since_immunotherapy,omitempty"`
	GeneralMinDays            *int `json:"general_min_days,omitempty" yaml:"general_min_days,omitempty"`
}

// Normalize clamps out-of-range values and drops degenerate sub-objects so
// comparators never re-validate. It is called once when a candidate is
// loaded from the catalog or ingested.
func (e *StructuredEligibility) Normalize() {
	if e == nil {
		return
	}
	if e.ExtractionConfidence < 0 {
		e.ExtractionConfidence = 0
	}
	if e.ExtractionConfidence > 1 {
		e.ExtractionConfidence = 1
	}
	if e.Age != nil && e.Age.Min == nil && e.Age.Max == nil {
		e.Age = nil
	}
	if e.ECOG != nil {
		clampECOGBound(e.ECOG.Min)
		clampECOGBound(e.ECOG.Max)
		if e.ECOG.Min == nil && e.ECOG.Max == nil {
			e.ECOG = nil
		}
	}
	if e.DiseaseStage != nil && len(e.DiseaseStage.Allowed) == 0 && len(e.DiseaseStage.Excluded) == 0 {
		e.DiseaseStage = nil
	}
	if e.Histology != nil && len(e.Histology.Allowed) == 0 && len(e.Histology.Excluded) == 0 {
		e.Histology = nil
	}
	if e.Biomarkers != nil {
		if len(e.Biomarkers.RequiredPositive) == 0 && len(e.Biomarkers.RequiredNegative) == 0 && e.Biomarkers.Expression == nil {
			e.Biomarkers = nil
		}
	}
}

func clampECOGBound(b *int) {
	if b == nil {
		return
	}
	if *b < 0 {
		*b = 0
	}
	if *b > 4 {
		*b = 4
	}
}
