// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Location is a single trial site.
type Location struct {
	Facility string   `json:"facility,omitempty" yaml:"facility,omitempty"`
	City     string   `json:"city,omitempty" yaml:"city,omitempty"`
	State    string   `json:"state,omitempty" yaml:"state,omitempty"`
	Country  string   `json:"country,omitempty" yaml:"country,omitempty"`
	Lat      *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty" yaml:"lng,omitempty"`
}

// Intervention is a treatment arm entry on a trial record.
type Intervention struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ContactInfo is the central contact on a trial record.
type ContactInfo struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// ClinicalTrial is a catalog trial record. The engine consumes these
// read-only; ownership belongs to the catalog.
type ClinicalTrial struct {
	// NCTID is the ClinicalTrials.gov registry identifier ("NCT0xxxxxxx").
	NCTID string `json:"nct_id" yaml:"nct_id"`

	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	BriefSummary string `json:"brief_summary,omitempty" yaml:"brief_summary,omitempty"`

	// Phase is the joined phase string ("Phase 2", "Phase 1/Phase 2").
	Phase string `json:"phase,omitempty" yaml:"phase,omitempty"`

	// Status is the registry overall status (RECRUITING, ...). Matched
	// case-insensitively throughout.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	Sponsor       string         `json:"sponsor,omitempty" yaml:"sponsor,omitempty"`
	Interventions []Intervention `json:"interventions,omitempty" yaml:"interventions,omitempty"`
	Conditions    []string       `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// EligibilityCriteria is the raw registry eligibility text. The engine
	// never parses it; it only feeds the relevance pre-filter as keywords.
	EligibilityCriteria string `json:"eligibility_criteria,omitempty" yaml:"eligibility_criteria,omitempty"`

	// BiomarkerRequirements maps biomarker name to required values, when
	// known independently of the structured extraction.
	BiomarkerRequirements map[string][]string `json:"biomarker_requirements,omitempty" yaml:"biomarker_requirements,omitempty"`

	PrimaryCompletionDate *time.Time   `json:"primary_completion_date,omitempty" yaml:"primary_completion_date,omitempty"`
	Locations             []Location   `json:"locations,omitempty" yaml:"locations,omitempty"`
	Contact               *ContactInfo `json:"contact_info,omitempty" yaml:"contact_info,omitempty"`
	StudyURL              string       `json:"study_url,omitempty" yaml:"study_url,omitempty"`

	// StructuredEligibility is attached by the extraction collaborator.
	// Trials without it cannot take the structured scoring path.
	StructuredEligibility *StructuredEligibility `json:"structured_eligibility,omitempty" yaml:"structured_eligibility,omitempty"`

	// ExtractionVersion records which extractor produced the structured
	// eligibility, for audit.
	ExtractionVersion string `json:"eligibility_extraction_version,omitempty" yaml:"eligibility_extraction_version,omitempty"`
}

// States returns the distinct site states in first-seen order.
func (t *ClinicalTrial) States() []string {
	seen := make(map[string]bool)
	var states []string
	for _, loc := range t.Locations {
		if loc.State == "" || seen[loc.State] {
			continue
		}
		seen[loc.State] = true
		states = append(states, loc.State)
	}
	return states
}

// Treatment is a catalog record for an approved therapy.
type Treatment struct {
	GenericName       string   `json:"generic_name" yaml:"generic_name"`
	BrandNames        []string `json:"brand_names,omitempty" yaml:"brand_names,omitempty"`
	DrugClass         string   `json:"drug_class,omitempty" yaml:"drug_class,omitempty"`
	MechanismOfAction string   `json:"mechanism_of_action,omitempty" yaml:"mechanism_of_action,omitempty"`
	ApprovalStatus    string   `json:"fda_approval_status,omitempty" yaml:"fda_approval_status,omitempty"`

	// ApprovedIndications lists labeled indications.
	ApprovedIndications []string `json:"approved_indications,omitempty" yaml:"approved_indications,omitempty"`

	// BiomarkerRequirements maps biomarker name to the values that make
	// the treatment applicable ({"EGFR": ["L858R", "exon 19 deletion"]}).
	BiomarkerRequirements map[string][]string `json:"biomarker_requirements,omitempty" yaml:"biomarker_requirements,omitempty"`

	CommonSideEffects []string `json:"common_side_effects,omitempty" yaml:"common_side_effects,omitempty"`
	Manufacturer      string   `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
}
