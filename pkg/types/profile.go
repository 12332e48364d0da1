// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the matching engine:
// query profiles, catalog entities, structured eligibility criteria,
// scoring results, and configuration.
package types

import "fmt"

// PatientProfile describes a patient seeking treatment and trial matches.
// It arrives already structured; the engine never sees the free-text
// description it was parsed from.
type PatientProfile struct {
	// CancerType is the diagnosis discriminator (e.g. "NSCLC"). Required.
	CancerType string `json:"cancer_type" yaml:"cancer_type"`

	// Histology is the tumor histology (adenocarcinoma, squamous, ...).
	Histology string `json:"histology,omitempty" yaml:"histology,omitempty"`

	// Stage is the disease stage (I, II, IIIA, IIIB, IV, metastatic).
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Biomarkers maps biomarker name to detected values or mutations,
	// e.g. {"EGFR": ["L858R"], "PD-L1": ["TPS 50%"]}. Keys are matched
	// case-insensitively; values are free-form strings.
	Biomarkers map[string][]string `json:"biomarkers,omitempty" yaml:"biomarkers,omitempty"`

	// Age in years. Zero means unknown.
	Age int `json:"age,omitempty" yaml:"age,omitempty"`

	// ECOGStatus is the performance status on the 0-4 ECOG scale.
	// Nil means unknown.
	ECOGStatus *int `json:"ecog_status,omitempty" yaml:"ecog_status,omitempty"`

	// PriorTreatments lists treatment names the patient has received.
	PriorTreatments []string `json:"prior_treatments,omitempty" yaml:"prior_treatments,omitempty"`

	// BrainMetastases reports brain involvement. Nil means unknown.
	BrainMetastases *bool `json:"brain_metastases,omitempty" yaml:"brain_metastases,omitempty"`

	// Location is a free-text city, state, or region used to filter
	// trial sites.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Validate reports a caller-contract violation if the profile lacks its
// discriminator. Messy or missing clinical data is never an error here;
// only a profile that cannot be matched at all is rejected.
func (p *PatientProfile) Validate() error {
	if p.CancerType == "" {
		return fmt.Errorf("patient profile missing cancer type")
	}
	if p.ECOGStatus != nil && (*p.ECOGStatus < 0 || *p.ECOGStatus > 4) {
		return fmt.Errorf("ECOG status %d outside 0-4 scale", *p.ECOGStatus)
	}
	if p.Age < 0 {
		return fmt.Errorf("age %d is negative", p.Age)
	}
	return nil
}

// AgeRange is an inclusive [Min, Max] age interval.
type AgeRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// ResearcherTrialProfile describes a researcher's planned or running trial
// for competitive analysis.
type ResearcherTrialProfile struct {
	// NCTID identifies the researcher's own trial, if registered. Used to
	// exclude it from its own competitor set.
	NCTID string `json:"nct_id,omitempty" yaml:"nct_id,omitempty"`

	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Phase is a named phase ("Phase 1", "Phase 2/Phase 3", ...).
	Phase string `json:"phase,omitempty" yaml:"phase,omitempty"`

	// TargetBiomarkers maps biomarker name to required mutations,
	// e.g. {"EGFR": ["L858R"]}.
	TargetBiomarkers map[string][]string `json:"target_biomarkers,omitempty" yaml:"target_biomarkers,omitempty"`

	// TargetStages lists disease stages the trial enrolls (["III", "IV"]).
	TargetStages []string `json:"target_stages,omitempty" yaml:"target_stages,omitempty"`

	// TargetHistology lists enrolled histologies.
	TargetHistology []string `json:"target_histology,omitempty" yaml:"target_histology,omitempty"`

	// TargetLocations lists region identifiers (US states).
	TargetLocations []string `json:"target_locations,omitempty" yaml:"target_locations,omitempty"`

	// AgeRange bounds enrollment age. Nil means unconstrained.
	AgeRange *AgeRange `json:"age_range,omitempty" yaml:"age_range,omitempty"`

	// ECOGMax is the maximum ECOG performance score enrolled. Nil means
	// unconstrained.
	ECOGMax *int `json:"ecog_max,omitempty" yaml:"ecog_max,omitempty"`

	// TreatmentNaiveOnly restricts enrollment to treatment-naive patients.
	// Nil means unspecified.
	TreatmentNaiveOnly *bool `json:"treatment_naive_only,omitempty" yaml:"treatment_naive_only,omitempty"`

	// PriorTreatmentsExcluded lists treatments that disqualify enrollment.
	PriorTreatmentsExcluded []string `json:"prior_treatments_excluded,omitempty" yaml:"prior_treatments_excluded,omitempty"`
}

// Validate reports a caller-contract violation if the profile carries no
// targeting information at all: with nothing to compare, every similarity
// component would be zero and the analysis meaningless.
func (p *ResearcherTrialProfile) Validate() error {
	if len(p.TargetBiomarkers) == 0 && len(p.TargetStages) == 0 &&
		len(p.TargetHistology) == 0 && len(p.TargetLocations) == 0 && p.Phase == "" {
		return fmt.Errorf("researcher profile has no targeting fields set")
	}
	if p.ECOGMax != nil && (*p.ECOGMax < 0 || *p.ECOGMax > 4) {
		return fmt.Errorf("ECOG max %d outside 0-4 scale", *p.ECOGMax)
	}
	return nil
}
