// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func intPtr(v int) *int { return &v }

func TestNormalizeNilReceiver(t *testing.T) {
	var e *StructuredEligibility
	e.Normalize() // must not panic
}

func TestNormalizeClampsConfidence(t *testing.T) {
	e := &StructuredEligibility{ExtractionConfidence: 1.5}
	e.Normalize()
	if e.ExtractionConfidence != 1 {
		t.Errorf("ExtractionConfidence = %v, want 1", e.ExtractionConfidence)
	}

	e = &StructuredEligibility{ExtractionConfidence: -0.2}
	e.Normalize()
	if e.ExtractionConfidence != 0 {
		t.Errorf("ExtractionConfidence = %v, want 0", e.ExtractionConfidence)
	}
}

func TestNormalizeClampsECOG(t *testing.T) {
	e := &StructuredEligibility{
		ECOG: &BoundsRequirement{Min: intPtr(-1), Max: intPtr(7)},
	}
	e.Normalize()
	if *e.ECOG.Min != 0 || *e.ECOG.Max != 4 {
		t.Errorf("ECOG bounds = %d/%d, want 0/4", *e.ECOG.Min, *e.ECOG.Max)
	}
}

func TestNormalizeDropsDegenerateSubObjects(t *testing.T) {
	e := &StructuredEligibility{
		Age:          &BoundsRequirement{},
		ECOG:         &BoundsRequirement{},
		DiseaseStage: &ListRequirement{},
		Histology:    &ListRequirement{},
		Biomarkers:   &BiomarkerRequirements{},
	}
	e.Normalize()
	if e.Age != nil || e.ECOG != nil || e.DiseaseStage != nil || e.Histology != nil || e.Biomarkers != nil {
		t.Errorf("degenerate sub-objects should drop to nil, got %+v", e)
	}
}

func TestNormalizeKeepsConstrainedSubObjects(t *testing.T) {
	e := &StructuredEligibility{
		Age:        &BoundsRequirement{Min: intPtr(18)},
		Biomarkers: &BiomarkerRequirements{RequiredNegative: []string{"KRAS"}},
	}
	e.Normalize()
	if e.Age == nil || e.Biomarkers == nil {
		t.Errorf("constrained sub-objects must survive, got %+v", e)
	}
}

func TestPatientProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile PatientProfile
		wantErr bool
	}{
		{"valid minimal", PatientProfile{CancerType: "NSCLC"}, false},
		{"missing cancer type", PatientProfile{Age: 55}, true},
		{"ECOG out of scale", PatientProfile{CancerType: "NSCLC", ECOGStatus: intPtr(5)}, true},
		{"negative age", PatientProfile{CancerType: "NSCLC", Age: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResearcherTrialProfileValidate(t *testing.T) {
	empty := ResearcherTrialProfile{NCTID: "NCT01234567", Title: "No targeting"}
	if err := empty.Validate(); err == nil {
		t.Error("profile without targeting fields should fail validation")
	}

	phaseOnly := ResearcherTrialProfile{Phase: "Phase 2"}
	if err := phaseOnly.Validate(); err != nil {
		t.Errorf("phase-only profile should validate: %v", err)
	}

	badECOG := ResearcherTrialProfile{Phase: "Phase 2", ECOGMax: intPtr(9)}
	if err := badECOG.Validate(); err == nil {
		t.Error("out-of-scale ECOG max should fail validation")
	}
}

func TestTrialStates(t *testing.T) {
	trial := ClinicalTrial{
		Locations: []Location{
			{State: "Massachusetts"},
			{State: ""},
			{State: "Texas"},
			{State: "Massachusetts"},
		},
	}
	states := trial.States()
	if len(states) != 2 || states[0] != "Massachusetts" || states[1] != "Texas" {
		t.Errorf("States() = %v", states)
	}
}

func TestTierRank(t *testing.T) {
	if TierEligible.Rank() >= TierUncertain.Rank() || TierUncertain.Rank() >= TierIneligible.Rank() {
		t.Error("tier ranks must order eligible < uncertain < ineligible")
	}
	if Tier("bogus").Rank() != TierUncertain.Rank() {
		t.Error("unknown tiers should rank with uncertain")
	}
}
