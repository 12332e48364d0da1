// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func testPatient() *types.PatientProfile {
	return &types.PatientProfile{
		CancerType:      "NSCLC",
		Stage:           "IV",
		Age:             55,
		ECOGStatus:      intPtr(1),
		Biomarkers:      map[string][]string{"EGFR": {"L858R"}},
		BrainMetastases: boolPtr(true),
		Location:        "Boston",
	}
}

func testCandidates() []types.ClinicalTrial {
	return []types.ClinicalTrial{
		{
			NCTID: "NCT00000004",
			Title: "Unstructured trial",
		},
		{
			NCTID: "NCT00000002",
			Title: "No brain metastases trial",
			StructuredEligibility: &types.StructuredEligibility{
				BrainMetastases: &types.BrainMetastasesRequirement{Allowed: false},
			},
		},
		{
			NCTID:                 "NCT00000003",
			Title:                 "Silent trial",
			StructuredEligibility: &types.StructuredEligibility{},
		},
		{
			NCTID:                 "NCT00000001",
			Title:                 "EGFR targeted trial",
			BiomarkerRequirements: map[string][]string{"EGFR": {"L858R"}},
			StructuredEligibility: &types.StructuredEligibility{
				Age:  &types.BoundsRequirement{Min: intPtr(18)},
				ECOG: &types.BoundsRequirement{Max: intPtr(2)},
				Biomarkers: &types.BiomarkerRequirements{
					RequiredPositive: map[string][]string{"EGFR": {"L858R"}},
				},
			},
			Locations: []types.Location{
				{Facility: "MGH", City: "Boston", State: "Massachusetts", Country: "United States"},
				{Facility: "Northwestern", City: "Chicago", State: "Illinois", Country: "United States"},
			},
		},
	}
}

func TestTrialsRankedByTierThenScore(t *testing.T) {
	out, err := Trials(testPatient(), testCandidates(), types.DefaultScoringConfig())
	if err != nil {
		t.Fatal(err)
	}

	if out.SkippedUnstructured != 1 {
		t.Errorf("SkippedUnstructured = %d, want 1", out.SkippedUnstructured)
	}
	if out.Evaluated != 3 {
		t.Errorf("Evaluated = %d, want 3", out.Evaluated)
	}
	if len(out.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(out.Matches))
	}

	wantOrder := []string{"NCT00000001", "NCT00000003", "NCT00000002"}
	wantTiers := []types.Tier{types.TierEligible, types.TierUncertain, types.TierIneligible}
	for i, m := range out.Matches {
		if m.NCTID != wantOrder[i] {
			t.Errorf("Matches[%d] = %s, want %s", i, m.NCTID, wantOrder[i])
		}
		if m.Eligibility.Status != wantTiers[i] {
			t.Errorf("Matches[%d].Status = %v, want %v", i, m.Eligibility.Status, wantTiers[i])
		}
	}
}

func TestTrialsFiltersLocations(t *testing.T) {
	out, err := Trials(testPatient(), testCandidates(), types.DefaultScoringConfig())
	if err != nil {
		t.Fatal(err)
	}

	top := out.Matches[0]
	if top.NCTID != "NCT00000001" {
		t.Fatalf("top match = %s, want NCT00000001", top.NCTID)
	}
	if len(top.Locations) != 1 || top.Locations[0].City != "Boston" {
		t.Errorf("Locations = %v, want only the Boston site", top.Locations)
	}
}

func TestTrialsEvaluationCap(t *testing.T) {
	cfg := types.DefaultScoringConfig()
	cfg.MaxTrialEvaluations = 1

	out, err := Trials(testPatient(), testCandidates(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	// The pre-filter ranks the trial with a matching biomarker requirement
	// key first; the cap admits only that one.
	if out.Evaluated != 1 {
		t.Errorf("Evaluated = %d, want 1", out.Evaluated)
	}
	if len(out.Matches) != 1 || out.Matches[0].NCTID != "NCT00000001" {
		t.Errorf("Matches = %v, want only NCT00000001", out.Matches)
	}
}

func TestTrialsValidatesProfile(t *testing.T) {
	if _, err := Trials(&types.PatientProfile{}, nil, types.DefaultScoringConfig()); err == nil {
		t.Error("expected an error for a profile without cancer type")
	}
}

func TestTrialsRejectsOversizedBatch(t *testing.T) {
	cfg := types.DefaultScoringConfig()
	cfg.MaxCandidates = 2

	if _, err := Trials(testPatient(), testCandidates(), cfg); err == nil {
		t.Error("expected an error for a batch above the candidate limit")
	}
}

func TestTrialsEmptyCandidates(t *testing.T) {
	out, err := Trials(testPatient(), nil, types.DefaultScoringConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Matches) != 0 || out.Evaluated != 0 || out.SkippedUnstructured != 0 {
		t.Errorf("got %+v, want an empty output", out)
	}
}

func TestRankTrialsStableOnTies(t *testing.T) {
	matches := []types.TrialMatch{
		{NCTID: "NCT-B", Eligibility: types.EligibilityResult{Status: types.TierUncertain, Score: 0.5}},
		{NCTID: "NCT-C", Eligibility: types.EligibilityResult{Status: types.TierUncertain, Score: 0.5}},
		{NCTID: "NCT-A", Eligibility: types.EligibilityResult{Status: types.TierEligible, Score: 0.8}},
		{NCTID: "NCT-D", Eligibility: types.EligibilityResult{Status: types.TierEligible, Score: 0.9}},
	}

	RankTrials(matches)

	want := []string{"NCT-D", "NCT-A", "NCT-B", "NCT-C"}
	for i, m := range matches {
		if m.NCTID != want[i] {
			t.Errorf("matches[%d] = %s, want %s", i, m.NCTID, want[i])
		}
	}
}
