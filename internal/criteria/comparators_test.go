// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"strings"
	"testing"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

var deltas = types.DefaultScoringConfig().Deltas

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestAge(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		req       *types.BoundsRequirement
		delta     float64
		excluding bool
	}{
		{"within range", 55, &types.BoundsRequirement{Min: intPtr(18), Max: intPtr(75)}, deltas.RangeMatch, false},
		{"below minimum", 16, &types.BoundsRequirement{Min: intPtr(18)}, deltas.RangeViolation, true},
		{"above maximum", 80, &types.BoundsRequirement{Min: intPtr(18), Max: intPtr(75)}, deltas.RangeViolation, true},
		{"open max bound", 90, &types.BoundsRequirement{Min: intPtr(18)}, deltas.RangeMatch, false},
		{"at inclusive bound", 18, &types.BoundsRequirement{Min: intPtr(18), Max: intPtr(18)}, deltas.RangeMatch, false},
		{"unknown age", 0, &types.BoundsRequirement{Min: intPtr(18)}, 0, false},
		{"nil requirement", 55, nil, 0, false},
		{"empty requirement", 55, &types.BoundsRequirement{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Age(tt.age, tt.req, deltas)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
			if tt.excluding && c.Excluding == "" {
				t.Error("expected an excluding reason")
			}
			if !tt.excluding && c.Excluding != "" {
				t.Errorf("unexpected excluding reason %q", c.Excluding)
			}
		})
	}
}

func TestECOG(t *testing.T) {
	req := &types.BoundsRequirement{Max: intPtr(1)}

	if c := ECOG(intPtr(1), req, deltas); c.Delta != deltas.RangeMatch {
		t.Errorf("ECOG 1 vs max 1: Delta = %v, want %v", c.Delta, deltas.RangeMatch)
	}
	if c := ECOG(intPtr(2), req, deltas); c.Delta != deltas.RangeViolation || c.Excluding == "" {
		t.Errorf("ECOG 2 vs max 1 should violate, got %+v", c)
	}
	if c := ECOG(nil, req, deltas); !c.IsZero() {
		t.Errorf("unknown ECOG should contribute nothing, got %+v", c)
	}
	if c := ECOG(intPtr(0), nil, deltas); !c.IsZero() {
		t.Errorf("nil requirement should contribute nothing, got %+v", c)
	}
}

func TestExpression(t *testing.T) {
	req := &types.ExpressionRequirement{Min: floatPtr(50)}

	tests := []struct {
		name   string
		values []string
		delta  float64
	}{
		{"TPS label with percent", []string{"TPS 50%"}, deltas.ExpressionMet},
		{"bare number", []string{"80"}, deltas.ExpressionMet},
		{"below threshold", []string{"TPS 10%"}, deltas.ExpressionBelow},
		{"comparison prefix", []string{">=60%"}, deltas.ExpressionMet},
		{"unparseable", []string{"high"}, 0},
		{"empty values", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Expression("PD-L1", tt.values, req, deltas)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
		})
	}

	if c := Expression("PD-L1", []string{"50"}, nil, deltas); !c.IsZero() {
		t.Errorf("nil requirement should contribute nothing, got %+v", c)
	}
}

func TestAllowDeny(t *testing.T) {
	req := &types.ListRequirement{
		Allowed:  []string{"IIIB", "IV"},
		Excluded: []string{"I"},
	}

	tests := []struct {
		name  string
		value string
		delta float64
	}{
		{"allowed", "IV", deltas.ListAllowed},
		{"allowed case-insensitive", "iv", deltas.ListAllowed},
		{"excluded", "I", deltas.ListExcluded},
		{"not in exhaustive allow list", "II", deltas.ListNotInAllow},
		{"empty value", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := AllowDeny("stage", tt.value, req, deltas)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
		})
	}

	// Exclusion dominates a value on both lists.
	both := &types.ListRequirement{Allowed: []string{"IV"}, Excluded: []string{"IV"}}
	if c := AllowDeny("stage", "IV", both, deltas); c.Delta != deltas.ListExcluded {
		t.Errorf("excluded value also on allow list: Delta = %v, want %v", c.Delta, deltas.ListExcluded)
	}

	// A deny-only list leaves unlisted values silent.
	denyOnly := &types.ListRequirement{Excluded: []string{"I"}}
	if c := AllowDeny("stage", "IV", denyOnly, deltas); !c.IsZero() {
		t.Errorf("deny-only list with unlisted value should contribute nothing, got %+v", c)
	}
}

func TestRequiredPositive(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		patient  []string
		delta    float64
	}{
		{"generic positivity both sides", []string{"positive"}, []string{"positive"}, deltas.PositiveMatch},
		{"mutation intersection", []string{"L858R", "exon 19 deletion"}, []string{"L858R"}, deltas.MutationMatch},
		{"positive but unconfirmed mutation", []string{"L858R"}, []string{"positive"}, deltas.PositiveUnconfirmed},
		{"negative violates requirement", []string{"L858R"}, []string{"negative"}, deltas.PositiveRequired},
		{"wild-type violates requirement", []string{"positive"}, []string{"wild-type"}, deltas.PositiveRequired},
		{"fusion token counts as positivity", []string{"rearrangement"}, []string{"fusion"}, deltas.PositiveMatch},
		{"no patient data", []string{"L858R"}, nil, 0},
		{"unrelated tokens", []string{"L858R"}, []string{"pending"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RequiredPositive("EGFR", tt.required, tt.patient, deltas)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
		})
	}
}

func TestRequiredPositiveMutationOutranksGeneric(t *testing.T) {
	generic := RequiredPositive("EGFR", []string{"positive"}, []string{"positive"}, deltas)
	specific := RequiredPositive("EGFR", []string{"L858R"}, []string{"L858R"}, deltas)
	if specific.Delta <= generic.Delta {
		t.Errorf("mutation match (%v) should outrank generic positivity (%v)", specific.Delta, generic.Delta)
	}
}

func TestRequiredPositiveReasonNamesMutations(t *testing.T) {
	c := RequiredPositive("EGFR", []string{"L858R", "T790M"}, []string{"T790M", "L858R"}, deltas)
	if !strings.Contains(c.Reason, "l858r, t790m") {
		t.Errorf("reason should name sorted mutations, got %q", c.Reason)
	}
}

func TestRequiredNegative(t *testing.T) {
	if c := RequiredNegative("KRAS", []string{"wild-type"}, deltas); c.Delta != deltas.NegativeMatch {
		t.Errorf("wild-type report: Delta = %v, want %v", c.Delta, deltas.NegativeMatch)
	}
	if c := RequiredNegative("KRAS", []string{"G12C", "positive"}, deltas); c.Delta != deltas.NegativeViolation {
		t.Errorf("positive report: Delta = %v, want %v", c.Delta, deltas.NegativeViolation)
	}
	if c := RequiredNegative("KRAS", nil, deltas); !c.IsZero() {
		t.Errorf("no data should contribute nothing, got %+v", c)
	}
}

func TestTreatmentBiomarker(t *testing.T) {
	td := types.DefaultScoringConfig().TreatmentDeltas

	tests := []struct {
		name     string
		required []string
		patient  []string
		delta    float64
	}{
		{"positive match", []string{"positive"}, []string{"detected"}, td.PositiveMatch},
		{"mutation match", []string{"L858R"}, []string{"L858R"}, td.MutationMatch},
		{"unconfirmed positive", []string{"L858R"}, []string{"positive"}, td.PositiveUnconfirmed},
		{"wild-type agreement", []string{"wild-type"}, []string{"wild-type"}, td.WildTypeMatch},
		{"no data", []string{"positive"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := TreatmentBiomarker("EGFR", tt.required, tt.patient, td)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
		})
	}
}

func TestBrainMetastases(t *testing.T) {
	tests := []struct {
		name      string
		patient   *bool
		req       *types.BrainMetastasesRequirement
		delta     float64
		excluding bool
	}{
		{"present and disallowed", boolPtr(true), &types.BrainMetastasesRequirement{Allowed: false}, deltas.FlagViolation, true},
		{"present and allowed", boolPtr(true), &types.BrainMetastasesRequirement{Allowed: true}, deltas.FlagAgreement, false},
		{"absent", boolPtr(false), &types.BrainMetastasesRequirement{Allowed: false}, deltas.FlagAgreement, false},
		{"unknown", nil, &types.BrainMetastasesRequirement{Allowed: false}, 0, false},
		{"nil requirement", boolPtr(true), nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BrainMetastases(tt.patient, tt.req, deltas)
			if c.Delta != tt.delta {
				t.Errorf("Delta = %v, want %v", c.Delta, tt.delta)
			}
			if tt.excluding != (c.Excluding != "") {
				t.Errorf("excluding = %q, want excluding=%v", c.Excluding, tt.excluding)
			}
		})
	}
}

func TestPriorTreatments(t *testing.T) {
	history := []string{"Carboplatin", "EGFR TKI therapy with osimertinib"}

	t.Run("required present via substring", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{Required: []string{"osimertinib"}}
		out := PriorTreatments(history, req, deltas)
		if len(out) != 1 || out[0].Delta != deltas.TreatmentRequired {
			t.Fatalf("got %+v, want one required-treatment match", out)
		}
	})

	t.Run("required missing", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{Required: []string{"pembrolizumab"}}
		out := PriorTreatments(history, req, deltas)
		if len(out) != 1 || out[0].Excluding == "" {
			t.Fatalf("got %+v, want one excluding contribution", out)
		}
	})

	t.Run("excluded present", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{Excluded: []string{"carboplatin"}}
		out := PriorTreatments(history, req, deltas)
		if len(out) != 1 || out[0].Delta != deltas.TreatmentExcluded {
			t.Fatalf("got %+v, want one excluded-treatment violation", out)
		}
	})

	t.Run("treatment naive violated", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{TreatmentNaiveRequired: true}
		out := PriorTreatments(history, req, deltas)
		if len(out) != 1 || out[0].Delta != deltas.FlagViolation {
			t.Fatalf("got %+v, want one naivety violation", out)
		}
	})

	t.Run("treatment naive satisfied by empty history", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{TreatmentNaiveRequired: true}
		out := PriorTreatments(nil, req, deltas)
		if len(out) != 1 || out[0].Delta != deltas.FlagAgreement {
			t.Fatalf("got %+v, want one naivety agreement", out)
		}
	})

	t.Run("line count bounds", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{MaxLines: intPtr(1)}
		out := PriorTreatments(history, req, deltas)
		if len(out) != 1 || out[0].Delta != deltas.LineCountViolation {
			t.Fatalf("got %+v, want one line-count violation", out)
		}
	})

	t.Run("empty history skips required and line rules", func(t *testing.T) {
		req := &types.PriorTreatmentRequirements{
			Required: []string{"osimertinib"},
			MinLines: intPtr(1),
		}
		if out := PriorTreatments(nil, req, deltas); len(out) != 0 {
			t.Fatalf("got %+v, want no contributions for unreported history", out)
		}
	})

	t.Run("nil requirement", func(t *testing.T) {
		if out := PriorTreatments(history, nil, deltas); out != nil {
			t.Fatalf("got %+v, want nil", out)
		}
	})
}
