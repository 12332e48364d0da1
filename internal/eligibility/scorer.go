// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eligibility scores a patient profile against one trial's
// structured eligibility criteria. The pass is a pure fold over an ordered
// list of comparator contributions: deterministic, state-machine-free, and
// safe to run concurrently.
package eligibility

import (
	"math"
	"sort"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/criteria"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// Score evaluates a patient against structured eligibility and returns the
// bounded score, tier, reasons, and explanation.
//
// Comparators run in a fixed order: age, ECOG, disease stage, histology,
// required-positive biomarkers (sorted by name), required-negative
// biomarkers, expression threshold, brain metastases, prior treatments.
// The raw accumulator is recentered by cfg.ScoreShift and clamped to [0,1],
// so a pass with no evidence in either direction lands in the uncertain
// band instead of at zero.
func Score(patient *types.PatientProfile, elig *types.StructuredEligibility, cfg types.ScoringConfig) types.EligibilityResult {
	contributions := evaluate(patient, elig, cfg)

	var accumulator float64
	var matching, excluding []string
	for _, c := range contributions {
		accumulator += c.Delta
		if c.Reason != "" {
			matching = append(matching, c.Reason)
		}
		if c.Excluding != "" {
			excluding = append(excluding, c.Excluding)
		}
	}

	score := clamp(accumulator+cfg.ScoreShift, 0, 1)
	score = Round3(score)

	return types.EligibilityResult{
		Status:            tierFor(score, excluding, cfg),
		Score:             score,
		Confidence:        Round3(confidence(score)),
		MatchingCriteria:  matching,
		ExcludingCriteria: excluding,
		Explanation:       explanation(matching, excluding, cfg.TopReasons),
	}
}

// evaluate runs every comparator in evaluation order and collects the
// non-zero contributions.
func evaluate(patient *types.PatientProfile, elig *types.StructuredEligibility, cfg types.ScoringConfig) []criteria.Contribution {
	if elig == nil {
		return nil
	}
	d := cfg.Deltas
	var out []criteria.Contribution

	add := func(c criteria.Contribution) {
		if !c.IsZero() {
			out = append(out, c)
		}
	}

	add(criteria.Age(patient.Age, elig.Age, d))
	add(criteria.ECOG(patient.ECOGStatus, elig.ECOG, d))
	add(criteria.AllowDeny("stage", patient.Stage, elig.DiseaseStage, d))
	add(criteria.AllowDeny("histology", patient.Histology, elig.Histology, d))

	if bio := elig.Biomarkers; bio != nil {
		// Sorted key order keeps repeated runs byte-identical.
		names := make([]string, 0, len(bio.RequiredPositive))
		for name := range bio.RequiredPositive {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			values, _ := criteria.LookupBiomarker(patient.Biomarkers, name)
			add(criteria.RequiredPositive(name, bio.RequiredPositive[name], values, d))
		}

		for _, name := range bio.RequiredNegative {
			values, _ := criteria.LookupBiomarker(patient.Biomarkers, name)
			add(criteria.RequiredNegative(name, values, d))
		}

		if bio.Expression != nil {
			name := bio.Expression.Level
			if name == "" {
				name = "PD-L1"
			}
			values, _ := criteria.LookupBiomarker(patient.Biomarkers, name)
			add(criteria.Expression(name, values, bio.Expression, d))
		}
	}

	add(criteria.BrainMetastases(patient.BrainMetastases, elig.BrainMetastases, d))

	for _, c := range criteria.PriorTreatments(patient.PriorTreatments, elig.PriorTreatments, d) {
		add(c)
	}

	return out
}

// tierFor maps a bounded score to its tier. A score of exactly zero with no
// excluding reasons is uncertainty, not a rejection: the evidence was
// one-sidedly weak, never disqualifying.
func tierFor(score float64, excluding []string, cfg types.ScoringConfig) types.Tier {
	switch {
	case score >= cfg.EligibleThreshold:
		return types.TierEligible
	case score >= cfg.UncertainThreshold:
		return types.TierUncertain
	case score == 0 && len(excluding) == 0:
		return types.TierUncertain
	default:
		return types.TierIneligible
	}
}

// confidence grows with distance from the neutral point 0.5, reaching 1 at
// either clamp edge. It is a relevance signal, not a probability.
func confidence(score float64) float64 {
	c := 2 * math.Abs(score-0.5)
	if c > 1 {
		return 1
	}
	return c
}

// explanation joins the top reasons from each bucket into one line,
// excluding reasons first so a disqualification is never buried.
func explanation(matching, excluding []string, topN int) string {
	if topN <= 0 {
		topN = 3
	}
	var parts []string
	for i, r := range excluding {
		if i >= topN {
			break
		}
		parts = append(parts, r)
	}
	for i, r := range matching {
		if i >= topN {
			break
		}
		parts = append(parts, r)
	}
	if len(parts) == 0 {
		return "insufficient data to evaluate eligibility"
	}
	return strings.Join(parts, "; ")
}

// Round3 rounds to 3 decimal places, the output contract for all scores.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
