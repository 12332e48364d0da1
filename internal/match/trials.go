// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/eligibility"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// TrialOutput holds ranked trial matches plus batch accounting.
type TrialOutput struct {
	Matches []types.TrialMatch

	// Evaluated counts trials that took the structured scoring path.
	Evaluated int

	// SkippedUnstructured counts candidates without structured
	// eligibility; they cannot be scored here and are routed to a
	// fallback collaborator by the caller.
	SkippedUnstructured int
}

// Trials matches a patient against a candidate trial set: a biomarker
// relevance pre-filter picks the top candidates, each is scored against its
// structured eligibility, site lists are filtered to the patient's
// location, and the results are ranked by tier then score.
//
// The candidate set arrives pre-filtered by catalog status; this function
// does not re-check recruiting status. Candidates without structured
// eligibility are skipped, not failed.
func Trials(patient *types.PatientProfile, candidates []types.ClinicalTrial, cfg types.ScoringConfig) (TrialOutput, error) {
	if err := patient.Validate(); err != nil {
		return TrialOutput{}, err
	}
	if cfg.MaxCandidates > 0 && len(candidates) > cfg.MaxCandidates {
		return TrialOutput{}, fmt.Errorf("candidate batch of %d trials exceeds limit %d", len(candidates), cfg.MaxCandidates)
	}

	ranked := prefilter(patient, candidates)
	maxEval := cfg.MaxTrialEvaluations
	if maxEval <= 0 || maxEval > len(ranked) {
		maxEval = len(ranked)
	}

	var out TrialOutput
	for _, candidate := range ranked[:maxEval] {
		trial := candidate.trial
		if trial.StructuredEligibility == nil {
			out.SkippedUnstructured++
			continue
		}
		out.Evaluated++

		result := eligibility.Score(patient, trial.StructuredEligibility, cfg)

		out.Matches = append(out.Matches, types.TrialMatch{
			NCTID:                 trial.NCTID,
			Title:                 trial.Title,
			Phase:                 trial.Phase,
			Status:                trial.Status,
			Sponsor:               trial.Sponsor,
			BriefSummary:          trial.BriefSummary,
			BiomarkerRequirements: trial.BiomarkerRequirements,
			Eligibility:           result,
			StudyURL:              trial.StudyURL,
			Locations:             nearbyLocations(trial.Locations, patient.Location),
		})
	}

	RankTrials(out.Matches)
	return out, nil
}

// scoredCandidate pairs a trial with its pre-filter relevance score.
type scoredCandidate struct {
	trial     *types.ClinicalTrial
	relevance float64
}

// prefilter scores candidates on biomarker-keyword relevance before the
// expensive structured pass: a matching requirement key is the strongest
// signal, a mention in the raw criteria text weaker, a title mention
// weakest. Trials with no stated requirements get a small floor so general
// trials still surface for biomarker-rich patients.
func prefilter(patient *types.PatientProfile, candidates []types.ClinicalTrial) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for i := range candidates {
		trial := &candidates[i]
		relevance := 0.0

		for name := range patient.Biomarkers {
			upper := strings.ToUpper(name)
			for key := range trial.BiomarkerRequirements {
				if strings.ToUpper(key) == upper {
					relevance += 1.0
				}
			}
			if trial.EligibilityCriteria != "" && strings.Contains(strings.ToUpper(trial.EligibilityCriteria), upper) {
				relevance += 0.5
			}
			if trial.Title != "" && strings.Contains(strings.ToUpper(trial.Title), upper) {
				relevance += 0.3
			}
		}

		if len(trial.BiomarkerRequirements) == 0 && len(patient.Biomarkers) > 0 {
			relevance = 0.1
		}

		scored = append(scored, scoredCandidate{trial: trial, relevance: relevance})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].relevance > scored[j].relevance
	})
	return scored
}

// nearbyLocations filters trial sites to those matching the patient's
// free-text location by case-insensitive substring against city, state, and
// country, then truncates to 5. Without a patient location the first 5
// sites are returned unfiltered.
func nearbyLocations(locations []types.Location, patientLocation string) []types.Location {
	const maxSites = 5

	filtered := locations
	if needle := strings.ToLower(strings.TrimSpace(patientLocation)); needle != "" && len(locations) > 0 {
		filtered = nil
		for _, loc := range locations {
			if strings.Contains(strings.ToLower(loc.City), needle) ||
				strings.Contains(strings.ToLower(loc.State), needle) ||
				strings.Contains(strings.ToLower(loc.Country), needle) {
				filtered = append(filtered, loc)
			}
		}
	}
	if len(filtered) > maxSites {
		filtered = filtered[:maxSites]
	}
	return filtered
}
