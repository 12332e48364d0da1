// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package competitor scores trial-to-trial similarity for competitive
// analysis and aggregates a competitor set into market insights.
package competitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/criteria"
	"github.com/Weirwood-Admin/cancer-matching-engine/internal/eligibility"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// Defaults substituted for open age bounds when computing range overlap.
const (
	defaultAgeMin = 18
	defaultAgeMax = 100
)

// componentScores holds the five similarity components plus the overlap
// sets that justify them.
type componentScores struct {
	biomarker   float64
	stage       float64
	geographic  float64
	phase       float64
	eligibility float64

	overlappingBiomarkers []string
	overlappingStages     []string
}

// FindCompetitors scores every candidate trial against the researcher's
// profile, discards weak overlaps, and returns the ranked competitor set
// with aggregated market insights. The researcher's own trial (by NCT ID)
// is never its own competitor.
//
// Insights aggregate over every surviving competitor, not just the
// truncated top set, so the market picture does not shrink with the page.
func FindCompetitors(profile *types.ResearcherTrialProfile, candidates []types.ClinicalTrial, cfg types.ScoringConfig) ([]types.CompetitorMatch, types.MarketInsights, error) {
	if err := profile.Validate(); err != nil {
		return nil, types.MarketInsights{}, err
	}
	if cfg.MaxCandidates > 0 && len(candidates) > cfg.MaxCandidates {
		return nil, types.MarketInsights{}, fmt.Errorf("candidate batch of %d trials exceeds limit %d", len(candidates), cfg.MaxCandidates)
	}

	var surviving []types.CompetitorMatch
	for i := range candidates {
		trial := &candidates[i]
		if profile.NCTID != "" && trial.NCTID == profile.NCTID {
			continue
		}

		scores := scoreSimilarity(profile, trial, cfg)
		overall := scores.biomarker*cfg.Weights.Biomarker +
			scores.stage*cfg.Weights.Stage +
			scores.geographic*cfg.Weights.Geographic +
			scores.phase*cfg.Weights.Phase +
			scores.eligibility*cfg.Weights.Eligibility

		if overall <= cfg.MinSimilarity {
			continue
		}

		surviving = append(surviving, types.CompetitorMatch{
			NCTID:                 trial.NCTID,
			Title:                 trial.Title,
			Phase:                 trial.Phase,
			Status:                trial.Status,
			Sponsor:               trial.Sponsor,
			SimilarityScore:       eligibility.Round3(overall),
			BiomarkerOverlap:      eligibility.Round3(scores.biomarker),
			StageOverlap:          eligibility.Round3(scores.stage),
			GeographicOverlap:     eligibility.Round3(scores.geographic),
			PhaseProximity:        eligibility.Round3(scores.phase),
			EligibilitySimilarity: eligibility.Round3(scores.eligibility),
			OverlappingBiomarkers: scores.overlappingBiomarkers,
			OverlappingStages:     scores.overlappingStages,
			OverlappingLocations:  overlappingStates(profile.TargetLocations, trial),
			Locations:             truncateLocations(trial.Locations, 5),
			StudyURL:              trial.StudyURL,
			BriefSummary:          trial.BriefSummary,
		})
	}

	sort.SliceStable(surviving, func(i, j int) bool {
		return surviving[i].SimilarityScore > surviving[j].SimilarityScore
	})

	insights := Insights(surviving)

	top := surviving
	if cfg.MaxCompetitors > 0 && len(top) > cfg.MaxCompetitors {
		top = top[:cfg.MaxCompetitors]
	}
	return top, insights, nil
}

// scoreSimilarity computes the five component scores between a researcher
// profile and one candidate trial.
func scoreSimilarity(profile *types.ResearcherTrialProfile, trial *types.ClinicalTrial, cfg types.ScoringConfig) componentScores {
	var s componentScores

	// Biomarker overlap: keys only. Mutation-level comparison would
	// punish sparsely specified profiles on both sides.
	s.biomarker, s.overlappingBiomarkers = criteria.Jaccard(
		mapKeys(profile.TargetBiomarkers), trialBiomarkerKeys(trial))

	s.stage, s.overlappingStages = criteria.Jaccard(
		upperAll(profile.TargetStages), trialStages(trial))

	s.geographic, _ = criteria.Jaccard(profile.TargetLocations, trial.States())

	if profile.Phase != "" && trial.Phase != "" {
		s.phase = criteria.PhaseProximity(profile.Phase, trial.Phase, cfg.PhaseOrder, cfg.PhaseStepPenalty)
	}

	s.eligibility = eligibilityOverlap(profile, trial.StructuredEligibility, cfg)
	return s
}

// eligibilityOverlap averages up to three independent sub-signals: age
// range interval overlap, ECOG-max ordinal agreement, and treatment-naive
// agreement. A sub-signal missing data on either side is omitted from the
// average; absence of evidence does not drag similarity toward zero.
func eligibilityOverlap(profile *types.ResearcherTrialProfile, elig *types.StructuredEligibility, cfg types.ScoringConfig) float64 {
	if elig == nil {
		return 0
	}
	var signals []float64

	if profile.AgeRange != nil && elig.Age != nil {
		trialMin, trialMax := defaultAgeMin, defaultAgeMax
		if elig.Age.Min != nil {
			trialMin = *elig.Age.Min
		}
		if elig.Age.Max != nil {
			trialMax = *elig.Age.Max
		}
		signals = append(signals, criteria.IntervalOverlap(
			profile.AgeRange.Min, profile.AgeRange.Max, trialMin, trialMax))
	}

	if profile.ECOGMax != nil && elig.ECOG != nil && elig.ECOG.Max != nil {
		signals = append(signals, criteria.OrdinalDecay(
			float64(*profile.ECOGMax), float64(*elig.ECOG.Max), cfg.ECOGStepPenalty))
	}

	if profile.TreatmentNaiveOnly != nil {
		trialNaive := elig.PriorTreatments != nil && elig.PriorTreatments.TreatmentNaiveRequired
		if *profile.TreatmentNaiveOnly == trialNaive {
			signals = append(signals, 1.0)
		} else {
			signals = append(signals, 0.3)
		}
	}

	if len(signals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range signals {
		sum += v
	}
	return sum / float64(len(signals))
}

// trialBiomarkerKeys merges biomarker names from the trial record and its
// structured eligibility, since either may be sparsely populated.
func trialBiomarkerKeys(trial *types.ClinicalTrial) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	for name := range trial.BiomarkerRequirements {
		add(name)
	}
	if trial.StructuredEligibility != nil && trial.StructuredEligibility.Biomarkers != nil {
		for name := range trial.StructuredEligibility.Biomarkers.RequiredPositive {
			add(name)
		}
	}
	return keys
}

func trialStages(trial *types.ClinicalTrial) []string {
	if trial.StructuredEligibility == nil || trial.StructuredEligibility.DiseaseStage == nil {
		return nil
	}
	return upperAll(trial.StructuredEligibility.DiseaseStage.Allowed)
}

func overlappingStates(targetLocations []string, trial *types.ClinicalTrial) []string {
	if len(targetLocations) == 0 {
		return nil
	}
	_, overlap := criteria.Jaccard(targetLocations, trial.States())
	return overlap
}

func truncateLocations(locations []types.Location, n int) []types.Location {
	if len(locations) > n {
		return locations[:n]
	}
	return locations
}

func mapKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func upperAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(v))
	}
	return out
}
