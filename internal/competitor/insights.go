// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package competitor

import (
	"sort"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/eligibility"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// topN is how many entries each insight frequency table keeps.
const topN = 10

// Insights aggregates a competitor set into market intelligence: sponsor
// and state frequency tables, a phase histogram, the most commonly
// overlapping biomarkers, and the mean similarity. An empty set yields
// zeroed insights, never a division error.
func Insights(competitors []types.CompetitorMatch) types.MarketInsights {
	if len(competitors) == 0 {
		return types.MarketInsights{
			TopSponsors:        []types.NameCount{},
			GeographicHotspots: []types.NameCount{},
			PhaseDistribution:  map[string]int{},
			CommonBiomarkers:   []types.NameCount{},
		}
	}

	sponsors := make(map[string]int)
	states := make(map[string]int)
	phases := make(map[string]int)
	biomarkers := make(map[string]int)
	var total float64

	for _, c := range competitors {
		if c.Sponsor != "" {
			sponsors[c.Sponsor]++
		}
		for _, loc := range c.Locations {
			if loc.State != "" {
				states[loc.State]++
			}
		}
		if c.Phase != "" {
			phases[c.Phase]++
		}
		for _, b := range c.OverlappingBiomarkers {
			biomarkers[b]++
		}
		total += c.SimilarityScore
	}

	return types.MarketInsights{
		TotalCompetingTrials: len(competitors),
		TopSponsors:          mostCommon(sponsors, topN),
		GeographicHotspots:   mostCommon(states, topN),
		PhaseDistribution:    phases,
		CommonBiomarkers:     mostCommon(biomarkers, topN),
		AvgSimilarityScore:   eligibility.Round3(total / float64(len(competitors))),
	}
}

// mostCommon returns the n highest counts, ties broken by name so the
// table is deterministic.
func mostCommon(counts map[string]int, n int) []types.NameCount {
	out := make([]types.NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, types.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TrialAsProfile converts an existing catalog trial into a researcher
// profile so a registered trial can be analyzed against its own market.
// A nil trial yields a nil profile.
func TrialAsProfile(trial *types.ClinicalTrial) *types.ResearcherTrialProfile {
	if trial == nil {
		return nil
	}
	profile := &types.ResearcherTrialProfile{
		NCTID:            trial.NCTID,
		Title:            trial.Title,
		Phase:            trial.Phase,
		TargetBiomarkers: map[string][]string{},
		TargetLocations:  trial.States(),
	}

	for name, values := range trial.BiomarkerRequirements {
		profile.TargetBiomarkers[name] = values
	}

	elig := trial.StructuredEligibility
	if elig == nil {
		return profile
	}

	if elig.Biomarkers != nil {
		for name, mutations := range elig.Biomarkers.RequiredPositive {
			if _, ok := profile.TargetBiomarkers[name]; !ok {
				profile.TargetBiomarkers[name] = mutations
			}
		}
	}
	if elig.DiseaseStage != nil {
		profile.TargetStages = elig.DiseaseStage.Allowed
	}
	if elig.Histology != nil {
		profile.TargetHistology = elig.Histology.Allowed
	}
	if elig.Age != nil {
		r := types.AgeRange{Min: defaultAgeMin, Max: 99}
		if elig.Age.Min != nil {
			r.Min = *elig.Age.Min
		}
		if elig.Age.Max != nil {
			r.Max = *elig.Age.Max
		}
		profile.AgeRange = &r
	}
	if elig.ECOG != nil && elig.ECOG.Max != nil {
		max := *elig.ECOG.Max
		profile.ECOGMax = &max
	}
	if elig.PriorTreatments != nil {
		naive := elig.PriorTreatments.TreatmentNaiveRequired
		profile.TreatmentNaiveOnly = &naive
		profile.PriorTreatmentsExcluded = elig.PriorTreatments.Excluded
	}
	return profile
}
