// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match scores a patient profile against catalogs of approved
// treatments and recruiting clinical trials, and ranks the results. The
// scoring pass is synchronous and stateless; callers own the candidate
// lists and may invoke it concurrently.
package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/criteria"
	"github.com/Weirwood-Admin/cancer-matching-engine/internal/eligibility"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// Treatments matches approved therapies to a patient by biomarker
// requirements alone, independent of trial scoring.
//
// A treatment without biomarker requirements earns a flat score only when
// its drug class is broadly applicable (chemotherapy/immunotherapy/PD-1/
// PD-L1 family); otherwise it is dropped. A raw score above 1 is
// renormalized by the number of requirement entries. Treatments with no
// score and no reasons carry zero signal and are excluded from the result
// rather than returned as weak matches.
func Treatments(patient *types.PatientProfile, catalog []types.Treatment, cfg types.ScoringConfig) ([]types.TreatmentMatch, error) {
	if err := patient.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxCandidates > 0 && len(catalog) > cfg.MaxCandidates {
		return nil, fmt.Errorf("candidate batch of %d treatments exceeds limit %d", len(catalog), cfg.MaxCandidates)
	}

	var matches []types.TreatmentMatch
	for i := range catalog {
		treatment := &catalog[i]
		score, reasons := scoreTreatment(patient, treatment, cfg)
		if score <= 0 && len(reasons) == 0 {
			continue
		}
		matches = append(matches, types.TreatmentMatch{
			GenericName:           treatment.GenericName,
			BrandNames:            treatment.BrandNames,
			DrugClass:             treatment.DrugClass,
			MechanismOfAction:     treatment.MechanismOfAction,
			BiomarkerRequirements: treatment.BiomarkerRequirements,
			ApprovalStatus:        treatment.ApprovalStatus,
			MatchReason:           joinReasons(reasons),
			MatchScore:            eligibility.Round3(score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches, nil
}

func scoreTreatment(patient *types.PatientProfile, treatment *types.Treatment, cfg types.ScoringConfig) (float64, []string) {
	var score float64
	var reasons []string

	requirements := treatment.BiomarkerRequirements
	if len(requirements) == 0 {
		if broadlyApplicable(treatment.DrugClass, cfg.BroadDrugClasses) {
			return cfg.TreatmentDeltas.BroadApplicability, []string{"broadly applicable treatment"}
		}
		return 0, nil
	}

	// Sorted requirement order keeps reason ordering reproducible.
	names := make([]string, 0, len(requirements))
	for name := range requirements {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values, _ := criteria.LookupBiomarker(patient.Biomarkers, name)
		c := criteria.TreatmentBiomarker(name, requirements[name], values, cfg.TreatmentDeltas)
		score += c.Delta
		if c.Reason != "" {
			reasons = append(reasons, c.Reason)
		}
	}

	if score > 1 {
		score = score / float64(len(requirements))
		if score > 1 {
			score = 1
		}
	}
	return score, reasons
}

func broadlyApplicable(drugClass string, broadClasses []string) bool {
	lowered := strings.ToLower(drugClass)
	for _, term := range broadClasses {
		if term != "" && strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
