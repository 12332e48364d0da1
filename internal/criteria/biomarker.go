// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"fmt"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// LookupBiomarker finds a patient's recorded values for a biomarker name,
// matching keys case-insensitively. The second return reports whether the
// patient has any record for that biomarker.
func LookupBiomarker(biomarkers map[string][]string, name string) ([]string, bool) {
	upper := strings.ToUpper(name)
	for key, values := range biomarkers {
		if strings.ToUpper(key) == upper {
			return values, true
		}
	}
	return nil, false
}

// RequiredPositive compares a patient's recorded biomarker values against a
// required-positive entry. Decision order, first match wins:
//
//  1. the requirement accepts generic positivity and the patient reports a
//     positivity token: positive match;
//  2. a required mutation token intersects the patient's tokens: mutation
//     match, the strongest signal, reason names the mutation(s);
//  3. the patient reports positivity but the requirement names a specific
//     mutation that is not confirmed: medium positive, flagged for
//     confirmation;
//  4. the patient reports negative/wild-type: the requirement is violated;
//  5. no patient data: no contribution.
func RequiredPositive(name string, requiredValues, patientValues []string, d types.ComparatorDeltas) Contribution {
	if len(patientValues) == 0 {
		return Contribution{}
	}

	required := normalizeTokens(requiredValues)
	patient := normalizeTokens(patientValues)

	if containsPositivity(required) && containsPositivity(patient) {
		return Contribution{
			Delta:  d.PositiveMatch,
			Reason: fmt.Sprintf("%s positive match", name),
		}
	}
	if hits := intersect(required, patient); len(hits) > 0 {
		return Contribution{
			Delta:  d.MutationMatch,
			Reason: fmt.Sprintf("%s mutation match (%s)", name, strings.Join(hits, ", ")),
		}
	}
	if containsPositivity(patient) {
		return Contribution{
			Delta:  d.PositiveUnconfirmed,
			Reason: fmt.Sprintf("%s positive (specific mutation check needed)", name),
		}
	}
	if containsNegativity(patient) {
		return Contribution{
			Delta:     d.PositiveRequired,
			Excluding: fmt.Sprintf("%s required positive but patient is negative", name),
		}
	}
	return Contribution{}
}

// TreatmentBiomarker compares a patient's recorded values against one
// biomarker requirement on an approved treatment. The branch order follows
// RequiredPositive but adds a wild-type agreement branch, because treatment
// labels express "EGFR wild-type" as a requirement value rather than a
// separate required-negative list.
func TreatmentBiomarker(name string, requiredValues, patientValues []string, d types.TreatmentDeltas) Contribution {
	if len(patientValues) == 0 {
		return Contribution{}
	}

	required := normalizeTokens(requiredValues)
	patient := normalizeTokens(patientValues)

	if containsPositivity(required) && containsPositivity(patient) {
		return Contribution{
			Delta:  d.PositiveMatch,
			Reason: fmt.Sprintf("%s positive match", name),
		}
	}
	if hits := intersect(required, patient); len(hits) > 0 {
		return Contribution{
			Delta:  d.MutationMatch,
			Reason: fmt.Sprintf("%s mutation match (%s)", name, strings.Join(hits, ", ")),
		}
	}
	if containsPositivity(patient) && !containsPositivity(required) {
		return Contribution{
			Delta:  d.PositiveUnconfirmed,
			Reason: fmt.Sprintf("%s positive (specific mutation check needed)", name),
		}
	}
	if containsNegativity(required) && containsNegativity(patient) {
		return Contribution{
			Delta:  d.WildTypeMatch,
			Reason: fmt.Sprintf("%s wild-type match", name),
		}
	}
	return Contribution{}
}

// RequiredNegative compares a patient's recorded values against a
// required-negative (wild-type) biomarker: positivity violates the
// requirement, a negative/wild-type report satisfies it, anything else is
// no signal.
func RequiredNegative(name string, patientValues []string, d types.ComparatorDeltas) Contribution {
	if len(patientValues) == 0 {
		return Contribution{}
	}
	patient := normalizeTokens(patientValues)

	if containsPositivity(patient) {
		return Contribution{
			Delta:     d.NegativeViolation,
			Excluding: fmt.Sprintf("%s must be negative but patient is positive", name),
		}
	}
	if containsNegativity(patient) {
		return Contribution{
			Delta:  d.NegativeMatch,
			Reason: fmt.Sprintf("%s wild-type as required", name),
		}
	}
	return Contribution{}
}
