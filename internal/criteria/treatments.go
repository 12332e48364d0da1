// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"fmt"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// PriorTreatments evaluates a patient's treatment history against a trial's
// prior-treatment requirements and returns one Contribution per evaluated
// rule, in a fixed order: required treatments, excluded treatments,
// treatment-naive flag, then line-count bounds. Treatment names match by
// case-insensitive substring in either direction ("osimertinib" satisfies
// "EGFR TKI therapy with osimertinib" and vice versa), since both sides are
// free-form.
//
// An empty patient history is ambiguous (truly untreated or simply
// unreported), so only the treatment-naive rule reads it, and only as
// satisfying naivety. Line counts are approximated by the number of
// distinct prior treatments.
func PriorTreatments(patient []string, req *types.PriorTreatmentRequirements, d types.ComparatorDeltas) []Contribution {
	if req == nil {
		return nil
	}
	var out []Contribution

	for _, required := range req.Required {
		if len(patient) == 0 {
			break
		}
		if treatmentListed(patient, required) {
			out = append(out, Contribution{
				Delta:  d.TreatmentRequired,
				Reason: fmt.Sprintf("prior %s as required", required),
			})
		} else {
			out = append(out, Contribution{
				Delta:     d.LineCountViolation,
				Excluding: fmt.Sprintf("required prior %s not found in history", required),
			})
		}
	}

	for _, excluded := range req.Excluded {
		if treatmentListed(patient, excluded) {
			out = append(out, Contribution{
				Delta:     d.TreatmentExcluded,
				Excluding: fmt.Sprintf("prior %s is excluded", excluded),
			})
		}
	}

	if req.TreatmentNaiveRequired {
		if len(patient) > 0 {
			out = append(out, Contribution{
				Delta:     d.FlagViolation,
				Excluding: "trial requires treatment-naive patients",
			})
		} else {
			out = append(out, Contribution{
				Delta:  d.FlagAgreement,
				Reason: "treatment-naive as required",
			})
		}
	}

	if len(patient) > 0 {
		lines := len(patient)
		if req.MaxLines != nil && lines > *req.MaxLines {
			out = append(out, Contribution{
				Delta:     d.LineCountViolation,
				Excluding: fmt.Sprintf("%d prior lines exceeds maximum %d", lines, *req.MaxLines),
			})
		}
		if req.MinLines != nil && lines < *req.MinLines {
			out = append(out, Contribution{
				Delta:     d.LineCountViolation,
				Excluding: fmt.Sprintf("%d prior lines below minimum %d", lines, *req.MinLines),
			})
		}
	}

	return out
}

func treatmentListed(history []string, name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, h := range history {
		have := strings.ToLower(strings.TrimSpace(h))
		if have == "" {
			continue
		}
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return true
		}
	}
	return false
}
