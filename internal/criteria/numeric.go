// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// Age compares a patient age against an age requirement. Age 0 is treated
// as unknown. A requirement with one open bound is evaluated against the
// present bound alone.
func Age(age int, req *types.BoundsRequirement, d types.ComparatorDeltas) Contribution {
	if req == nil || (req.Min == nil && req.Max == nil) || age <= 0 {
		return Contribution{}
	}
	if req.Min != nil && age < *req.Min {
		return Contribution{
			Delta:     d.RangeViolation,
			Excluding: fmt.Sprintf("age %d below minimum %d", age, *req.Min),
		}
	}
	if req.Max != nil && age > *req.Max {
		return Contribution{
			Delta:     d.RangeViolation,
			Excluding: fmt.Sprintf("age %d above maximum %d", age, *req.Max),
		}
	}
	return Contribution{
		Delta:  d.RangeMatch,
		Reason: fmt.Sprintf("age %d within required range", age),
	}
}

// ECOG compares a patient's ECOG performance status (0-4) against an ECOG
// requirement. A nil status means unknown and contributes nothing.
func ECOG(status *int, req *types.BoundsRequirement, d types.ComparatorDeltas) Contribution {
	if req == nil || (req.Min == nil && req.Max == nil) || status == nil {
		return Contribution{}
	}
	if req.Min != nil && *status < *req.Min {
		return Contribution{
			Delta:     d.RangeViolation,
			Excluding: fmt.Sprintf("ECOG %d below minimum %d", *status, *req.Min),
		}
	}
	if req.Max != nil && *status > *req.Max {
		return Contribution{
			Delta:     d.RangeViolation,
			Excluding: fmt.Sprintf("ECOG %d above maximum %d", *status, *req.Max),
		}
	}
	return Contribution{
		Delta:  d.RangeMatch,
		Reason: fmt.Sprintf("ECOG %d meets requirement", *status),
	}
}

// Expression compares an expression-level biomarker (e.g. PD-L1 TPS)
// against a numeric threshold requirement. The patient value is free-form
// ("TPS 50%", "60", "high"); when no percentage can be parsed out of any
// value the comparator stays silent rather than guessing.
func Expression(name string, patientValues []string, req *types.ExpressionRequirement, d types.ComparatorDeltas) Contribution {
	if req == nil || (req.Min == nil && req.Max == nil) || len(patientValues) == 0 {
		return Contribution{}
	}
	pct, ok := parsePercent(patientValues)
	if !ok {
		return Contribution{}
	}
	if req.Min != nil && pct < *req.Min {
		return Contribution{
			Delta:     d.ExpressionBelow,
			Excluding: fmt.Sprintf("%s %.0f%% below required %.0f%%", name, pct, *req.Min),
		}
	}
	if req.Max != nil && pct > *req.Max {
		return Contribution{
			Delta:     d.ExpressionBelow,
			Excluding: fmt.Sprintf("%s %.0f%% above allowed %.0f%%", name, pct, *req.Max),
		}
	}
	return Contribution{
		Delta:  d.ExpressionMet,
		Reason: fmt.Sprintf("%s %.0f%% meets expression requirement", name, pct),
	}
}

// parsePercent extracts the first numeric percentage found in a list of
// free-form value tokens. It tolerates a trailing "%" and surrounding
// label text ("TPS 50%", ">= 1%", "50").
func parsePercent(values []string) (float64, bool) {
	for _, v := range values {
		for _, field := range strings.Fields(v) {
			field = strings.TrimRight(field, "%")
			field = strings.TrimLeft(field, "<>=≥≤")
			if field == "" {
				continue
			}
			if pct, err := strconv.ParseFloat(field, 64); err == nil && pct >= 0 && pct <= 100 {
				return pct, true
			}
		}
	}
	return 0, false
}
