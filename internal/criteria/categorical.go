// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"fmt"
	"strings"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// AllowDeny compares a categorical value (disease stage, histology) against
// an allow/deny list requirement. Matching is case-insensitive on trimmed
// values. Exclusion dominates: a value on both lists is excluded. A
// non-empty allow list is exhaustive, so a value on neither list fails it.
func AllowDeny(label, value string, req *types.ListRequirement, d types.ComparatorDeltas) Contribution {
	if req == nil || (len(req.Allowed) == 0 && len(req.Excluded) == 0) {
		return Contribution{}
	}
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Contribution{}
	}

	if listContains(req.Excluded, v) {
		return Contribution{
			Delta:     d.ListExcluded,
			Excluding: fmt.Sprintf("%s %s is excluded", label, value),
		}
	}
	if listContains(req.Allowed, v) {
		return Contribution{
			Delta:  d.ListAllowed,
			Reason: fmt.Sprintf("%s %s is allowed", label, value),
		}
	}
	if len(req.Allowed) > 0 {
		return Contribution{
			Delta:     d.ListNotInAllow,
			Excluding: fmt.Sprintf("%s %s not among allowed values", label, value),
		}
	}
	return Contribution{}
}

func listContains(list []string, lowered string) bool {
	for _, item := range list {
		if strings.ToLower(strings.TrimSpace(item)) == lowered {
			return true
		}
	}
	return false
}
