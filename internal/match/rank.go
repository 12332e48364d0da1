// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// RankTrials orders trial matches in place by tier (eligible, uncertain,
// ineligible) and score descending within a tier. The sort is stable:
// candidates with an identical (tier, score) key keep their input order, so
// identical catalog query order reproduces identical output byte for byte.
func RankTrials(matches []types.TrialMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].Eligibility.Status.Rank(), matches[j].Eligibility.Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return matches[i].Eligibility.Score > matches[j].Eligibility.Score
	})
}
