// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import "sort"

// Jaccard computes |A∩B| / |A∪B| over two string sets and returns the
// sorted intersection alongside. Duplicates within a side are collapsed.
// When both sets are empty the similarity is 0: no information is not a
// perfect match, and there is no division by zero.
func Jaccard(a, b []string) (float64, []string) {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0, nil
	}

	var overlap []string
	for v := range setA {
		if setB[v] {
			overlap = append(overlap, v)
		}
	}
	sort.Strings(overlap)

	union := len(setA) + len(setB) - len(overlap)
	if union == 0 {
		return 0, nil
	}
	return float64(len(overlap)) / float64(union), overlap
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// IntervalOverlap computes the overlap ratio of two inclusive integer
// intervals: |intersection| / |union|. Disjoint intervals score 0. A pair
// of identical point intervals scores 1.
func IntervalOverlap(aMin, aMax, bMin, bMax int) float64 {
	if aMax < aMin || bMax < bMin {
		return 0
	}
	loIn := max(aMin, bMin)
	hiIn := min(aMax, bMax)
	if hiIn < loIn {
		return 0
	}
	loUn := min(aMin, bMin)
	hiUn := max(aMax, bMax)
	if hiUn == loUn {
		return 1
	}
	return float64(hiIn-loIn) / float64(hiUn-loUn)
}

// PhaseProximity scores how close two named trial phases sit on the fixed
// ordinal scale, decaying by stepPenalty per step. Unknown phase names on
// either side yield 0.
func PhaseProximity(a, b string, order map[string]float64, stepPenalty float64) float64 {
	posA, okA := order[a]
	posB, okB := order[b]
	if !okA || !okB {
		return 0
	}
	return OrdinalDecay(posA, posB, stepPenalty)
}
