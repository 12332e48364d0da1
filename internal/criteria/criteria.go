// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package criteria implements the per-criterion comparators the scoring
// engine is built from. Every comparator is a pure function from a query
// value and a candidate requirement to a signed Contribution; comparators
// never perform I/O, never mutate their inputs, and fail soft on malformed
// input by contributing nothing.
//
// Two policies apply uniformly. An unset or empty requirement contributes
// zero (unconstrained). An unset query value also contributes zero: missing
// patient data is uncertainty, not exclusion.
package criteria

import (
	"sort"
	"strings"
)

// Contribution is the outcome of evaluating one criterion: a signed delta
// for the accumulator plus at most one reason string. Reason is set when
// the criterion was met, Excluding when it was violated; both empty means
// the criterion produced no signal.
type Contribution struct {
	Delta     float64
	Reason    string
	Excluding string
}

// IsZero reports whether the contribution carries no signal at all.
func (c Contribution) IsZero() bool {
	return c.Delta == 0 && c.Reason == "" && c.Excluding == ""
}

// positivityTokens is the closed vocabulary denoting biomarker presence.
var positivityTokens = map[string]bool{
	"positive":      true,
	"present":       true,
	"detected":      true,
	"rearrangement": true,
	"fusion":        true,
	"+":             true,
}

// negativityTokens denote absence / wild-type status.
var negativityTokens = map[string]bool{
	"negative":     true,
	"wild-type":    true,
	"wildtype":     true,
	"not detected": true,
}

// normalizeTokens lower-cases and trims a value list into a set.
func normalizeTokens(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

func containsPositivity(set map[string]bool) bool {
	for t := range positivityTokens {
		if set[t] {
			return true
		}
	}
	return false
}

func containsNegativity(set map[string]bool) bool {
	for t := range negativityTokens {
		if set[t] {
			return true
		}
	}
	return false
}

// intersect returns the sorted intersection of two token sets. Sorting
// keeps reason strings deterministic across runs.
func intersect(a, b map[string]bool) []string {
	var out []string
	for t := range a {
		if b[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// OrdinalDecay scores the proximity of two positions on a fixed ordinal
// scale: identical positions score 1.0, decaying linearly by stepPenalty
// per unit of distance, floored at 0.
func OrdinalDecay(a, b, stepPenalty float64) float64 {
	dist := a - b
	if dist < 0 {
		dist = -dist
	}
	s := 1.0 - dist*stepPenalty
	if s < 0 {
		return 0
	}
	return s
}
