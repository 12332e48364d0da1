// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"math"
	"testing"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []string
		want    float64
		overlap []string
	}{
		{"identical sets", []string{"EGFR", "ALK"}, []string{"ALK", "EGFR"}, 1, []string{"ALK", "EGFR"}},
		{"partial overlap", []string{"EGFR", "ALK"}, []string{"EGFR", "ROS1"}, 1.0 / 3.0, []string{"EGFR"}},
		{"disjoint", []string{"EGFR"}, []string{"KRAS"}, 0, nil},
		{"both empty", nil, nil, 0, nil},
		{"one empty", []string{"EGFR"}, nil, 0, nil},
		{"duplicates collapse", []string{"EGFR", "EGFR"}, []string{"EGFR"}, 1, []string{"EGFR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, overlap := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard = %v, want %v", got, tt.want)
			}
			if len(overlap) != len(tt.overlap) {
				t.Fatalf("overlap = %v, want %v", overlap, tt.overlap)
			}
			for i := range overlap {
				if overlap[i] != tt.overlap[i] {
					t.Errorf("overlap = %v, want %v", overlap, tt.overlap)
					break
				}
			}
		})
	}
}

func TestJaccardSymmetry(t *testing.T) {
	a := []string{"EGFR", "ALK", "ROS1"}
	b := []string{"ALK", "KRAS"}
	ab, _ := Jaccard(a, b)
	ba, _ := Jaccard(b, a)
	if ab != ba {
		t.Errorf("Jaccard(a,b) = %v, Jaccard(b,a) = %v", ab, ba)
	}
}

func TestIntervalOverlap(t *testing.T) {
	tests := []struct {
		name                   string
		aMin, aMax, bMin, bMax int
		want                   float64
	}{
		{"identical", 18, 75, 18, 75, 1},
		{"nested", 18, 75, 30, 50, float64(50-30) / float64(75-18)},
		{"partial", 18, 65, 50, 80, float64(65-50) / float64(80-18)},
		{"disjoint", 18, 30, 40, 75, 0},
		{"touching endpoints", 18, 40, 40, 75, 0},
		{"identical points", 50, 50, 50, 50, 1},
		{"inverted interval", 75, 18, 18, 75, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntervalOverlap(tt.aMin, tt.aMax, tt.bMin, tt.bMax)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("IntervalOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhaseProximity(t *testing.T) {
	cfg := types.DefaultScoringConfig()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"same phase", "Phase 2", "Phase 2", 1},
		{"adjacent phases", "Phase 2", "Phase 3", 0.7},
		{"half step", "Phase 1/Phase 2", "Phase 2", 0.85},
		{"far apart", "Phase 1", "Phase 4", 0.1},
		{"unknown phase", "Early Phase 1", "Phase 2", 0},
		{"both unknown", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhaseProximity(tt.a, tt.b, cfg.PhaseOrder, cfg.PhaseStepPenalty)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PhaseProximity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOrdinalDecay(t *testing.T) {
	if got := OrdinalDecay(1, 1, 0.5); got != 1 {
		t.Errorf("zero distance = %v, want 1", got)
	}
	if got := OrdinalDecay(0, 2, 0.5); got != 0 {
		t.Errorf("distance 2 at penalty 0.5 = %v, want 0", got)
	}
	if got := OrdinalDecay(3, 0, 0.5); got != 0 {
		t.Errorf("decay should floor at 0, got %v", got)
	}
	if got := OrdinalDecay(2, 1, 0.5); got != 0.5 {
		t.Errorf("distance 1 at penalty 0.5 = %v, want 0.5", got)
	}
}
