// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short string untouched", "EGFR trial", 20, "EGFR trial"},
		{"exact length untouched", "abcdefghij", 10, "abcdefghij"},
		{"long string ellipsized", "A study of osimertinib in NSCLC", 15, "A study of o..."},
		{"multi-byte title cut on rune boundary", "Étude de phase 2 sur l'ostéosarcome", 12, "Étude de ..."},
		{"multi-byte short by runes", "ostéosarcome", 12, "ostéosarcome"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
