// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/match"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a patient profile against trials or treatments",
	Long: `Match scores a structured patient profile against the catalog. The trials
subcommand evaluates recruiting trials with structured eligibility and ranks
them by tier and score; the treatments subcommand ranks approved therapies
by biomarker relevance.`,
}

// --- trials subcommand ---

var matchTrialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Rank recruiting trials for a patient profile",
	Long: `Trials loads recruiting trials from the catalog, pre-filters them by
biomarker relevance, scores each against its structured eligibility, and
prints the ranked matches. Trials without structured eligibility are
counted but not scored.`,
	RunE: runMatchTrials,
}

func runMatchTrials(cmd *cobra.Command, args []string) error {
	patient, err := patientFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	candidates, err := store.RecruitingTrials(context.Background())
	if err != nil {
		return err
	}

	out, err := match.Trials(patient, candidates, types.DefaultScoringConfig())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(out)
	}

	if len(out.Matches) == 0 {
		fmt.Println("No matching trials found.")
		fmt.Printf("\nevaluated %d, skipped %d without structured eligibility\n",
			out.Evaluated, out.SkippedUnstructured)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-6s  %-5s  %s\n",
		"NCT ID", "Tier", "Score", "Conf", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, m := range out.Matches {
		fmt.Fprintf(os.Stdout, "%-12s  %-10s  %.3f  %.3f  %s\n",
			m.NCTID, m.Eligibility.Status, m.Eligibility.Score,
			m.Eligibility.Confidence, truncate(m.Title, 50))
	}
	fmt.Fprintf(os.Stdout, "\n%d matches (evaluated %d, skipped %d without structured eligibility)\n",
		len(out.Matches), out.Evaluated, out.SkippedUnstructured)
	return nil
}

// --- treatments subcommand ---

var matchTreatmentsCmd = &cobra.Command{
	Use:   "treatments",
	Short: "Rank approved treatments for a patient profile",
	RunE:  runMatchTreatments,
}

func runMatchTreatments(cmd *cobra.Command, args []string) error {
	patient, err := patientFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	treatments, err := store.Treatments(context.Background())
	if err != nil {
		return err
	}

	matches, err := match.Treatments(patient, treatments, types.DefaultScoringConfig())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(matches)
	}

	if len(matches) == 0 {
		fmt.Println("No matching treatments found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %-25s  %s\n",
		"Generic Name", "Score", "Drug Class", "Reason")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-20s  %.3f  %-25s  %s\n",
			m.GenericName, m.MatchScore, truncate(m.DrugClass, 25),
			truncate(m.MatchReason, 45))
	}
	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(matches))
	return nil
}

// --- shared helpers ---

// patientFromFlags loads the patient profile file named by --profile.
func patientFromFlags(cmd *cobra.Command) (*types.PatientProfile, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return nil, fmt.Errorf("provide a patient profile file with --profile")
	}

	var patient types.PatientProfile
	if err := decodeFile(path, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// decodeFile reads a YAML or JSON document into v. JSON files are detected
// by extension; everything else parses as YAML.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most n display runes, ending in "..." when
// anything was cut. Slicing runes rather than bytes keeps multi-byte
// titles from being split mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	matchCmd.PersistentFlags().String("profile", "", "patient profile file (YAML or JSON)")
	matchCmd.PersistentFlags().Bool("json", false, "output results as JSON")

	matchCmd.AddCommand(matchTrialsCmd)
	matchCmd.AddCommand(matchTreatmentsCmd)

	rootCmd.AddCommand(matchCmd)
}
