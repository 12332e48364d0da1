// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/catalog"
	"github.com/Weirwood-Admin/cancer-matching-engine/internal/competitor"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Analyze the competitive landscape around a trial",
	Long: `Competitors scores every recruiting trial in the catalog against a
researcher's trial profile and reports the most similar ones, plus market
insights (top sponsors, geographic hotspots, phase distribution).

The profile comes from --profile, or from --nct-id to analyze a trial
already in the catalog against its own market.`,
	RunE: runCompetitors,
}

// competitorReport is the combined analysis output.
type competitorReport struct {
	Competitors []types.CompetitorMatch `json:"competitors"`
	Insights    types.MarketInsights    `json:"market_insights"`
}

func runCompetitors(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	profile, err := researcherProfile(cmd, store)
	if err != nil {
		return err
	}

	candidates, err := store.RecruitingTrials(context.Background())
	if err != nil {
		return err
	}

	competitors, insights, err := competitor.FindCompetitors(profile, candidates, types.DefaultScoringConfig())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(competitorReport{Competitors: competitors, Insights: insights})
	}

	if len(competitors) == 0 {
		fmt.Println("No competing trials found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-6s  %-16s  %-25s  %s\n",
		"NCT ID", "Score", "Phase", "Sponsor", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 105))
	for _, c := range competitors {
		fmt.Fprintf(os.Stdout, "%-12s  %.3f  %-16s  %-25s  %s\n",
			c.NCTID, c.SimilarityScore, truncate(c.Phase, 16),
			truncate(c.Sponsor, 25), truncate(c.Title, 40))
	}

	fmt.Fprintf(os.Stdout, "\n%d competing trials, mean similarity %.3f\n",
		insights.TotalCompetingTrials, insights.AvgSimilarityScore)
	if len(insights.TopSponsors) > 0 {
		fmt.Fprintf(os.Stdout, "top sponsors: %s\n", nameCountLine(insights.TopSponsors, 5))
	}
	if len(insights.GeographicHotspots) > 0 {
		fmt.Fprintf(os.Stdout, "hotspots:     %s\n", nameCountLine(insights.GeographicHotspots, 5))
	}
	if len(insights.CommonBiomarkers) > 0 {
		fmt.Fprintf(os.Stdout, "biomarkers:   %s\n", nameCountLine(insights.CommonBiomarkers, 5))
	}
	return nil
}

// researcherProfile builds the analysis profile from --profile or --nct-id.
func researcherProfile(cmd *cobra.Command, store *catalog.Store) (*types.ResearcherTrialProfile, error) {
	path, _ := cmd.Flags().GetString("profile")
	nctID, _ := cmd.Flags().GetString("nct-id")

	switch {
	case path != "" && nctID != "":
		return nil, fmt.Errorf("--profile and --nct-id are mutually exclusive")
	case path != "":
		var profile types.ResearcherTrialProfile
		if err := decodeFile(path, &profile); err != nil {
			return nil, err
		}
		return &profile, nil
	case nctID != "":
		trial, err := store.Trial(context.Background(), nctID)
		if err != nil {
			return nil, err
		}
		if trial == nil {
			return nil, fmt.Errorf("trial %s not found in catalog", nctID)
		}
		return competitor.TrialAsProfile(trial), nil
	default:
		return nil, fmt.Errorf("provide a trial profile with --profile or --nct-id")
	}
}

func nameCountLine(counts []types.NameCount, n int) string {
	if len(counts) > n {
		counts = counts[:n]
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.Name, c.Count)
	}
	return strings.Join(parts, ", ")
}

func init() {
	competitorsCmd.Flags().String("profile", "", "researcher trial profile file (YAML or JSON)")
	competitorsCmd.Flags().String("nct-id", "", "analyze a catalog trial against its own market")
	competitorsCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(competitorsCmd)
}
