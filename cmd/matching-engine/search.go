// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over the catalog",
	Long: `Search runs an FTS5 full-text query over catalog trials (title, brief
summary, eligibility text) or, with --treatments, over approved treatments
(generic name, drug class, mechanism of action).`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	query := strings.Join(args, " ")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	searchTreatments, _ := cmd.Flags().GetBool("treatments")

	if searchTreatments {
		treatments, err := store.SearchTreatments(ctx, query)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(treatments)
		}
		if len(treatments) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		for _, t := range treatments {
			fmt.Fprintf(os.Stdout, "%-20s  %-25s  %s\n",
				t.GenericName, truncate(t.DrugClass, 25), truncate(t.MechanismOfAction, 50))
		}
		fmt.Fprintf(os.Stdout, "\n%d results\n", len(treatments))
		return nil
	}

	trials, err := store.SearchTrials(ctx, query)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(trials)
	}
	if len(trials) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for _, t := range trials {
		fmt.Fprintf(os.Stdout, "%-12s  %-22s  %-16s  %s\n",
			t.NCTID, truncate(t.Status, 22), truncate(t.Phase, 16), truncate(t.Title, 45))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(trials))
	return nil
}

func init() {
	searchCmd.Flags().Bool("treatments", false, "search treatments instead of trials")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
