// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/catalog"
	"github.com/Weirwood-Admin/cancer-matching-engine/internal/ingest"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultPageDelay = 1 * time.Second
	defaultUserAgent = "matching-engine/0.1"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local trial and treatment catalog",
	Long: `Catalog maintains a local SQLite catalog of clinical trials and approved
treatments. Use subcommands to ingest trials from ClinicalTrials.gov, seed
treatments from a YAML file, or show catalog statistics.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch trials from ClinicalTrials.gov into the catalog",
	Long: `Ingest pages through the ClinicalTrials.gov v2 registry API for the
configured condition and upserts every recruiting study into the catalog.
Re-running refreshes existing records in place.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	condition, _ := cmd.Flags().GetString("condition")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultPageDelay
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Condition: condition,
		PageSize:  pageSize,
		MaxPages:  maxPages,
		PageDelay: delay,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	summary, err := ingest.FetchTrials(context.Background(), client, cfg, store, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("ingested %d trials across %d pages (stored %d, failed %d)\n",
		summary.Fetched, summary.Pages, summary.Stored, summary.Failed)
	return nil
}

// --- treatments subcommand ---

var catalogTreatmentsCmd = &cobra.Command{
	Use:   "treatments <file>",
	Short: "Seed approved treatments from a YAML file",
	Long: `Treatments reads a YAML seed file of approved therapies and upserts each
into the catalog. The file holds a top-level "treatments" list keyed by
generic name.`,
	RunE: runCatalogTreatments,
}

func runCatalogTreatments(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one treatment seed file")
	}

	treatments, err := ingest.LoadTreatments(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	_, failed := ingest.SeedTreatments(context.Background(), store, treatments, os.Stdout)
	if failed > 0 {
		return fmt.Errorf("%d treatment(s) failed seeding", failed)
	}
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Trials:             %d\n", stats.Trials)
	fmt.Printf("  recruiting:       %d\n", stats.RecruitingTrials)
	fmt.Printf("  with eligibility: %d\n", stats.StructuredTrials)
	fmt.Printf("Treatments:         %d\n", stats.Treatments)
	return nil
}

// --- shared helpers ---

// openStore opens the catalog store using the --data-dir flag with config
// file and environment fallbacks.
func openStore(cmd *cobra.Command) (*catalog.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("catalog.data_dir")
	}

	return catalog.NewStore(types.CatalogConfig{
		DataDir:    dataDir,
		MaxResults: viper.GetInt("catalog.max_results"),
	})
}

func init() {
	catalogIngestCmd.Flags().String("condition", "", "registry condition query (default: NSCLC OR Non-Small Cell Lung Cancer)")
	catalogIngestCmd.Flags().Int("page-size", 100, "registry page size")
	catalogIngestCmd.Flags().Int("max-pages", 0, "maximum pages to fetch (0 = until exhausted)")
	catalogIngestCmd.Flags().Duration("delay", 0, "delay between page fetches (default 1s)")
	catalogIngestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogTreatmentsCmd)
	catalogCmd.AddCommand(catalogStatsCmd)

	rootCmd.AddCommand(catalogCmd)
}
