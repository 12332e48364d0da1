// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the matching-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the matching-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "matching-engine",
	Short: "Cancer trial and treatment matching engine",
	Long: `matching-engine scores structured patient profiles against clinical trial
eligibility criteria and approved treatments, and analyzes the competitive
landscape around a planned trial.

The catalog subcommand maintains a local trial and treatment catalog; match
and competitors run the scoring engine against it.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./matching-engine.yaml or ~/.config/matching-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "base directory for the catalog database (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("matching-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "matching-engine"))
		}
	}

	viper.SetEnvPrefix("MATCHING_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("catalog.data_dir", "data")
	viper.SetDefault("catalog.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
