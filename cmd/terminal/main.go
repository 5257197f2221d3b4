package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	mockData   bool
	noColor    bool
)

// rootCmd is the base command for the terminal CLI.
var rootCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Multi-tier equity scoring terminal",
	Long: `terminal scores equities and crypto on twelve weighted tiers (valuation,
quality, analyst revisions, timing, sentiment, ...) and combines them into a
0-100 composite with a Strong Buy .. Strong Sell grade.

Examples:
  terminal score AAPL
  terminal score AAPL --live --format json
  terminal peers MSFT
  terminal serve --cron`,
	SilenceUsage: true,
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&mockData, "mock", false, "Use generated offline market data")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored table output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
