package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sequential",
	Short: "A sequential exhaustion scanner for OHLC bar series",
	Long: `Sequential scans OHLC bar series for setup and countdown exhaustion
patterns and journals the label events it finds.

It provides tools for:
  - Scanning historical CSV bar files in one batch pass
  - Replaying bars incrementally through the streaming engine
  - Managing scan journals (SQLite or CSV)
  - Downloading minute-candle archives from a Dukascopy-style datafeed
  - Rendering labeled bars as plain-text tables

Complete documentation is available at https://github.com/rustyeddy/sequential`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
