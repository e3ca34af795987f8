package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/sequential/market/data"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download minute-candle archives",
	Long: `Download BID minute-candle archives from a Dukascopy-style datafeed
and flatten them into CSV bar files the scan and replay commands read.

Weekend and holiday days come back 404 from the feed; those are counted
as missing, not failed.

Examples:
  sequential data -symbol EURUSD -start 2024-01-01 -end 2024-02-01
  sequential data -symbol USDJPY -start 2024-01-01 -end 2024-01-08 -point 0.001`,
	RunE: runData,
}

var (
	dataSymbol  string
	dataStart   string
	dataEnd     string
	dataOutDir  string
	dataWorkers int
	dataPoint   float64
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.Flags().StringVarP(&dataSymbol, "symbol", "s", "", "instrument symbol, e.g. EURUSD (required)")
	dataCmd.Flags().StringVar(&dataStart, "start", "", "first day to fetch, YYYY-MM-DD (required)")
	dataCmd.Flags().StringVar(&dataEnd, "end", "", "day after the last day to fetch, YYYY-MM-DD (required)")
	dataCmd.Flags().StringVarP(&dataOutDir, "out", "o", "./dukas", "output directory")
	dataCmd.Flags().IntVarP(&dataWorkers, "workers", "w", 4, "concurrent downloads")
	dataCmd.Flags().Float64Var(&dataPoint, "point", 0.00001, "price scale of the stored integers")
	dataCmd.MarkFlagRequired("symbol")
	dataCmd.MarkFlagRequired("start")
	dataCmd.MarkFlagRequired("end")
}

func runData(cmd *cobra.Command, args []string) error {
	start, err := time.ParseInLocation("2006-01-02", dataStart, time.UTC)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", dataEnd, time.UTC)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	fmt.Printf("Fetching %s candles %s .. %s into %s\n\n", dataSymbol, dataStart, dataEnd, dataOutDir)

	stats, err := data.Fetch(context.Background(), data.Options{
		Symbol:  dataSymbol,
		Start:   start,
		End:     end,
		OutDir:  dataOutDir,
		Workers: dataWorkers,
		Point:   dataPoint,
	})
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d day(s) failed to download", stats.Failed)
	}
	return nil
}
