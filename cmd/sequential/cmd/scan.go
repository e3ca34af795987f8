package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/sequential/annotate"
	"github.com/rustyeddy/sequential/chart"
	"github.com/rustyeddy/sequential/config"
	"github.com/rustyeddy/sequential/indicators"
	"github.com/rustyeddy/sequential/journal"
	"github.com/rustyeddy/sequential/market"
	"github.com/rustyeddy/sequential/pkg/id"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a CSV bar file in one batch pass",
	Long: `Run the full recurrence over a historical bar file, print the labeled
bars as a table, and optionally journal the run.

Examples:
  sequential scan -bars data/spx_15m.csv -instrument SPX
  sequential scan -config examples/configs/scan.yaml
  sequential scan -bars data/spx_15m.csv -db ./sequential.sqlite`,
	RunE: runScan,
}

var (
	scanConfigPath string
	scanBarsPath   string
	scanInstrument string
	scanDBPath     string
	scanMinSetup   int
	scanShowAll    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanConfigPath, "config", "f", "", "path to config file with feed and journal settings")
	scanCmd.Flags().StringVarP(&scanBarsPath, "bars", "b", "", "CSV file of bars (time,open,high,low,close,volume)")
	scanCmd.Flags().StringVarP(&scanInstrument, "instrument", "i", "SPX", "instrument name stamped on the bars")
	scanCmd.Flags().StringVarP(&scanDBPath, "db", "d", "", "SQLite journal path (omit to skip journaling)")
	scanCmd.Flags().IntVar(&scanMinSetup, "min-setup", 0, "minimum setup magnitude to label (default 6)")
	scanCmd.Flags().BoolVar(&scanShowAll, "all", false, "print every bar, not just the labeled ones")
}

func runScan(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error

	if scanConfigPath != "" {
		cfg, err = config.LoadFromFile(scanConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		if scanBarsPath == "" {
			return fmt.Errorf("either -config or -bars flag is required")
		}
		cfg = config.Default()
		cfg.Feed.CSVFile = scanBarsPath
		cfg.Feed.Instrument = scanInstrument
		cfg.Journal = config.JournalConfig{}
		if scanDBPath != "" {
			cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: scanDBPath}
		}
		if scanMinSetup > 0 {
			cfg.Annotations.MinSetup = scanMinSetup
		}
	}

	series, err := market.LoadCSV(cfg.Feed.CSVFile, cfg.Feed.Instrument)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if series.Len() == 0 {
		return fmt.Errorf("no bars in %s", cfg.Feed.CSVFile)
	}

	res, err := indicators.Run(series, cfg.Engine)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	anns := annotate.Derive(res.Setup, res.Countdown, cfg.Annotations.MinSetup)

	renderer := chart.NewText(os.Stdout)
	renderer.ShowAll = scanShowAll
	if err := renderer.Render(series, res, anns); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fmt.Printf("\nScan complete!\n")
	fmt.Printf("  Bars: %d\n", series.Len())
	fmt.Printf("  Labels: %d\n", len(anns))
	fmt.Printf("  Countdowns completed: %d\n", res.Completed)
	if res.Active {
		fmt.Printf("  Countdown open at end of data (direction %+d)\n", res.Direction)
	}

	if cfg.Journal.Type == "" {
		return nil
	}
	return journalScan(cfg, series, res, anns)
}

func journalScan(cfg *config.Config, series *market.Series, res indicators.Result, anns []annotate.Annotation) error {
	var j journal.Journal
	var err error
	if cfg.Journal.Type == "csv" {
		j, err = journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.AnnotationsFile)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	runID := id.New()
	for _, a := range anns {
		rec := journal.AnnotationRecord{
			RunID: runID,
			Index: a.Index,
			Time:  series.Bars[a.Index].Time,
			Kind:  a.Kind.String(),
			Count: a.Count(),
		}
		if err := j.RecordAnnotation(rec); err != nil {
			return fmt.Errorf("record annotation: %w", err)
		}
	}

	run := journal.RunRecord{
		RunID:      runID,
		Instrument: cfg.Feed.Instrument,
		Timeframe:  cfg.Feed.Timeframe,
		Start:      series.Bars[0].Time,
		End:        series.Bars[series.Len()-1].Time,
		Bars:       series.Len(),
		Completed:  res.Completed,
		Open:       res.Active,
		Direction:  res.Direction,
	}
	if err := j.RecordRun(run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	if cfg.Journal.Type == "csv" {
		fmt.Printf("\nRun %s saved to:\n  - %s\n  - %s\n", runID, cfg.Journal.RunsFile, cfg.Journal.AnnotationsFile)
	} else {
		fmt.Printf("\nRun %s saved to: %s\n", runID, cfg.Journal.DBPath)
	}
	return nil
}
