package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/sequential/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query scan journal data",
	Long: `Query and display scan records from the SQLite journal.

Subcommands:
  run    - Get details of a specific run by ID
  today  - List runs that ended today
  day    - List runs that ended on a specific day

Examples:
  sequential journal run <run-id>
  sequential journal today
  sequential journal day 2024-01-15`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Get details of a specific run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List runs that ended today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List runs that ended on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./sequential.sqlite", "path to SQLite journal DB")
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	rec, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	anns, err := j.ListAnnotations(runID)
	if err != nil {
		return fmt.Errorf("list annotations: %w", err)
	}

	fmt.Println(journal.FormatRunOrg(rec, anns))
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return journalForDay(time.Now().In(loc).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return journalForDay(args[0])
}

func journalForDay(day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	runs, err := j.ListRunsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	fmt.Println(journal.FormatRunsOrg(runs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
