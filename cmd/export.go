package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/timecalc"
)

var (
	exportSince  string
	exportUntil  string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSince, "since", "", "From what time (default: first of month)")
	exportCmd.Flags().StringVar(&exportUntil, "until", "now", "Until what time")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	since := timecalc.FirstOfMonth(now)
	if exportSince != "" {
		var err error
		if since, err = humandate.Resolve(exportSince, now); err != nil {
			return err
		}
	}
	until, err := humandate.Resolve(exportUntil, now)
	if err != nil {
		return err
	}

	cfg, st, err := newEnv()
	if err != nil {
		return err
	}

	events, _ := st.FindInRange(since, until)

	switch exportFormat {
	case "json":
		records := make([]model.Record, 0, len(events))
		for i := range events {
			records = append(records, events[i].Record(now, cfg.User))
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	default: // csv
		printCSV(events, now)
	}
	return nil
}

func printCSV(events []model.Event, now time.Time) {
	fmt.Println("date,project,start,stop,duration_seconds,tags,description")
	for i := range events {
		e := &events[i]
		stop := ""
		if e.Stop != nil {
			stop = e.Stop.Format(model.TimeLayout)
		}
		fmt.Printf("%s,%s,%s,%s,%d,%s,%s\n",
			csvEscape(timecalc.FormatYMD(e.Start)),
			csvEscape(e.Project),
			csvEscape(e.Start.Format(model.TimeLayout)),
			csvEscape(stop),
			int64(e.DurationAt(now).Seconds()),
			csvEscape(e.TagsString()),
			csvEscape(e.Description),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
