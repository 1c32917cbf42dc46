package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/report"
	"github.com/Tiliavir/tick/internal/styling"
	"github.com/Tiliavir/tick/internal/timecalc"
)

var (
	reportProject string
	reportTag     string
	reportSince   string
	reportUntil   string
	reportGroup   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time spent",
	Long: `Show tracked events between --since (default: first of the
current month) and --until (default: now), optionally grouped by day.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportProject, "project", "p", "", "Only this project")
	reportCmd.Flags().StringVarP(&reportTag, "tag", "t", "", "Only events carrying this tag")
	reportCmd.Flags().StringVar(&reportSince, "since", "", "From what time (default: first of month)")
	reportCmd.Flags().StringVar(&reportUntil, "until", "now", "Until what time")
	reportCmd.Flags().BoolVarP(&reportGroup, "group", "g", false, "Group events by day")
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	since := timecalc.FirstOfMonth(now)
	if reportSince != "" {
		var err error
		if since, err = humandate.Resolve(reportSince, now); err != nil {
			return err
		}
	}
	until, err := humandate.Resolve(reportUntil, now)
	if err != nil {
		return err
	}

	_, st, err := newEnv()
	if err != nil {
		return err
	}

	events, skipped := st.FindInRange(since, until)
	if skipped > 0 {
		slog.Warn("skipped unreadable event files", "count", skipped)
	}

	filter := report.Filter{Project: reportProject, Tag: reportTag}
	rows, totals := report.Aggregate(events, reportGroup, filter, now)

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		stop := styling.Dash
		if r.Stop != nil {
			stop = timecalc.FormatHM(*r.Stop)
		}
		table = append(table, []string{
			timecalc.FormatYMD(r.Start),
			r.Project,
			timecalc.FormatHM(r.Start),
			stop,
			timecalc.FormatDuration(r.Duration),
			styling.OrDash(tagsString(r.Tags)),
		})
	}

	fmt.Println(styling.Table([]string{"Date", "Project", "Start", "Stop", "Duration", "Tags"}, table, 4))
	fmt.Print(styling.Summary([][2]string{
		{"Total events", fmt.Sprintf("%d", totals.Events)},
		{"Total time", timecalc.FormatDuration(totals.Duration)},
	}))
	return nil
}
