package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/config"
	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/store"
	"github.com/Tiliavir/tick/internal/styling"
	"github.com/Tiliavir/tick/internal/timecalc"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tick",
	Short: "File-backed command-line time tracker",
	Long: `tick records tracked time as one JSON file per event in a
year/month partitioned tree. Running it without a subcommand shows the
current tracking status.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
	RunE: runStatus,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log diagnostics, including skipped data files")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(exportCmd)
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newEnv loads the configuration and opens the store.
func newEnv() (config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, store.New(cfg.RootDir, cfg.User, slog.Default()), nil
}

// splitTags parses a comma-separated tag flag into trimmed tags.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var tags []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// tagsString joins de-duplicated tags for display.
func tagsString(tags []string) string {
	return strings.Join(model.DedupTags(tags), ",")
}

// printEventSummary renders one event as the key/value block shown after
// lifecycle commands.
func printEventSummary(st *store.Store, ev *model.Event, status string, now time.Time) {
	stop := ""
	if ev.Stop != nil {
		stop = timecalc.FormatFull(*ev.Stop)
	}
	fmt.Print(styling.Summary([][2]string{
		{"Status", status},
		{"Project", ev.Project},
		{"Duration", timecalc.FormatDuration(ev.DurationAt(now))},
		{"Start", timecalc.FormatFull(ev.Start)},
		{"Stop", stop},
		{"Tags", ev.TagsString()},
		{"Description", ev.Description},
		{"File", st.Path(ev)},
	}))
}
