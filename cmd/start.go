package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/tracker"
)

var (
	startProject     string
	startTags        string
	startDescription string
	startNoResume    bool
)

var startCmd = &cobra.Command{
	Use:   "start [at]",
	Short: "Start tracking time",
	Long: `Start tracking time, optionally at a given moment ("08:00",
"2026-09-01T08:00", "now"). An open event for another project is stopped
first; restarting a project shortly after stopping it resumes the
stopped event.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startProject, "project", "p", "", "Project name")
	startCmd.Flags().StringVarP(&startTags, "tag", "t", "", "Comma-separated tag(s) for the event")
	startCmd.Flags().StringVarP(&startDescription, "description", "d", "", "Event description")
	startCmd.Flags().BoolVar(&startNoResume, "no-resume", false, "Always create a new event, never resume")
}

func runStart(cmd *cobra.Command, args []string) error {
	now := time.Now()

	at := ""
	if len(args) > 0 {
		at = args[0]
	}
	startAt, err := humandate.Resolve(at, now)
	if err != nil {
		return err
	}

	cfg, st, err := newEnv()
	if err != nil {
		return err
	}

	project := startProject
	if project == "" {
		project = cfg.DefaultProject
	}
	window := cfg.ResumeWindow()
	if startNoResume {
		window = 0
	}

	tr := tracker.New(st, cfg.MinDuration(), window)
	ev, status, err := tr.Start(project, startDescription, splitTags(startTags), startAt)
	if err != nil {
		return err
	}

	printEventSummary(st, ev, string(status), now)
	return nil
}
