package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/tracker"
)

var (
	registerProject     string
	registerTags        string
	registerDescription string
	registerStart       string
	registerStop        string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a missed event",
	Long:  `Backfill a completed event that was never tracked live.`,
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerProject, "project", "p", "", "Project name")
	registerCmd.Flags().StringVarP(&registerTags, "tag", "t", "", "Comma-separated tag(s) for the event")
	registerCmd.Flags().StringVarP(&registerDescription, "description", "d", "", "Event description")
	registerCmd.Flags().StringVar(&registerStart, "start", "", "When the event started")
	registerCmd.Flags().StringVar(&registerStop, "stop", "", "When the event stopped")
	_ = registerCmd.MarkFlagRequired("project")
	_ = registerCmd.MarkFlagRequired("description")
	_ = registerCmd.MarkFlagRequired("start")
	_ = registerCmd.MarkFlagRequired("stop")
}

func runRegister(cmd *cobra.Command, args []string) error {
	now := time.Now()

	start, err := humandate.Resolve(registerStart, now)
	if err != nil {
		return err
	}
	stop, err := humandate.Resolve(registerStop, now)
	if err != nil {
		return err
	}

	cfg, st, err := newEnv()
	if err != nil {
		return err
	}

	tr := tracker.New(st, cfg.MinDuration(), cfg.ResumeWindow())
	ev, err := tr.Register(registerProject, registerDescription, splitTags(registerTags), start, stop)
	if err != nil {
		return err
	}

	printEventSummary(st, ev, "Registered", now)
	return nil
}
