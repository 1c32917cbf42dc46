package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/store"
	"github.com/Tiliavir/tick/internal/tracker"
)

var stopCmd = &cobra.Command{
	Use:   "stop [at]",
	Short: "Stop tracking time",
	Long: `Stop the open event, optionally at a given moment. Events
shorter than the configured minimum duration are discarded instead of
kept. Stopping when nothing is open does nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	now := time.Now()

	at := ""
	if len(args) > 0 {
		at = args[0]
	}
	stopAt, err := humandate.Resolve(at, now)
	if err != nil {
		return err
	}

	cfg, st, err := newEnv()
	if err != nil {
		return err
	}

	tr := tracker.New(st, cfg.MinDuration(), cfg.ResumeWindow())
	ev, status, err := tr.Stop(stopAt)
	if errors.Is(err, store.ErrNoEvents) {
		return fmt.Errorf("nothing tracked yet; use \"start\" first")
	}
	if err != nil {
		return err
	}

	printEventSummary(st, ev, string(status), now)
	return nil
}
