package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current time tracking status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	_, st, err := newEnv()
	if err != nil {
		return err
	}

	last, err := st.FindLast()
	if errors.Is(err, store.ErrNoEvents) {
		return fmt.Errorf("nothing tracked yet; use \"start\" first")
	}
	if err != nil {
		return err
	}

	status := "Stopped"
	if last.Open() {
		status = "Tracking"
	}
	printEventSummary(st, last, status, now)
	return nil
}
