package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tick/internal/humandate"
	"github.com/Tiliavir/tick/internal/model"
	"github.com/Tiliavir/tick/internal/store"
	"github.com/Tiliavir/tick/internal/timecalc"
)

var (
	editSince  string
	editUntil  string
	editDryRun bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit event(s) in $EDITOR",
	Long: `Open each event started between --since and --until in $EDITOR
(default: vi). The range defaults to the day of the last tracked event.
Edits that change the start time or project move the file to its new
canonical location.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editSince, "since", "", "From what start time (default: day of the last event)")
	editCmd.Flags().StringVar(&editUntil, "until", "", "Until what start time (default: day of the last event)")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "Only show what would be done")
}

func runEdit(cmd *cobra.Command, args []string) error {
	now := time.Now()

	cfg, st, err := newEnv()
	if err != nil {
		return err
	}

	since, until, err := editRange(st, now)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	argv := strings.Fields(editor)
	if len(argv) == 0 {
		return fmt.Errorf("EDITOR is blank")
	}

	events, _ := st.FindInRange(since, until)
	for i := range events {
		ev := &events[i]
		if ev.Start.Before(since) || ev.Start.After(until) {
			continue
		}
		if editDryRun {
			fmt.Printf("%s %s\n", editor, st.Path(ev))
			continue
		}
		if err := editEvent(st, ev, argv, now, cfg.User); err != nil {
			return err
		}
	}
	return nil
}

// editRange resolves the --since/--until flags; without them the range
// covers the day of the last tracked event.
func editRange(st *store.Store, now time.Time) (time.Time, time.Time, error) {
	if editSince == "" && editUntil == "" {
		last, err := st.FindLast()
		if errors.Is(err, store.ErrNoEvents) {
			return time.Time{}, time.Time{}, fmt.Errorf("nothing tracked yet; use \"start\" first")
		}
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timecalc.StartOfDay(last.Start), timecalc.EndOfDay(last.Start), nil
	}

	since, err := humandate.Resolve(editSince, timecalc.StartOfDay(now))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	until, err := humandate.Resolve(editUntil, timecalc.EndOfDay(now))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return since, until, nil
}

// editEvent round-trips one event through the editor via a temp file and
// re-saves it when the result still decodes. Edits that move the event to
// a new canonical path delete the stale file first.
func editEvent(st *store.Store, ev *model.Event, argv []string, now time.Time, user string) error {
	tmp, err := os.CreateTemp("", "tick-edit-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	data, err := model.MarshalRecordIndent(ev.Record(now, user))
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	fmt.Printf("$ %s %q\n", strings.Join(argv, " "), tmp.Name())
	edit := exec.Command(argv[0], append(argv[1:], tmp.Name())...)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return fmt.Errorf("reading edited file: %w", err)
	}
	updated, err := model.UnmarshalRecord(edited)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Skipping %s: edited content does not parse: %v\n", st.Path(ev), err)
		return nil
	}

	// A changed start or project moves the canonical path; remove the
	// stale file so no orphan record is left behind.
	oldPath := st.Path(ev)
	if st.Path(updated) != oldPath {
		if err := st.Delete(ev); err != nil {
			return err
		}
	}
	return st.Save(updated)
}
