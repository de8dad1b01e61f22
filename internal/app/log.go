package app

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/outbox"
	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	logMinutes     int
	logActual      int
	logPauses      int
	logInterrupted bool
	logTask        string
	logType        string
	logAt          string
	logOffline     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record an already-completed session",
	Long: `Record a session that was timed elsewhere. The measurement runs through
the same scoring and stats pipeline as a live timer.

Examples:
  focuswatch log -m 25                          # full 25 minute session
  focuswatch log -m 25 --actual 18 --stopped    # stopped early at 18 min
  focuswatch log -m 45 --pauses 2 --task "Deep work"
  focuswatch log -m 25 --at 2026-08-28T09:30:00Z`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logMinutes, "minutes", "m", 25, "Planned duration in minutes")
	logCmd.Flags().IntVar(&logActual, "actual", 0, "Actual focused minutes (default: planned)")
	logCmd.Flags().IntVar(&logPauses, "pauses", 0, "Number of pauses taken")
	logCmd.Flags().BoolVar(&logInterrupted, "stopped", false, "Session was stopped before the timer ran out")
	logCmd.Flags().StringVar(&logTask, "task", "", "Task name")
	logCmd.Flags().StringVar(&logType, "type", "TIMER", "Session type (TIMER, BENTO, ROUTINE)")
	logCmd.Flags().StringVar(&logAt, "at", "", "Completion time as RFC3339 (default: now)")
	logCmd.Flags().BoolVar(&logOffline, "offline", false, "Queue the session locally instead of recording it")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	actual := logActual
	if actual == 0 {
		actual = logMinutes
	}
	m := timer.Measurement{
		PlannedSeconds: logMinutes * 60,
		ActualSeconds:  actual * 60,
		PauseCount:     logPauses,
		WasInterrupted: logInterrupted,
	}

	var completedAt time.Time
	if logAt != "" {
		completedAt, err = time.Parse(time.RFC3339, logAt)
		if err != nil {
			return fmt.Errorf("invalid --at time %q: %w", logAt, err)
		}
	}

	typ := store.SessionType(logType)
	switch typ {
	case store.TypeTimer, store.TypeBento, store.TypeRoutine:
	default:
		return fmt.Errorf("unknown session type %q", logType)
	}

	if logOffline {
		ob, err := outbox.Load(cfg.OutboxPath())
		if err != nil {
			return fmt.Errorf("loading outbox: %w", err)
		}
		at := completedAt
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := ob.Append(typ, logTask, m, at); err != nil {
			return fmt.Errorf("queueing session: %w", err)
		}
		fmt.Println("Queued. Run 'focuswatch sync' when back online.")
		return nil
	}

	trk := tracker.New(db)
	res, err := trk.SubmitCompletedSession(cfg.User, m, tracker.TaskMeta{
		Type:        typ,
		TaskName:    logTask,
		CompletedAt: completedAt,
	})
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}

	renderResult(res)
	return nil
}
