package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/config"
	"github.com/blackwell-systems/focuswatch/internal/outbox"
	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	timerMinutes int
	timerTasks   []string
	timerOffline bool
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run a countdown focus session",
	Long: `Run an interactive countdown. Type a command and press enter while the
timer runs:

  p    pause
  r    resume
  s    stop early (counts as interrupted)

Pass --task more than once (2-3 times) to run a multi-task box: each
task gets its own countdown and the results are stored as one group.

Examples:
  focuswatch timer                         # default duration, single task
  focuswatch timer -m 45 --task "Writing"  # 45 minute session
  focuswatch timer --task Plan --task Code # two-task box
  focuswatch timer --offline               # queue locally, sync later`,
	RunE: runTimer,
}

func init() {
	timerCmd.Flags().IntVarP(&timerMinutes, "minutes", "m", 0, "Planned duration in minutes (default from config)")
	timerCmd.Flags().StringArrayVar(&timerTasks, "task", nil, "Task name; repeat for a 2-3 task box")
	timerCmd.Flags().BoolVar(&timerOffline, "offline", false, "Queue the result locally instead of recording it")
	rootCmd.AddCommand(timerCmd)
}

func runTimer(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	minutes := timerMinutes
	if minutes <= 0 {
		minutes = cfg.DefaultDuration
	}
	if minutes <= 0 {
		minutes = config.DefaultDurationMinutes
	}

	tasks := timerTasks
	if len(tasks) == 0 {
		tasks = []string{"Focus Session"}
	}
	if len(tasks) > 3 {
		return fmt.Errorf("a box holds at most 3 tasks, got %d", len(tasks))
	}

	// One stdin reader for the whole run. A reader per countdown would
	// leave the previous task's goroutine competing for lines and
	// swallowing commands meant for the current one.
	lines := make(chan string)
	go readCommands(lines)

	// Run one countdown per task, collecting measurements.
	var measured []tracker.GroupTask
	for i, task := range tasks {
		if len(tasks) > 1 {
			fmt.Printf("\nTask %d of %d: %s\n", i+1, len(tasks), task)
		}
		m, err := runCountdown(minutes*60, task, lines)
		if err != nil {
			return err
		}
		measured = append(measured, tracker.GroupTask{TaskName: task, Measurement: *m})
	}

	if timerOffline {
		return queueOffline(cfg, measured)
	}

	trk := tracker.New(db)
	if len(measured) == 1 {
		res, err := trk.SubmitCompletedSession(cfg.User, measured[0].Measurement, tracker.TaskMeta{
			TaskName: measured[0].TaskName,
		})
		if err != nil {
			return fmt.Errorf("recording session: %w", err)
		}
		renderResult(res)
		return nil
	}

	_, results, err := trk.SubmitGroup(cfg.User, measured)
	if err != nil {
		return fmt.Errorf("recording box: %w", err)
	}
	for _, res := range results {
		renderResult(res)
	}
	return nil
}

// readCommands forwards trimmed stdin lines for the life of the process.
func readCommands(lines chan<- string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lines <- strings.TrimSpace(sc.Text())
	}
}

// runCountdown drives one engine to completion, reading pause/resume/stop
// commands from lines and treating SIGINT as an early stop.
func runCountdown(plannedSeconds int, taskName string, lines <-chan string) (*timer.Measurement, error) {
	eng := timer.New(plannedSeconds, timer.SystemClock())
	eng.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	printCountdown(taskName, eng, eng.Remaining())

	for {
		select {
		case <-tick.C:
			remaining := eng.Tick()
			printCountdown(taskName, eng, remaining)
			if eng.State() == timer.StateCompleted {
				fmt.Println()
				return eng.Result(), nil
			}
		case line := <-lines:
			switch line {
			case "p":
				eng.Pause()
				printCountdown(taskName, eng, eng.Remaining())
			case "r":
				eng.Resume()
				printCountdown(taskName, eng, eng.Remaining())
			case "s":
				eng.StopEarly()
				fmt.Println()
				return eng.Result(), nil
			}
		case <-sigCh:
			eng.StopEarly()
			fmt.Println()
			return eng.Result(), nil
		}
	}
}

// printCountdown rewrites the single status line in place.
func printCountdown(taskName string, eng *timer.Engine, remaining int) {
	state := ""
	if eng.State() == timer.StatePaused {
		state = "  [paused]"
	}
	fmt.Printf("\r %s  %02d:%02d%s    ", taskName, remaining/60, remaining%60, state)
}

// queueOffline appends measurements to the local outbox instead of
// recording them.
func queueOffline(cfg *config.Config, tasks []tracker.GroupTask) error {
	ob, err := outbox.Load(cfg.OutboxPath())
	if err != nil {
		return fmt.Errorf("loading outbox: %w", err)
	}
	typ := store.TypeTimer
	if len(tasks) > 1 {
		typ = store.TypeBento
	}
	for _, gt := range tasks {
		if _, err := ob.Append(typ, gt.TaskName, gt.Measurement, time.Now()); err != nil {
			return fmt.Errorf("queueing session: %w", err)
		}
	}
	fmt.Printf("Queued %d session(s). Run 'focuswatch sync' when back online.\n", len(tasks))
	return nil
}

// renderResult prints the outcome of one recorded session.
func renderResult(res *tracker.Result) {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}

	s := res.Session
	fmt.Println()
	fmt.Println(output.Section("Session Recorded"))
	fmt.Println()
	fmt.Printf(" %s\n", s.TaskName)
	fmt.Printf(" Score:  %d/100  %s\n", s.FocusScore, output.ScoreBar(float64(s.FocusScore), 20))
	fmt.Printf(" Time:   %d min focused, %d pause(s)\n", (s.DurationActual+30)/60, s.PauseCount)
	fmt.Printf(" Streak: %d day(s)\n", res.Stats.CurrentStreak)
	for _, a := range res.Unlocked {
		fmt.Printf(" Award unlocked: %s\n", a)
	}
}
