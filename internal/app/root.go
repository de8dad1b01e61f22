// Package app contains the Cobra command tree for focuswatch.
package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/focuswatch/internal/config"
	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagConfig  string
	flagUser    string
)

var rootCmd = &cobra.Command{
	Use:   "focuswatch",
	Short: "Focus session tracking with scores, streaks and awards",
	Long: `focuswatch runs countdown focus sessions, scores each one based on
pauses and early stops, folds completed sessions into per-user streaks
and totals, unlocks achievement awards, and reports windowed analytics
over your session history.

Run 'focuswatch' with no arguments to see a quick dashboard summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/focuswatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User id to operate on (default from config)")
}

// setup loads config, applies global output flags, and opens the
// database. Every subcommand goes through here.
func setup() (*config.Config, *store.DB, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color {
		output.SetNoColor(true)
	}
	if flagUser != "" {
		cfg.User = flagUser
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := db.GetUserStats(cfg.User)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	fmt.Println(output.Section("focuswatch " + appVersion))
	fmt.Println()

	if st == nil {
		fmt.Println(" No sessions yet. Use a subcommand:")
		fmt.Println("  timer      Run a countdown focus session")
		fmt.Println("  log        Record an already-completed session")
		fmt.Println("  stats      Show streaks, totals and counters")
		fmt.Println("  analytics  Windowed insights over recent sessions")
		fmt.Println("  awards     Achievement progress and unlocks")
		fmt.Println("  sessions   List recent sessions")
		fmt.Println("  sync       Replay the offline queue")
		return nil
	}

	fmt.Printf(" Sessions:       %d (%d focus minutes total)\n", st.TotalSessions, st.TotalFocusMinutes)
	fmt.Printf(" Streak:         %d day(s), longest %d\n", st.CurrentStreak, st.LongestStreak)
	fmt.Printf(" Perfect scores: %d\n", st.PerfectScoreCount)

	trk := tracker.New(db)
	next, err := trk.NextAward(cfg.User)
	if err != nil {
		return fmt.Errorf("loading award progress: %w", err)
	}
	if next != nil {
		fmt.Printf(" Next award:     %s (%d/%d)\n", next.Name, next.Current, next.Threshold)
	}
	return nil
}
