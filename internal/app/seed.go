package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var seedDays int

var seedCmd = &cobra.Command{
	Use:    "seed",
	Short:  "Populate the database with demo sessions",
	Hidden: true,
	RunE:   runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedDays, "days", 14, "Number of past days to fill")
	rootCmd.AddCommand(seedCmd)
}

var seedTasks = []string{
	"Deep work", "Writing", "Code review", "Reading", "Planning", "Inbox zero",
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Fixed seed keeps repeated runs comparable.
	rng := rand.New(rand.NewSource(42))
	trk := tracker.New(db)

	durations := []int{15, 25, 25, 35, 45} // minutes, weighted toward 25
	hours := []int{7, 10, 14, 16, 20}

	created := 0
	for d := seedDays - 1; d >= 0; d-- {
		day := time.Now().AddDate(0, 0, -d)
		// Occasional day off so streaks reset realistically.
		if d != 0 && rng.Intn(7) == 0 {
			continue
		}

		for n := 0; n < 1+rng.Intn(3); n++ {
			at := time.Date(day.Year(), day.Month(), day.Day(),
				hours[rng.Intn(len(hours))], rng.Intn(60), 0, 0, time.Local)

			planned := durations[rng.Intn(len(durations))] * 60
			actual := planned
			interrupted := rng.Intn(8) == 0
			if interrupted {
				actual = planned * (5 + rng.Intn(4)) / 10
			}

			m := timer.Measurement{
				PlannedSeconds: planned,
				ActualSeconds:  actual,
				PauseCount:     rng.Intn(4) * rng.Intn(2), // mostly zero
				WasInterrupted: interrupted,
			}

			// Anchor the streak logic to the session's own day.
			trk.SetClock(func() time.Time { return at })
			_, err := trk.SubmitCompletedSession(cfg.User, m, tracker.TaskMeta{
				Type:        store.TypeTimer,
				TaskName:    seedTasks[rng.Intn(len(seedTasks))],
				CompletedAt: at,
			})
			if err != nil {
				return fmt.Errorf("seeding session: %w", err)
			}
			created++
		}
	}

	fmt.Printf("Seeded %d session(s) across %d day(s) for %s.\n", created, seedDays, cfg.User)
	return nil
}
