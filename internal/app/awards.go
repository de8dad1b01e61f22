package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var awardsNext bool

var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "Achievement progress and unlocks",
	RunE:  runAwards,
}

func init() {
	awardsCmd.Flags().BoolVar(&awardsNext, "next", false, "Show only the closest locked award")
	rootCmd.AddCommand(awardsCmd)
}

func runAwards(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	trk := tracker.New(db)

	if awardsNext {
		next, err := trk.NextAward(cfg.User)
		if err != nil {
			return fmt.Errorf("loading award progress: %w", err)
		}
		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(next)
		}
		if next == nil {
			fmt.Println("All awards unlocked.")
			return nil
		}
		fmt.Printf("%s: %s (%d/%d, %.0f%%)\n", next.Name, next.Description,
			next.Current, next.Threshold, next.ProgressPct)
		return nil
	}

	progress, err := trk.AwardProgress(cfg.User)
	if err != nil {
		return fmt.Errorf("loading award progress: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(progress)
	}

	fmt.Println(output.Section("Awards: " + cfg.User))
	fmt.Println()

	tbl := output.NewTable("Award", "Progress", "Status")
	for _, p := range progress {
		status := fmt.Sprintf("%d/%d", p.Current, p.Threshold)
		if p.Unlocked {
			status = "unlocked"
			if p.UnlockedAt != nil {
				status = "unlocked " + p.UnlockedAt.Format("2006-01-02")
			}
		}
		tbl.AddRow(p.Name, output.ScoreBar(p.ProgressPct, 12), status)
	}
	tbl.Print()
	return nil
}
