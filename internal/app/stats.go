package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks, totals and counters",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := db.GetUserStats(cfg.User)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Println(output.Section("Stats: " + cfg.User))
	fmt.Println()

	if st == nil {
		fmt.Println(" No sessions recorded yet.")
		return nil
	}

	tbl := output.NewTable("Metric", "Value")
	tbl.AddRow("Total sessions", fmt.Sprintf("%d", st.TotalSessions))
	tbl.AddRow("Total focus time", fmt.Sprintf("%dh %dm", st.TotalFocusMinutes/60, st.TotalFocusMinutes%60))
	tbl.AddRow("Current streak", fmt.Sprintf("%d day(s)", st.CurrentStreak))
	tbl.AddRow("Longest streak", fmt.Sprintf("%d day(s)", st.LongestStreak))
	tbl.AddRow("Perfect scores", fmt.Sprintf("%d", st.PerfectScoreCount))
	tbl.AddRow("No-pause sessions", fmt.Sprintf("%d", st.NoPauseSessionCount))
	if st.LastActiveDate != nil {
		tbl.AddRow("Last active", st.LastActiveDate.Format("2006-01-02"))
	}
	tbl.Print()
	return nil
}
