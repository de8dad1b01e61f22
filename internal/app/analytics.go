package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/focuswatch/internal/analytics"
	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/blackwell-systems/focuswatch/internal/score"
	"github.com/spf13/cobra"
)

var analyticsWindow int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Windowed insights over recent sessions",
	Long: `Compute the full analytics report for a user: session distribution,
average score, week-over-week trend, peak focus window, duration sweet
spot, average session length and trailing-30-day focus time.

The window controls how many recent sessions feed the distribution and
average score. Valid sizes are 25, 50 and 100.`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVarP(&analyticsWindow, "window", "w", 0, "Window size: 25, 50 or 100 (default from config)")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	window := analyticsWindow
	if window == 0 {
		window = cfg.AnalyticsWindow
	}

	eng := analytics.NewEngine(db)
	report, err := eng.BuildReport(cfg.User, window)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderReport(cfg.User, report)
	return nil
}

func renderReport(userID string, r *analytics.Report) {
	fmt.Println(output.Section(fmt.Sprintf("Analytics: %s (last %d sessions)", userID, r.Window)))
	fmt.Println()

	total := r.Distribution.Timer + r.Distribution.Bento + r.Distribution.Routine
	if total == 0 {
		fmt.Println(" No sessions in window yet.")
		return
	}

	tbl := output.NewTable("Type", "Sessions")
	tbl.AddRow("Timer", fmt.Sprintf("%d", r.Distribution.Timer))
	tbl.AddRow("Bento", fmt.Sprintf("%d", r.Distribution.Bento))
	tbl.AddRow("Routine", fmt.Sprintf("%d", r.Distribution.Routine))
	tbl.Print()
	fmt.Println()

	fmt.Printf(" Average score:  %d (%s)  %s\n", r.AverageScore,
		score.BandFor(r.AverageScore), output.ScoreBar(float64(r.AverageScore), 20))
	fmt.Printf(" Weekly trend:   %d vs %d %s\n", r.Trend.CurrentWeek, r.Trend.PreviousWeek,
		output.TrendArrowPercent(float64(r.Trend.Change), true))

	if r.PeakWindow != nil {
		fmt.Printf(" Peak window:    %s (avg score %d)\n", r.PeakWindow.Label, r.PeakWindow.Score)
	}
	if r.SweetSpot != nil {
		fmt.Printf(" Sweet spot:     %s sessions (avg score %d)\n", r.SweetSpot.Label, r.SweetSpot.Score)
	}
	fmt.Printf(" Average length: %d min\n", r.AverageLength)
	fmt.Printf(" Last 30 days:   %dh %dm focused\n", r.MonthlyTotal.Hours, r.MonthlyTotal.Minutes)
}
