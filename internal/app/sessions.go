package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/focuswatch/internal/output"
	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum number of sessions to show")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	sessions, err := db.RecentSessions(cfg.User, sessionsLimit)
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Println(output.Section("Recent Sessions"))
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println(" No sessions recorded yet.")
		return nil
	}

	tbl := output.NewTable("Completed", "Type", "Task", "Length", "Pauses", "Score")
	for _, s := range sessions {
		tbl.AddRow(
			s.CompletedAt.Format("2006-01-02 15:04"),
			string(s.Type),
			s.TaskName,
			fmt.Sprintf("%d min", (s.DurationActual+30)/60),
			fmt.Sprintf("%d", s.PauseCount),
			fmt.Sprintf("%d", s.FocusScore),
		)
	}
	tbl.Print()
	return nil
}
