package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	prefsDuration int
	prefsSound    string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change default session preferences",
	Long: `Without flags, show the stored defaults. With flags, update them.
Defaults apply to new timer sessions when no explicit duration is given.

Examples:
  focuswatch prefs
  focuswatch prefs --duration 45
  focuswatch prefs --sound rain`,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().IntVar(&prefsDuration, "duration", 0, "Default session duration in minutes")
	prefsCmd.Flags().StringVar(&prefsSound, "sound", "", "Ambient sound id (or 'off')")
	rootCmd.AddCommand(prefsCmd)
}

func runPrefs(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if prefsDuration != 0 || prefsSound != "" {
		if err := db.UpdatePreferences(cfg.User, prefsDuration, prefsSound); err != nil {
			return fmt.Errorf("updating preferences: %w", err)
		}
	}

	st, err := db.GetUserStats(cfg.User)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}
	if st == nil {
		fmt.Println("No preferences stored yet.")
		return nil
	}

	fmt.Printf("Default duration: %d min\n", st.DefaultDuration)
	fmt.Printf("Sound:            %s\n", st.DefaultSound)
	return nil
}
