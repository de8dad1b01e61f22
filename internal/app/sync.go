package app

import (
	"fmt"

	"github.com/blackwell-systems/focuswatch/internal/outbox"
	"github.com/blackwell-systems/focuswatch/internal/tracker"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replay the offline queue",
	Long: `Replay sessions queued with --offline through the recording pipeline.
Accepted entries are removed from the queue; rejected entries stay
behind for inspection. Original completion times are preserved.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ob, err := outbox.Load(cfg.OutboxPath())
	if err != nil {
		return fmt.Errorf("loading outbox: %w", err)
	}

	pending := ob.Pending()
	if len(pending) == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}

	trk := tracker.New(db)
	accepted, err := trk.SyncOffline(cfg.User, pending)
	if err != nil {
		return fmt.Errorf("syncing: %w", err)
	}

	if err := reconcileOutbox(ob, pending, accepted); err != nil {
		return fmt.Errorf("updating outbox: %w", err)
	}

	fmt.Printf("Synced %d of %d queued session(s).\n", len(accepted), len(pending))
	if rest := len(pending) - len(accepted); rest > 0 {
		fmt.Printf("%d entry(ies) were rejected and kept in the queue.\n", rest)
	}
	return nil
}

// reconcileOutbox records the sync outcome: accepted entries are marked
// and dropped, everything else attempted is marked failed so rejected
// entries are distinguishable from never-attempted ones.
func reconcileOutbox(ob *outbox.Outbox, attempted []outbox.Entry, accepted []string) error {
	acceptedSet := make(map[string]bool, len(accepted))
	for _, id := range accepted {
		acceptedSet[id] = true
	}
	var rejected []string
	for _, e := range attempted {
		if !acceptedSet[e.ID] {
			rejected = append(rejected, e.ID)
		}
	}

	if err := ob.MarkAccepted(accepted); err != nil {
		return err
	}
	if err := ob.MarkFailed(rejected); err != nil {
		return err
	}
	return ob.ClearAccepted()
}
