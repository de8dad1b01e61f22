package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/outbox"
	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
)

func TestReconcileOutbox_MarksRejectedFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outbox.json")
	ob, err := outbox.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	m := timer.Measurement{PlannedSeconds: 1500, ActualSeconds: 1500}
	okID, err := ob.Append(store.TypeTimer, "Deep work", m, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	badID, err := ob.Append(store.TypeTimer, "Reading", m, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if err := reconcileOutbox(ob, ob.Pending(), []string{okID}); err != nil {
		t.Fatal(err)
	}

	// Accepted entry is gone; the rejected one survives carrying the
	// failed state.
	reloaded, err := outbox.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	pending := reloaded.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 entry left, got %d", len(pending))
	}
	if pending[0].ID != badID {
		t.Errorf("kept entry = %s, want %s", pending[0].ID, badID)
	}
	if pending[0].State != outbox.StateFailed {
		t.Errorf("kept entry state = %q, want %q", pending[0].State, outbox.StateFailed)
	}
}
