// Package outbox holds completed session measurements recorded while
// the user could not reach the durable store, queued for a later
// replay through the submission pipeline. Each entry carries an
// explicit state so a partial sync can retry only what failed.
package outbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
	"github.com/google/uuid"
)

// EntryState is the sync lifecycle state of one queued measurement.
type EntryState string

// Entry states.
const (
	StatePending  EntryState = "pending"
	StateAccepted EntryState = "accepted"
	StateFailed   EntryState = "failed"
)

// Entry is one queued measurement. ID is generated locally and doubles
// as the caller-side idempotency key; the submission pipeline itself
// does not dedup on it, so replaying an entry the server already
// accepted counts the session twice. Callers must mark entries
// accepted before retrying the remainder.
type Entry struct {
	ID          string            `json:"id"`
	Type        store.SessionType `json:"type"`
	TaskName    string            `json:"task_name"`
	Measurement timer.Measurement `json:"measurement"`
	CompletedAt time.Time         `json:"completed_at"`
	GroupID     string            `json:"group_id,omitempty"`
	GroupIndex  int               `json:"group_index,omitempty"`
	State       EntryState        `json:"state"`
}

// Outbox is a file-backed queue of entries. It is not safe for
// concurrent use from multiple processes.
type Outbox struct {
	path    string
	entries []Entry
}

// Load reads the outbox file at path, creating an empty outbox when
// the file does not exist yet.
func Load(path string) (*Outbox, error) {
	ob := &Outbox{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ob, nil
		}
		return nil, fmt.Errorf("reading outbox: %w", err)
	}

	if err := json.Unmarshal(data, &ob.entries); err != nil {
		return nil, fmt.Errorf("parsing outbox: %w", err)
	}
	return ob, nil
}

// Append queues a new pending entry and persists the outbox. The
// generated entry id is returned.
func (ob *Outbox) Append(typ store.SessionType, taskName string, m timer.Measurement, completedAt time.Time) (string, error) {
	entry := Entry{
		ID:          uuid.NewString(),
		Type:        typ,
		TaskName:    taskName,
		Measurement: m,
		CompletedAt: completedAt,
		State:       StatePending,
	}
	ob.entries = append(ob.entries, entry)
	if err := ob.save(); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// Pending returns the queued entries awaiting sync, in append order.
func (ob *Outbox) Pending() []Entry {
	var pending []Entry
	for _, e := range ob.entries {
		if e.State == StatePending || e.State == StateFailed {
			pending = append(pending, e)
		}
	}
	return pending
}

// Len returns the total number of entries, in any state.
func (ob *Outbox) Len() int { return len(ob.entries) }

// MarkAccepted flips the given entries to accepted and persists.
// Unknown ids are ignored.
func (ob *Outbox) MarkAccepted(ids []string) error {
	return ob.mark(ids, StateAccepted)
}

// MarkFailed flips the given entries to failed and persists. Failed
// entries stay in the queue and are retried on the next sync.
func (ob *Outbox) MarkFailed(ids []string) error {
	return ob.mark(ids, StateFailed)
}

// ClearAccepted drops accepted entries from the file, keeping pending
// and failed ones for a future attempt.
func (ob *Outbox) ClearAccepted() error {
	kept := ob.entries[:0]
	for _, e := range ob.entries {
		if e.State != StateAccepted {
			kept = append(kept, e)
		}
	}
	ob.entries = kept
	return ob.save()
}

func (ob *Outbox) mark(ids []string, state EntryState) error {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for i := range ob.entries {
		if _, ok := idSet[ob.entries[i].ID]; ok {
			ob.entries[i].State = state
		}
	}
	return ob.save()
}

func (ob *Outbox) save() error {
	if err := os.MkdirAll(filepath.Dir(ob.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ob.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ob.path, data, 0o644)
}
