// Package tracker runs the completed-session pipeline: validate and
// score a measurement, persist the session, fold it into the user's
// stats, and evaluate award unlocks. Submissions are serialized per
// user so concurrent completions cannot lose a stats update.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/award"
	"github.com/blackwell-systems/focuswatch/internal/outbox"
	"github.com/blackwell-systems/focuswatch/internal/score"
	"github.com/blackwell-systems/focuswatch/internal/stats"
	"github.com/blackwell-systems/focuswatch/internal/store"
	"github.com/blackwell-systems/focuswatch/internal/timer"
	"github.com/google/uuid"
)

// ErrInvalidMeasurement rejects malformed measurements before they
// enter the pipeline.
var ErrInvalidMeasurement = errors.New("invalid session measurement")

// TaskMeta describes the task a measurement belongs to.
type TaskMeta struct {
	Type     store.SessionType
	TaskName string

	// CompletedAt is the session's completion time. Zero means "now",
	// which is the common case for live submissions; offline replays
	// carry the historical timestamp.
	CompletedAt time.Time

	// GroupID and GroupIndex tie multi-task siblings together; set by
	// SubmitGroup, empty otherwise.
	GroupID    string
	GroupIndex int
}

// GroupTask is one slice of a multi-task submission.
type GroupTask struct {
	TaskName    string
	Measurement timer.Measurement
}

// Result is the outcome of one pipeline run.
type Result struct {
	Session  *store.Session
	Stats    *store.UserStats
	Unlocked []award.Type
}

// Tracker owns the submission pipeline.
type Tracker struct {
	db     *store.DB
	awards *award.Engine
	clock  func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user submission locks
}

// New creates a Tracker over the given store.
func New(db *store.DB) *Tracker {
	return &Tracker{
		db:     db,
		awards: award.NewEngine(db, db),
		clock:  time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the tracker's notion of now, for tests.
func (t *Tracker) SetClock(clock func() time.Time) {
	t.clock = clock
	t.awards.SetClock(clock)
}

// SubmitCompletedSession runs one measurement through the full
// pipeline and returns the created session, the stats after the
// update, and any awards newly unlocked by it.
func (t *Tracker) SubmitCompletedSession(userID string, m timer.Measurement, meta TaskMeta) (*Result, error) {
	if err := validate(m); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidMeasurement)
	}

	lock := t.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return t.submitLocked(userID, m, meta)
}

// SubmitGroup persists a 2-3 task multi-task session: sibling rows
// sharing a fresh group id, each independently scored and run through
// the full pipeline in index order.
func (t *Tracker) SubmitGroup(userID string, tasks []GroupTask) (string, []*Result, error) {
	if len(tasks) < 2 || len(tasks) > 3 {
		return "", nil, fmt.Errorf("%w: a group holds 2-3 tasks, got %d", ErrInvalidMeasurement, len(tasks))
	}
	for _, task := range tasks {
		if err := validate(task.Measurement); err != nil {
			return "", nil, err
		}
	}

	lock := t.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	groupID := uuid.NewString()
	results := make([]*Result, 0, len(tasks))
	for i, task := range tasks {
		res, err := t.submitLocked(userID, task.Measurement, TaskMeta{
			Type:       store.TypeBento,
			TaskName:   task.TaskName,
			GroupID:    groupID,
			GroupIndex: i,
		})
		if err != nil {
			return groupID, results, fmt.Errorf("task %d: %w", i, err)
		}
		results = append(results, res)
	}
	return groupID, results, nil
}

// SyncOffline replays queued measurements through the pipeline in
// their original order and returns the ids of entries that were
// accepted. A failing entry is skipped, not fatal; the caller keeps
// unaccepted entries queued for a future attempt. The streak is
// recomputed sequentially, one entry at a time.
func (t *Tracker) SyncOffline(userID string, entries []outbox.Entry) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidMeasurement)
	}

	lock := t.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var accepted []string
	for _, entry := range entries {
		if err := validate(entry.Measurement); err != nil {
			continue
		}
		if _, err := t.submitLocked(userID, entry.Measurement, TaskMeta{
			Type:        entry.Type,
			TaskName:    entry.TaskName,
			CompletedAt: entry.CompletedAt,
			GroupID:     entry.GroupID,
			GroupIndex:  entry.GroupIndex,
		}); err != nil {
			continue
		}
		accepted = append(accepted, entry.ID)
	}
	return accepted, nil
}

// AwardProgress reports the user's standing against every award.
func (t *Tracker) AwardProgress(userID string) ([]award.Progress, error) {
	return t.awards.AllProgress(userID)
}

// NextAward returns the locked award closest to unlocking, or nil.
func (t *Tracker) NextAward(userID string) (*award.Progress, error) {
	return t.awards.NextAward(userID)
}

// submitLocked runs the pipeline body. The caller holds the user lock.
func (t *Tracker) submitLocked(userID string, m timer.Measurement, meta TaskMeta) (*Result, error) {
	now := t.clock()

	completedAt := meta.CompletedAt
	if completedAt.IsZero() {
		completedAt = now
	}

	typ := meta.Type
	if typ == "" {
		typ = store.TypeTimer
	}
	taskName := meta.TaskName
	if taskName == "" {
		taskName = "Focus Session"
	}

	session := &store.Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            typ,
		TaskName:        taskName,
		DurationPlanned: m.PlannedSeconds,
		DurationActual:  m.ActualSeconds,
		PauseCount:      m.PauseCount,
		FocusScore:      score.Calculate(m.PlannedSeconds, m.ActualSeconds, m.PauseCount, m.WasInterrupted),
		CompletedAt:     completedAt,
		GroupID:         meta.GroupID,
		GroupIndex:      meta.GroupIndex,
	}

	userStats, err := t.db.GetUserStats(userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}
	if userStats == nil {
		userStats = stats.NewUserStats(userID)
	}

	// The streak buckets by the write-time day, not the session's own
	// completion day, even for backfilled offline sessions.
	stats.Apply(userStats, session, now)

	if err := t.db.CreateSessionWithStats(session, userStats); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	unlocked, err := t.awards.Evaluate(userID)
	if err != nil {
		return nil, fmt.Errorf("evaluating awards: %w", err)
	}

	return &Result{Session: session, Stats: userStats, Unlocked: unlocked}, nil
}

// userLock returns the submission mutex for a user, creating it on
// first use.
func (t *Tracker) userLock(userID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[userID] = lock
	}
	return lock
}

func validate(m timer.Measurement) error {
	if m.PlannedSeconds < 0 {
		return fmt.Errorf("%w: negative planned duration", ErrInvalidMeasurement)
	}
	if m.ActualSeconds < 0 {
		return fmt.Errorf("%w: negative actual duration", ErrInvalidMeasurement)
	}
	if m.PauseCount < 0 {
		return fmt.Errorf("%w: negative pause count", ErrInvalidMeasurement)
	}
	return nil
}
