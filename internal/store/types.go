// Package store provides SQLite database access for focuswatch sessions,
// per-user statistics, and award unlocks.
package store

import "time"

// SessionType identifies the kind of focus session.
type SessionType string

// Session types.
const (
	TypeTimer   SessionType = "TIMER"   // single countdown timer
	TypeBento   SessionType = "BENTO"   // one task slice of a multi-task box
	TypeRoutine SessionType = "ROUTINE" // routine step
)

// Session is one completed unit of focused work. Created once at
// completion time and immutable thereafter.
type Session struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Type            SessionType `json:"type"`
	TaskName        string      `json:"task_name"`
	DurationPlanned int         `json:"duration_planned"` // seconds
	DurationActual  int         `json:"duration_actual"`  // seconds
	PauseCount      int         `json:"pause_count"`
	FocusScore      int         `json:"focus_score"` // 0-100
	CompletedAt     time.Time   `json:"completed_at"`

	// GroupID and GroupIndex tie together the 2-3 sibling rows of a
	// multi-task (bento) session. Empty/zero for standalone sessions.
	GroupID    string `json:"group_id,omitempty"`
	GroupIndex int    `json:"group_index,omitempty"`
}

// UserStats is the per-user rolling statistics row, lazily created on
// the first completed session.
type UserStats struct {
	UserID              string     `json:"user_id"`
	TotalSessions       int        `json:"total_sessions"`
	TotalFocusMinutes   int        `json:"total_focus_minutes"`
	CurrentStreak       int        `json:"current_streak"` // days
	LongestStreak       int        `json:"longest_streak"` // days
	LastActiveDate      *time.Time `json:"last_active_date,omitempty"`
	PerfectScoreCount   int        `json:"perfect_score_count"`
	NoPauseSessionCount int        `json:"no_pause_session_count"`

	// Default preferences; not involved in scoring.
	DefaultDuration int    `json:"default_duration"` // minutes
	DefaultSound    string `json:"default_sound"`
}

// AwardUnlock records that a user unlocked an award. One row per
// (user, award type), enforced by a uniqueness constraint.
type AwardUnlock struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	AwardType  string    `json:"award_type"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// SessionFilter narrows session counting queries. Zero-valued fields
// are ignored; pointer fields apply when non-nil.
type SessionFilter struct {
	Type       SessionType
	MinScore   *int
	ExactScore *int
	MinPauses  *int
	MaxPauses  *int
	MinActual  *int // seconds
	MaxActual  *int // seconds
}
