// Package stats derives per-user rolling statistics from completed
// sessions: streaks, totals, and perfect/no-pause counters.
package stats

import (
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
)

// NewUserStats returns a zeroed stats row for a user with default
// preferences applied.
func NewUserStats(userID string) *store.UserStats {
	return &store.UserStats{
		UserID:          userID,
		DefaultDuration: 25,
		DefaultSound:    "off",
	}
}

// Apply folds one completed session into the user's stats. The streak
// is bucketed by the calendar day of now (write time), not the
// session's own completion timestamp, matching the recorded behavior
// even for backfilled offline sessions.
//
// Streak rules, comparing now's day to the stored last-active day:
//   - last active yesterday: streak extends by one
//   - last active before yesterday: streak resets to 1
//   - last active today: streak unchanged
//   - no prior activity: streak starts at 1
func Apply(st *store.UserStats, s *store.Session, now time.Time) {
	today := dayOf(now)

	if st.LastActiveDate != nil {
		lastActive := dayOf(*st.LastActiveDate)
		yesterday := today.AddDate(0, 0, -1)

		if lastActive.Equal(yesterday) {
			st.CurrentStreak++
		} else if lastActive.Before(yesterday) {
			st.CurrentStreak = 1
		}
		// Same day: streak unchanged.
	} else {
		st.CurrentStreak = 1
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}

	st.TotalSessions++
	st.TotalFocusMinutes += roundMinutes(s.DurationActual)
	if s.FocusScore == 100 {
		st.PerfectScoreCount++
	}
	if s.PauseCount == 0 {
		st.NoPauseSessionCount++
	}

	active := now
	st.LastActiveDate = &active
}

// dayOf truncates a time to midnight in its own location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundMinutes converts seconds to minutes, rounding half up.
func roundMinutes(seconds int) int {
	return (seconds + 30) / 60
}
