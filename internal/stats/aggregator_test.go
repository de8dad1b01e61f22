package stats

import (
	"testing"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
)

func session(score, pauses, actualSeconds int) *store.Session {
	return &store.Session{
		ID:              "s1",
		UserID:          "u1",
		Type:            store.TypeTimer,
		TaskName:        "Deep Work",
		DurationPlanned: actualSeconds,
		DurationActual:  actualSeconds,
		PauseCount:      pauses,
		FocusScore:      score,
	}
}

func TestApply_FirstSessionStartsStreak(t *testing.T) {
	st := NewUserStats("u1")
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	Apply(st, session(100, 0, 1500), now)

	if st.CurrentStreak != 1 || st.LongestStreak != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", st.CurrentStreak, st.LongestStreak)
	}
	if st.TotalSessions != 1 {
		t.Errorf("expected 1 session, got %d", st.TotalSessions)
	}
	if st.TotalFocusMinutes != 25 {
		t.Errorf("expected 25 minutes, got %d", st.TotalFocusMinutes)
	}
	if st.LastActiveDate == nil || !st.LastActiveDate.Equal(now) {
		t.Errorf("expected last active %v, got %v", now, st.LastActiveDate)
	}
}

func TestApply_ConsecutiveDaysExtendStreak(t *testing.T) {
	st := NewUserStats("u1")
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for day := 0; day < 5; day++ {
		Apply(st, session(90, 1, 1500), start.AddDate(0, 0, day))
	}

	if st.CurrentStreak != 5 {
		t.Errorf("expected streak 5, got %d", st.CurrentStreak)
	}
	if st.LongestStreak != 5 {
		t.Errorf("expected longest 5, got %d", st.LongestStreak)
	}
}

func TestApply_SameDayLeavesStreakUnchanged(t *testing.T) {
	st := NewUserStats("u1")
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Apply(st, session(100, 0, 1500), now)
	Apply(st, session(100, 0, 1500), now.Add(3*time.Hour))
	Apply(st, session(100, 0, 1500), now.Add(8*time.Hour))

	if st.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", st.CurrentStreak)
	}
	if st.TotalSessions != 3 {
		t.Errorf("expected 3 sessions, got %d", st.TotalSessions)
	}
}

func TestApply_GapResetsStreakToOne(t *testing.T) {
	st := NewUserStats("u1")
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Apply(st, session(100, 0, 1500), start)
	Apply(st, session(100, 0, 1500), start.AddDate(0, 0, 1))
	Apply(st, session(100, 0, 1500), start.AddDate(0, 0, 2))
	// Two-day gap.
	Apply(st, session(100, 0, 1500), start.AddDate(0, 0, 5))

	if st.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Errorf("expected longest 3, got %d", st.LongestStreak)
	}
}

func TestApply_LongestStreakIsMaxEverObserved(t *testing.T) {
	st := NewUserStats("u1")
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	maxSeen := 0
	days := []int{0, 1, 2, 3, 7, 8, 9, 15}
	for _, day := range days {
		Apply(st, session(100, 0, 1500), start.AddDate(0, 0, day))
		if st.CurrentStreak > maxSeen {
			maxSeen = st.CurrentStreak
		}
		if st.LongestStreak != maxSeen {
			t.Fatalf("day %d: longest %d != max observed %d", day, st.LongestStreak, maxSeen)
		}
	}
	if st.LongestStreak != 4 {
		t.Errorf("expected longest 4, got %d", st.LongestStreak)
	}
}

func TestApply_Counters(t *testing.T) {
	st := NewUserStats("u1")
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Apply(st, session(100, 0, 1500), now) // perfect and no pause
	Apply(st, session(100, 2, 1500), now) // counter keys on score only
	Apply(st, session(75, 0, 1500), now)  // no pause, not perfect
	Apply(st, session(55, 3, 1500), now)

	if st.PerfectScoreCount != 2 {
		t.Errorf("expected 2 perfect scores, got %d", st.PerfectScoreCount)
	}
	if st.NoPauseSessionCount != 2 {
		t.Errorf("expected 2 no-pause sessions, got %d", st.NoPauseSessionCount)
	}
	if st.TotalSessions != 4 {
		t.Errorf("expected 4 sessions, got %d", st.TotalSessions)
	}
}

func TestApply_MinutesRounding(t *testing.T) {
	st := NewUserStats("u1")
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Apply(st, session(80, 1, 89), now) // 1m29s rounds to 1
	if st.TotalFocusMinutes != 1 {
		t.Errorf("expected 1 minute, got %d", st.TotalFocusMinutes)
	}
	Apply(st, session(80, 1, 90), now) // 1m30s rounds to 2
	if st.TotalFocusMinutes != 3 {
		t.Errorf("expected 3 minutes, got %d", st.TotalFocusMinutes)
	}
}
