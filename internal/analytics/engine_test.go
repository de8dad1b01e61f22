package analytics

import (
	"sort"
	"testing"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
)

// fakeSource serves sessions from memory, most recent first for
// RecentSessions and oldest first for SessionsInRange.
type fakeSource struct {
	sessions []store.Session
}

func (f *fakeSource) RecentSessions(userID string, limit int) ([]store.Session, error) {
	var out []store.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSource) SessionsInRange(userID string, start, end time.Time) ([]store.Session, error) {
	var out []store.Session
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if s.CompletedAt.Before(start) || s.CompletedAt.After(end) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out, nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(src *fakeSource) *Engine {
	e := NewEngine(src)
	e.SetClock(func() time.Time { return testNow })
	return e
}

func addSession(f *fakeSource, completedAt time.Time, mutate func(*store.Session)) {
	s := store.Session{
		UserID:          "u1",
		Type:            store.TypeTimer,
		DurationPlanned: 1500,
		DurationActual:  1500,
		FocusScore:      80,
		CompletedAt:     completedAt,
	}
	if mutate != nil {
		mutate(&s)
	}
	f.sessions = append(f.sessions, s)
}

func TestZeroSessions(t *testing.T) {
	e := newTestEngine(&fakeSource{})

	report, err := e.BuildReport("u1", Window25)
	if err != nil {
		t.Fatal(err)
	}

	if report.Distribution != (Distribution{}) {
		t.Errorf("expected zero distribution, got %+v", report.Distribution)
	}
	if report.AverageScore != 0 {
		t.Errorf("expected average 0, got %d", report.AverageScore)
	}
	if report.Trend != (Trend{}) {
		t.Errorf("expected zero trend, got %+v", report.Trend)
	}
	if report.PeakWindow != nil || report.SweetSpot != nil {
		t.Error("expected no peak window or sweet spot")
	}
	if report.AverageLength != 0 {
		t.Errorf("expected average length 0, got %d", report.AverageLength)
	}
	if report.MonthlyTotal != (MonthlyTotal{}) {
		t.Errorf("expected zero monthly total, got %+v", report.MonthlyTotal)
	}
}

func TestBuildReport_RejectsUnsupportedWindow(t *testing.T) {
	e := newTestEngine(&fakeSource{})
	if _, err := e.BuildReport("u1", 33); err == nil {
		t.Fatal("expected an error for window 33")
	}
}

func TestGetDistribution(t *testing.T) {
	f := &fakeSource{}
	base := testNow.Add(-time.Hour)
	for i := 0; i < 4; i++ {
		addSession(f, base.Add(time.Duration(i)*time.Minute), nil)
	}
	addSession(f, base, func(s *store.Session) { s.Type = store.TypeBento })
	addSession(f, base, func(s *store.Session) { s.Type = store.TypeBento })
	addSession(f, base, func(s *store.Session) { s.Type = store.TypeRoutine })

	e := newTestEngine(f)
	d, err := e.GetDistribution("u1", Window25)
	if err != nil {
		t.Fatal(err)
	}
	if d.Timer != 4 || d.Bento != 2 || d.Routine != 1 {
		t.Errorf("expected 4/2/1, got %+v", d)
	}
}

func TestGetDistribution_WindowLimits(t *testing.T) {
	f := &fakeSource{}
	// 30 sessions, newest 25 are timers, oldest 5 are routines.
	for i := 0; i < 5; i++ {
		addSession(f, testNow.Add(-time.Duration(100+i)*time.Hour), func(s *store.Session) { s.Type = store.TypeRoutine })
	}
	for i := 0; i < 25; i++ {
		addSession(f, testNow.Add(-time.Duration(i)*time.Hour), nil)
	}

	e := newTestEngine(f)
	d, err := e.GetDistribution("u1", Window25)
	if err != nil {
		t.Fatal(err)
	}
	if d.Timer != 25 || d.Routine != 0 {
		t.Errorf("window should exclude the oldest sessions, got %+v", d)
	}
}

func TestGetAverageScore(t *testing.T) {
	f := &fakeSource{}
	scores := []int{100, 90, 70}
	for i, sc := range scores {
		score := sc
		addSession(f, testNow.Add(-time.Duration(i)*time.Hour), func(s *store.Session) { s.FocusScore = score })
	}

	e := newTestEngine(f)
	avg, err := e.GetAverageScore("u1", Window25)
	if err != nil {
		t.Fatal(err)
	}
	if avg != 87 { // 260/3 = 86.67 rounds to 87
		t.Errorf("expected 87, got %d", avg)
	}
}

func TestGetTrend(t *testing.T) {
	f := &fakeSource{}
	// Current week: scores 90, 80.
	addSession(f, testNow.Add(-2*24*time.Hour), func(s *store.Session) { s.FocusScore = 90 })
	addSession(f, testNow.Add(-3*24*time.Hour), func(s *store.Session) { s.FocusScore = 80 })
	// Previous week: scores 60, 70.
	addSession(f, testNow.Add(-9*24*time.Hour), func(s *store.Session) { s.FocusScore = 60 })
	addSession(f, testNow.Add(-10*24*time.Hour), func(s *store.Session) { s.FocusScore = 70 })
	// Older than two weeks: ignored.
	addSession(f, testNow.Add(-20*24*time.Hour), func(s *store.Session) { s.FocusScore = 10 })

	e := newTestEngine(f)
	trend, err := e.GetTrend("u1")
	if err != nil {
		t.Fatal(err)
	}
	if trend.CurrentWeek != 85 || trend.PreviousWeek != 65 || trend.Change != 20 {
		t.Errorf("expected 85/65/+20, got %+v", trend)
	}
}

func TestGetTrend_EmptySidesDefaultToZero(t *testing.T) {
	f := &fakeSource{}
	addSession(f, testNow.Add(-24*time.Hour), func(s *store.Session) { s.FocusScore = 80 })

	e := newTestEngine(f)
	trend, err := e.GetTrend("u1")
	if err != nil {
		t.Fatal(err)
	}
	if trend.CurrentWeek != 80 || trend.PreviousWeek != 0 || trend.Change != 80 {
		t.Errorf("expected 80/0/+80, got %+v", trend)
	}
}

func TestGetPeakWindow(t *testing.T) {
	f := &fakeSource{}
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	// Morning bucket: three sessions averaging 90.
	for i, sc := range []int{95, 90, 85} {
		score := sc
		addSession(f, day.Add(time.Duration(7)*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = score })
	}
	// Evening bucket: three sessions averaging 70.
	for i, sc := range []int{75, 70, 65} {
		score := sc
		addSession(f, day.Add(time.Duration(19)*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = score })
	}
	// Afternoon: only two samples, never qualifies even with top scores.
	for i := 0; i < 2; i++ {
		addSession(f, day.Add(time.Duration(13)*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = 100 })
	}

	e := newTestEngine(f)
	peak, err := e.GetPeakWindow("u1")
	if err != nil {
		t.Fatal(err)
	}
	if peak == nil {
		t.Fatal("expected a peak window")
	}
	if peak.Label != "Morning (6-9am)" || peak.Score != 90 {
		t.Errorf("expected Morning (6-9am)/90, got %+v", peak)
	}
}

func TestGetPeakWindow_TieGoesToEarlierBucket(t *testing.T) {
	f := &fakeSource{}
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	// Same mean in the late-morning and evening buckets.
	for i := 0; i < 3; i++ {
		addSession(f, day.Add(10*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = 80 })
		addSession(f, day.Add(19*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = 80 })
	}

	e := newTestEngine(f)
	peak, err := e.GetPeakWindow("u1")
	if err != nil {
		t.Fatal(err)
	}
	if peak == nil || peak.Label != "Late Morning (9-12pm)" {
		t.Errorf("expected earlier bucket to win the tie, got %+v", peak)
	}
}

func TestGetPeakWindow_TooFewSessions(t *testing.T) {
	f := &fakeSource{}
	for i := 0; i < 4; i++ {
		addSession(f, testNow.Add(-time.Duration(i)*time.Hour), nil)
	}

	e := newTestEngine(f)
	peak, err := e.GetPeakWindow("u1")
	if err != nil {
		t.Fatal(err)
	}
	if peak != nil {
		t.Errorf("expected no result below 5 sessions, got %+v", peak)
	}
}

func TestGetPeakWindow_EarlyHoursFallToNightBucket(t *testing.T) {
	f := &fakeSource{}
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	// 2am sessions land in the night bucket.
	for i := 0; i < 5; i++ {
		addSession(f, day.Add(2*time.Hour+time.Duration(i)*time.Minute),
			func(s *store.Session) { s.FocusScore = 90 })
	}

	e := newTestEngine(f)
	peak, err := e.GetPeakWindow("u1")
	if err != nil {
		t.Fatal(err)
	}
	if peak == nil || peak.Label != "Night (9pm-12am)" {
		t.Errorf("expected night bucket, got %+v", peak)
	}
}

func TestGetSweetSpot(t *testing.T) {
	f := &fakeSource{}
	base := testNow.Add(-time.Hour)

	// 25-minute sessions averaging 90.
	for i, sc := range []int{95, 90, 85} {
		score := sc
		addSession(f, base.Add(time.Duration(i)*time.Minute), func(s *store.Session) {
			s.DurationPlanned = 25 * 60
			s.FocusScore = score
		})
	}
	// 50-minute sessions averaging 70.
	for i, sc := range []int{75, 70, 65} {
		score := sc
		addSession(f, base.Add(time.Duration(10+i)*time.Minute), func(s *store.Session) {
			s.DurationPlanned = 50 * 60
			s.FocusScore = score
		})
	}

	e := newTestEngine(f)
	spot, err := e.GetSweetSpot("u1")
	if err != nil {
		t.Fatal(err)
	}
	if spot == nil || spot.Label != "25-35 min" || spot.Score != 90 {
		t.Errorf("expected 25-35 min/90, got %+v", spot)
	}
}

func TestGetSweetSpot_UsesPlannedNotActual(t *testing.T) {
	f := &fakeSource{}
	base := testNow.Add(-time.Hour)
	for i := 0; i < 5; i++ {
		addSession(f, base.Add(time.Duration(i)*time.Minute), func(s *store.Session) {
			s.DurationPlanned = 70 * 60
			s.DurationActual = 10 * 60 // stopped early
			s.FocusScore = 60
		})
	}

	e := newTestEngine(f)
	spot, err := e.GetSweetSpot("u1")
	if err != nil {
		t.Fatal(err)
	}
	if spot == nil || spot.Label != "60+ min" {
		t.Errorf("bucketing must use planned duration, got %+v", spot)
	}
}

func TestGetAverageLength(t *testing.T) {
	f := &fakeSource{}
	for i, mins := range []int{25, 30, 50} {
		m := mins
		addSession(f, testNow.Add(-time.Duration(i)*time.Hour), func(s *store.Session) {
			s.DurationActual = m * 60
		})
	}

	e := newTestEngine(f)
	avg, err := e.GetAverageLength("u1")
	if err != nil {
		t.Fatal(err)
	}
	if avg != 35 {
		t.Errorf("expected 35, got %d", avg)
	}
}

func TestGetMonthlyTotal(t *testing.T) {
	f := &fakeSource{}
	// 10 sessions of 25 minutes inside the window: 250 minutes.
	for i := 0; i < 10; i++ {
		addSession(f, testNow.Add(-time.Duration(i+1)*24*time.Hour), nil)
	}
	// Outside the trailing 30 days: ignored.
	addSession(f, testNow.Add(-40*24*time.Hour), nil)

	e := newTestEngine(f)
	total, err := e.GetMonthlyTotal("u1")
	if err != nil {
		t.Fatal(err)
	}
	if total.Hours != 4 || total.Minutes != 10 {
		t.Errorf("expected 4h10m, got %+v", total)
	}
}

func TestBuildReport_Populated(t *testing.T) {
	f := &fakeSource{}
	for i := 0; i < 10; i++ {
		addSession(f, testNow.Add(-time.Duration(i)*time.Hour), func(s *store.Session) {
			s.FocusScore = 90
		})
	}

	e := newTestEngine(f)
	report, err := e.BuildReport("u1", Window50)
	if err != nil {
		t.Fatal(err)
	}
	if report.Window != Window50 {
		t.Errorf("expected window 50, got %d", report.Window)
	}
	if report.AverageScore != 90 {
		t.Errorf("expected average 90, got %d", report.AverageScore)
	}
	if report.Distribution.Timer != 10 {
		t.Errorf("expected 10 timer sessions, got %+v", report.Distribution)
	}
	if len(report.RecentSessions) != 10 {
		t.Errorf("expected 10 recent sessions, got %d", len(report.RecentSessions))
	}
}
