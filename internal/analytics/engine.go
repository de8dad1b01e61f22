// Package analytics computes read-only windowed statistics over a
// user's recent sessions: type distribution, score averages and trend,
// peak-performance window, duration sweet spot, and monthly totals.
// Every statistic is recomputed per call; no materialized state.
package analytics

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
	"golang.org/x/sync/errgroup"
)

// Window sizes accepted for recency-windowed statistics.
const (
	Window25  = 25
	Window50  = 50
	Window100 = 100
)

// minSamplesPerBucket is the qualification floor for peak-window and
// sweet-spot buckets.
const minSamplesPerBucket = 3

// minSessionsForInsights is the overall floor below which peak-window
// and sweet-spot queries return no result.
const minSessionsForInsights = 5

// Source is the read surface the engine aggregates over. *store.DB
// satisfies it.
type Source interface {
	RecentSessions(userID string, limit int) ([]store.Session, error)
	SessionsInRange(userID string, start, end time.Time) ([]store.Session, error)
}

// Distribution counts recent sessions by type.
type Distribution struct {
	Timer   int `json:"timer"`
	Bento   int `json:"bento"`
	Routine int `json:"routine"`
}

// Trend compares the trailing 7 days of scores against the 7 days
// before that. Each side is 0 when empty.
type Trend struct {
	CurrentWeek  int `json:"current_week"`
	PreviousWeek int `json:"previous_week"`
	Change       int `json:"change"`
}

// BucketResult is the winning bucket of a peak-window or sweet-spot
// query. Nil result means not enough data.
type BucketResult struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// MonthlyTotal is the trailing-30-day focus time as whole hours plus
// remainder minutes.
type MonthlyTotal struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Report bundles every statistic for one user and window size.
type Report struct {
	Window         int             `json:"window"`
	Distribution   Distribution    `json:"distribution"`
	AverageScore   int             `json:"average_score"`
	Trend          Trend           `json:"trend"`
	PeakWindow     *BucketResult   `json:"peak_window,omitempty"`
	SweetSpot      *BucketResult   `json:"sweet_spot,omitempty"`
	AverageLength  int             `json:"average_length_minutes"`
	MonthlyTotal   MonthlyTotal    `json:"monthly_total"`
	RecentSessions []store.Session `json:"recent_sessions,omitempty"`
}

// Engine computes windowed analytics. Queries are read-only, take no
// locks, and tolerate concurrent writes.
type Engine struct {
	src   Source
	clock func() time.Time
}

// NewEngine creates an analytics engine over the given source.
func NewEngine(src Source) *Engine {
	return &Engine{src: src, clock: time.Now}
}

// SetClock overrides the engine's notion of now, for tests.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }

// GetDistribution counts the window most recent sessions by type.
func (e *Engine) GetDistribution(userID string, window int) (Distribution, error) {
	sessions, err := e.src.RecentSessions(userID, window)
	if err != nil {
		return Distribution{}, err
	}

	var d Distribution
	for _, s := range sessions {
		switch s.Type {
		case store.TypeTimer:
			d.Timer++
		case store.TypeBento:
			d.Bento++
		case store.TypeRoutine:
			d.Routine++
		}
	}
	return d, nil
}

// GetAverageScore returns the rounded mean focus score over the window
// most recent sessions, or 0 with no sessions.
func (e *Engine) GetAverageScore(userID string, window int) (int, error) {
	sessions, err := e.src.RecentSessions(userID, window)
	if err != nil {
		return 0, err
	}
	return meanScore(sessions), nil
}

// GetTrend returns the signed difference between the current and
// previous 7-day average scores.
func (e *Engine) GetTrend(userID string) (Trend, error) {
	now := e.clock()
	oneWeekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	current, err := e.src.SessionsInRange(userID, oneWeekAgo, now)
	if err != nil {
		return Trend{}, err
	}
	previous, err := e.src.SessionsInRange(userID, twoWeeksAgo, oneWeekAgo)
	if err != nil {
		return Trend{}, err
	}

	t := Trend{
		CurrentWeek:  meanScore(current),
		PreviousWeek: meanScore(previous),
	}
	t.Change = t.CurrentWeek - t.PreviousWeek
	return t, nil
}

// GetPeakWindow finds the local-hour bucket with the highest average
// score over the 100 most recent sessions. A bucket qualifies with at
// least 3 samples; ties go to the earlier bucket. Nil with fewer than
// 5 sessions or no qualifying bucket.
func (e *Engine) GetPeakWindow(userID string) (*BucketResult, error) {
	sessions, err := e.src.RecentSessions(userID, Window100)
	if err != nil {
		return nil, err
	}
	if len(sessions) < minSessionsForInsights {
		return nil, nil
	}

	totals := make([]int, len(hourBuckets))
	counts := make([]int, len(hourBuckets))
	for _, s := range sessions {
		i := hourBucketIndex(s.CompletedAt.Hour())
		totals[i] += s.FocusScore
		counts[i]++
	}

	return bestBucket(totals, counts, func(i int) string { return hourBuckets[i].label }), nil
}

// GetSweetSpot finds the planned-duration bucket with the highest
// average score, with the same qualification and tie-break rules as
// GetPeakWindow.
func (e *Engine) GetSweetSpot(userID string) (*BucketResult, error) {
	sessions, err := e.src.RecentSessions(userID, Window100)
	if err != nil {
		return nil, err
	}
	if len(sessions) < minSessionsForInsights {
		return nil, nil
	}

	totals := make([]int, len(durationBuckets))
	counts := make([]int, len(durationBuckets))
	for _, s := range sessions {
		i := durationBucketIndex(roundMinutes(s.DurationPlanned))
		totals[i] += s.FocusScore
		counts[i]++
	}

	return bestBucket(totals, counts, func(i int) string { return durationBuckets[i].label }), nil
}

// GetAverageLength returns the rounded mean actual duration in minutes
// over the 50 most recent sessions.
func (e *Engine) GetAverageLength(userID string) (int, error) {
	sessions, err := e.src.RecentSessions(userID, Window50)
	if err != nil {
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	total := 0.0
	for _, s := range sessions {
		total += float64(s.DurationActual) / 60
	}
	return roundFloat(total / float64(len(sessions))), nil
}

// GetMonthlyTotal sums actual focus minutes over the trailing 30 days.
func (e *Engine) GetMonthlyTotal(userID string) (MonthlyTotal, error) {
	now := e.clock()
	sessions, err := e.src.SessionsInRange(userID, now.Add(-30*24*time.Hour), now)
	if err != nil {
		return MonthlyTotal{}, err
	}

	minutes := 0
	for _, s := range sessions {
		minutes += roundMinutes(s.DurationActual)
	}
	return MonthlyTotal{Hours: minutes / 60, Minutes: minutes % 60}, nil
}

// BuildReport assembles every statistic concurrently. The queries are
// independent reads, so they fan out and accept read-committed
// consistency between each other.
func (e *Engine) BuildReport(userID string, window int) (*Report, error) {
	switch window {
	case Window25, Window50, Window100:
	default:
		return nil, fmt.Errorf("unsupported window size %d", window)
	}

	report := &Report{Window: window}

	var g errgroup.Group
	g.Go(func() error {
		d, err := e.GetDistribution(userID, window)
		report.Distribution = d
		return err
	})
	g.Go(func() error {
		avg, err := e.GetAverageScore(userID, window)
		report.AverageScore = avg
		return err
	})
	g.Go(func() error {
		t, err := e.GetTrend(userID)
		report.Trend = t
		return err
	})
	g.Go(func() error {
		peak, err := e.GetPeakWindow(userID)
		report.PeakWindow = peak
		return err
	})
	g.Go(func() error {
		spot, err := e.GetSweetSpot(userID)
		report.SweetSpot = spot
		return err
	})
	g.Go(func() error {
		avg, err := e.GetAverageLength(userID)
		report.AverageLength = avg
		return err
	})
	g.Go(func() error {
		total, err := e.GetMonthlyTotal(userID)
		report.MonthlyTotal = total
		return err
	})
	g.Go(func() error {
		sessions, err := e.src.RecentSessions(userID, window)
		report.RecentSessions = sessions
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// bestBucket picks the qualifying bucket with the highest rounded mean
// score. Iteration in bucket-definition order makes exact ties land on
// the earlier bucket.
func bestBucket(totals, counts []int, label func(int) string) *BucketResult {
	var best *BucketResult
	for i := range totals {
		if counts[i] < minSamplesPerBucket {
			continue
		}
		avg := roundFloat(float64(totals[i]) / float64(counts[i]))
		if best == nil || avg > best.Score {
			best = &BucketResult{Label: label(i), Score: avg}
		}
	}
	return best
}

func meanScore(sessions []store.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	total := 0
	for _, s := range sessions {
		total += s.FocusScore
	}
	return roundFloat(float64(total) / float64(len(sessions)))
}

func roundMinutes(seconds int) int {
	return (seconds + 30) / 60
}

func roundFloat(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
