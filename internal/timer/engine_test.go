package timer

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for deterministic tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestEngine_FreshStartResetsCounters(t *testing.T) {
	clock := newFakeClock()
	e := New(1500, clock)

	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %s", e.State())
	}

	e.Start()
	if e.State() != StateRunning {
		t.Fatalf("expected running, got %s", e.State())
	}
	if e.PauseCount() != 0 || e.Elapsed() != 0 {
		t.Errorf("fresh start should zero counters: pauses=%d elapsed=%d", e.PauseCount(), e.Elapsed())
	}
}

func TestEngine_NaturalCompletion(t *testing.T) {
	clock := newFakeClock()
	e := New(60, clock)
	e.Start()

	clock.advance(59 * time.Second)
	if remaining := e.Tick(); remaining != 1 {
		t.Errorf("expected 1 second remaining, got %d", remaining)
	}
	if e.State() != StateRunning {
		t.Errorf("expected still running, got %s", e.State())
	}

	clock.advance(1 * time.Second)
	if remaining := e.Tick(); remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
	if e.State() != StateCompleted {
		t.Fatalf("expected completed, got %s", e.State())
	}

	m := e.Result()
	if m == nil {
		t.Fatal("expected a measurement")
	}
	if m.WasInterrupted {
		t.Error("natural expiry must not be marked interrupted")
	}
	if m.ActualSeconds != 60 || m.PlannedSeconds != 60 {
		t.Errorf("expected actual=planned=60, got actual=%d planned=%d", m.ActualSeconds, m.PlannedSeconds)
	}
}

func TestEngine_PauseResumeAccumulates(t *testing.T) {
	clock := newFakeClock()
	e := New(600, clock)
	e.Start()

	clock.advance(100 * time.Second)
	e.Pause()
	if e.State() != StatePaused {
		t.Fatalf("expected paused, got %s", e.State())
	}
	if e.PauseCount() != 1 {
		t.Errorf("expected 1 pause, got %d", e.PauseCount())
	}

	// Time passing while paused does not count.
	clock.advance(500 * time.Second)
	if e.Elapsed() != 100 {
		t.Errorf("expected elapsed 100 while paused, got %d", e.Elapsed())
	}

	e.Resume()
	clock.advance(50 * time.Second)
	if e.Elapsed() != 150 {
		t.Errorf("expected elapsed 150 after resume, got %d", e.Elapsed())
	}
	if remaining := e.Tick(); remaining != 450 {
		t.Errorf("expected 450 remaining, got %d", remaining)
	}
}

func TestEngine_ZeroLengthPause(t *testing.T) {
	clock := newFakeClock()
	e := New(300, clock)
	e.Start()
	clock.advance(30 * time.Second)
	e.Pause()
	e.Resume() // immediately
	clock.advance(10 * time.Second)

	if e.Elapsed() != 40 {
		t.Errorf("expected elapsed 40, got %d", e.Elapsed())
	}
	if e.PauseCount() != 1 {
		t.Errorf("expected 1 pause, got %d", e.PauseCount())
	}
}

func TestEngine_StopEarlyWhileRunning(t *testing.T) {
	clock := newFakeClock()
	e := New(1500, clock)
	e.Start()
	clock.advance(400 * time.Second)

	e.StopEarly()
	if e.State() != StateCompleted {
		t.Fatalf("expected completed, got %s", e.State())
	}

	m := e.Result()
	if m == nil {
		t.Fatal("expected a measurement")
	}
	if !m.WasInterrupted {
		t.Error("early stop must be marked interrupted")
	}
	if m.ActualSeconds != 400 {
		t.Errorf("expected actual 400, got %d", m.ActualSeconds)
	}
}

func TestEngine_StopEarlyWhilePaused(t *testing.T) {
	clock := newFakeClock()
	e := New(1500, clock)
	e.Start()
	clock.advance(200 * time.Second)
	e.Pause()
	clock.advance(60 * time.Second) // paused time must not count

	e.StopEarly()
	m := e.Result()
	if m == nil || m.ActualSeconds != 200 {
		t.Fatalf("expected actual 200, got %+v", m)
	}
	if m.PauseCount != 1 {
		t.Errorf("expected pause count 1, got %d", m.PauseCount)
	}
}

func TestEngine_InvalidTransitionsAreNoOps(t *testing.T) {
	clock := newFakeClock()
	e := New(300, clock)

	// Pause, Resume, StopEarly from idle do nothing.
	e.Pause()
	e.Resume()
	e.StopEarly()
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %s", e.State())
	}

	e.Start()
	e.Start() // second Start while running is ignored
	clock.advance(10 * time.Second)
	if e.Elapsed() != 10 {
		t.Errorf("redundant Start must not re-anchor: elapsed=%d", e.Elapsed())
	}

	clock.advance(290 * time.Second)
	e.Tick()
	if e.State() != StateCompleted {
		t.Fatalf("expected completed, got %s", e.State())
	}

	// All transitions from completed except Reset are ignored.
	e.Start()
	e.Pause()
	e.StopEarly()
	if e.State() != StateCompleted {
		t.Errorf("expected completed, got %s", e.State())
	}
}

func TestEngine_ResetClearsEverything(t *testing.T) {
	clock := newFakeClock()
	e := New(300, clock)
	e.Start()
	clock.advance(100 * time.Second)
	e.Pause()
	e.StopEarly()

	e.Reset()
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %s", e.State())
	}
	if e.Elapsed() != 0 || e.PauseCount() != 0 || e.Result() != nil {
		t.Error("reset should clear accumulator, pause count, and result")
	}
}

func TestEngine_StopEarlyClampsToPlanned(t *testing.T) {
	clock := newFakeClock()
	e := New(60, clock)
	e.Start()
	// Tick was never called, so the engine is still running past expiry.
	clock.advance(90 * time.Second)

	e.StopEarly()
	m := e.Result()
	if m == nil || m.ActualSeconds != 60 {
		t.Fatalf("expected actual clamped to 60, got %+v", m)
	}
}
