// Package timer implements the focus-session countdown state machine.
//
// An Engine is owned by a single session attempt. It anchors elapsed time
// to the wall clock and folds completed run segments into an accumulator,
// so the reconstructed total survives any number of pause/resume cycles
// and does not drift with tick jitter.
package timer

import "time"

// State is the engine's lifecycle state.
type State string

// Engine states.
const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Measurement is the engine's output for one completed session attempt.
type Measurement struct {
	PlannedSeconds int  `json:"planned_seconds"`
	ActualSeconds  int  `json:"actual_seconds"`
	PauseCount     int  `json:"pause_count"`
	WasInterrupted bool `json:"was_interrupted"`
}

// Engine is the countdown state machine for a single session attempt.
// It is not safe for concurrent use; the owning caller drives it from
// one goroutine. Invalid transitions are silent no-ops.
type Engine struct {
	clock   Clock
	planned int // seconds

	state       State
	anchor      time.Time // wall-clock start of the current run segment
	accumulated int       // whole seconds elapsed before the current segment
	pauseCount  int
	result      *Measurement
}

// New creates an idle engine for a session of the given planned duration.
func New(plannedSeconds int, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{
		clock:   clock,
		planned: plannedSeconds,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// PauseCount returns the number of pauses in the current attempt.
func (e *Engine) PauseCount() int { return e.pauseCount }

// PlannedSeconds returns the configured session length.
func (e *Engine) PlannedSeconds() int { return e.planned }

// Result returns the completed measurement, or nil before completion.
func (e *Engine) Result() *Measurement { return e.result }

// Start begins a fresh attempt from idle, or resumes from paused.
// Called from running or completed it does nothing.
func (e *Engine) Start() {
	switch e.state {
	case StateIdle:
		e.anchor = e.clock.Now()
		e.accumulated = 0
		e.pauseCount = 0
		e.result = nil
	case StatePaused:
		e.anchor = e.clock.Now()
	default:
		return
	}
	e.state = StateRunning
}

// Pause stops the countdown, folding the current segment into the
// accumulator and incrementing the pause count. No-op unless running.
func (e *Engine) Pause() {
	if e.state != StateRunning {
		return
	}
	e.accumulated += e.segmentSeconds()
	e.pauseCount++
	e.state = StatePaused
}

// Resume continues a paused attempt. No-op unless paused.
func (e *Engine) Resume() {
	if e.state != StatePaused {
		return
	}
	e.Start()
}

// Tick advances the countdown and returns the remaining whole seconds.
// When the planned duration has fully elapsed it transitions to
// completed and records an uninterrupted measurement whose actual
// duration equals the planned duration. Outside running it reports the
// remaining time without side effects.
func (e *Engine) Tick() int {
	remaining := e.Remaining()
	if e.state == StateRunning && remaining <= 0 {
		e.state = StateCompleted
		e.result = &Measurement{
			PlannedSeconds: e.planned,
			ActualSeconds:  e.planned,
			PauseCount:     e.pauseCount,
			WasInterrupted: false,
		}
	}
	return remaining
}

// Remaining returns max(0, planned - elapsed) in whole seconds.
func (e *Engine) Remaining() int {
	remaining := e.planned - e.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed returns the total elapsed whole seconds across all run segments.
func (e *Engine) Elapsed() int {
	if e.state == StateRunning {
		return e.accumulated + e.segmentSeconds()
	}
	return e.accumulated
}

// StopEarly ends the attempt before natural expiry, recording an
// interrupted measurement with the elapsed time so far. Valid from
// running or paused; no-op otherwise.
func (e *Engine) StopEarly() {
	if e.state != StateRunning && e.state != StatePaused {
		return
	}

	elapsed := e.Elapsed()
	if elapsed > e.planned {
		elapsed = e.planned
	}

	e.accumulated = elapsed
	e.state = StateCompleted
	e.result = &Measurement{
		PlannedSeconds: e.planned,
		ActualSeconds:  elapsed,
		PauseCount:     e.pauseCount,
		WasInterrupted: true,
	}
}

// Reset returns the engine to idle, discarding any accumulated progress
// and completed measurement.
func (e *Engine) Reset() {
	e.state = StateIdle
	e.accumulated = 0
	e.pauseCount = 0
	e.result = nil
}

// segmentSeconds returns the whole seconds elapsed in the current run
// segment since the anchor.
func (e *Engine) segmentSeconds() int {
	return int(e.clock.Now().Sub(e.anchor) / time.Second)
}
