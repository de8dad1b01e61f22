package app

import (
	"testing"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/timer"
)

func TestRunCountdown_StopCommand(t *testing.T) {
	lines := make(chan string)
	done := make(chan *timer.Measurement, 1)
	go func() {
		m, _ := runCountdown(3600, "Deep work", lines)
		done <- m
	}()

	lines <- "p"
	lines <- "r"
	lines <- "s"

	select {
	case m := <-done:
		if !m.WasInterrupted {
			t.Error("expected stopped session to be marked interrupted")
		}
		if m.PauseCount != 1 {
			t.Errorf("PauseCount = %d, want 1", m.PauseCount)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("countdown did not stop on command")
	}
}

func TestRunCountdown_SharedCommandChannel(t *testing.T) {
	// Consecutive countdowns in a multi-task box share one command
	// channel; a command sent after the first task finishes must reach
	// the second, not a reader left over from the first.
	lines := make(chan string)

	for i := 0; i < 2; i++ {
		done := make(chan *timer.Measurement, 1)
		go func() {
			m, _ := runCountdown(3600, "Task", lines)
			done <- m
		}()

		lines <- "s"

		select {
		case m := <-done:
			if !m.WasInterrupted {
				t.Errorf("task %d: expected interrupted result", i+1)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("task %d: stop command was not delivered", i+1)
		}
	}
}
