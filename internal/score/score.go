// Package score computes the 0-100 focus score for a completed session.
package score

// Calculate returns the focus score for a completed session:
//   - Start at 100.
//   - Escalating pause penalty: -10 for the first pause, -15 for the
//     second, -20 for the third, and so on.
//   - Early stop penalty when the session was interrupted: -20 if less
//     than half the planned time elapsed, -10 if less than three quarters.
//   - Result clamped to [0, 100].
func Calculate(plannedSeconds, actualSeconds, pauseCount int, wasInterrupted bool) int {
	s := 100

	for i := 0; i < pauseCount; i++ {
		s -= 10 + i*5
	}

	if wasInterrupted && plannedSeconds > 0 {
		ratio := float64(actualSeconds) / float64(plannedSeconds)
		if ratio < 0.5 {
			s -= 20
		} else if ratio < 0.75 {
			s -= 10
		}
	}

	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Band classifies a score into a display band used for coloring.
type Band int

// Score bands, highest first.
const (
	BandHigh   Band = iota // 80 and above
	BandMedium             // 50 to 79
	BandLow                // below 50
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// BandFor returns the display band for a focus score.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 50:
		return BandMedium
	default:
		return BandLow
	}
}
