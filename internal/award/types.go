// Package award provides the achievement registry and unlock engine.
package award

import "time"

// Type identifies an award.
type Type string

// Award types, in registry order.
const (
	TaskStarter       Type = "TASK_STARTER"
	PerfectFocus      Type = "PERFECT_FOCUS"
	FocusChampion     Type = "FOCUS_CHAMPION"
	SteadyPerformer   Type = "STEADY_PERFORMER"
	TimerSpecialist   Type = "TIMER_SPECIALIST"
	ComebackChampion  Type = "COMEBACK_CHAMPION"
	ZenMaster         Type = "ZEN_MASTER"
	NoPausePro        Type = "NO_PAUSE_PRO"
	BentoMaster       Type = "BENTO_MASTER"
	RoutineChampion   Type = "ROUTINE_CHAMPION"
	RoutineBuilder    Type = "ROUTINE_BUILDER"
	PersistenceMaster Type = "PERSISTENCE_MASTER"
)

// Definition describes one award: its threshold and the predicate that
// measures a user's current value against it. Predicates are pure
// dispatch over a Source, decoupled from any particular storage client.
type Definition struct {
	Type        Type
	Name        string
	Description string
	Threshold   int
	Current     func(src Source, userID string) (int, error)
}

// Progress reports a user's standing against one award.
type Progress struct {
	Type        Type       `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Current     int        `json:"current"`
	Threshold   int        `json:"threshold"`
	ProgressPct float64    `json:"progress_pct"` // 0-100
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}
