package award

import "github.com/blackwell-systems/focuswatch/internal/store"

// Source is the data surface award predicates evaluate against.
// *store.DB satisfies it; tests substitute an in-memory fake.
type Source interface {
	CountSessions(userID string, f store.SessionFilter) (int, error)
	GetUserStats(userID string) (*store.UserStats, error)
}

func intp(v int) *int { return &v }

// countWith returns a predicate counting the user's sessions matching
// the filter.
func countWith(f store.SessionFilter) func(Source, string) (int, error) {
	return func(src Source, userID string) (int, error) {
		return src.CountSessions(userID, f)
	}
}

// Registry is the fixed, ordered list of award definitions. Order is
// load-bearing: progress ties break toward earlier definitions.
var Registry = []Definition{
	// Focus mastery.
	{
		Type:        TaskStarter,
		Name:        "Task Starter",
		Description: "Complete 5 focus sessions",
		Threshold:   5,
		Current:     countWith(store.SessionFilter{}),
	},
	{
		Type:        PerfectFocus,
		Name:        "Perfect Focus",
		Description: "Achieve 25 perfect focus scores (100%)",
		Threshold:   25,
		Current: func(src Source, userID string) (int, error) {
			st, err := src.GetUserStats(userID)
			if err != nil || st == nil {
				return 0, err
			}
			return st.PerfectScoreCount, nil
		},
	},
	{
		Type:        FocusChampion,
		Name:        "Focus Champion",
		Description: "Complete 50 sessions with 90%+ focus",
		Threshold:   50,
		Current:     countWith(store.SessionFilter{MinScore: intp(90)}),
	},
	{
		Type:        SteadyPerformer,
		Name:        "Steady Performer",
		Description: "Complete 20 sessions between 25-45 minutes",
		Threshold:   20,
		Current:     countWith(store.SessionFilter{MinActual: intp(25 * 60), MaxActual: intp(45 * 60)}),
	},

	// Persistence.
	{
		Type:        TimerSpecialist,
		Name:        "Timer Specialist",
		Description: "Complete 50 timer sessions",
		Threshold:   50,
		Current:     countWith(store.SessionFilter{Type: store.TypeTimer}),
	},
	{
		Type:        ComebackChampion,
		Name:        "Comeback Champion",
		Description: "Complete 5 sessions with 4+ pauses (never give up!)",
		Threshold:   5,
		Current:     countWith(store.SessionFilter{MinPauses: intp(4)}),
	},
	{
		Type:        ZenMaster,
		Name:        "Zen Master",
		Description: "Complete 20 perfect sessions with no pauses",
		Threshold:   20,
		Current:     countWith(store.SessionFilter{ExactScore: intp(100), MaxPauses: intp(0)}),
	},
	{
		Type:        NoPausePro,
		Name:        "No-Pause Pro",
		Description: "Complete 30 sessions without pausing",
		Threshold:   30,
		Current: func(src Source, userID string) (int, error) {
			st, err := src.GetUserStats(userID)
			if err != nil || st == nil {
				return 0, err
			}
			return st.NoPauseSessionCount, nil
		},
	},

	// Consistency.
	{
		Type:        BentoMaster,
		Name:        "Bento Master",
		Description: "Complete 25 bento box sessions",
		Threshold:   25,
		Current:     countWith(store.SessionFilter{Type: store.TypeBento}),
	},
	{
		Type:        RoutineChampion,
		Name:        "Routine Champion",
		Description: "Complete 25 routine sessions",
		Threshold:   25,
		Current:     countWith(store.SessionFilter{Type: store.TypeRoutine}),
	},
	{
		Type:        RoutineBuilder,
		Name:        "Routine Builder",
		Description: "Maintain a 30-day focus streak",
		Threshold:   30,
		Current: func(src Source, userID string) (int, error) {
			st, err := src.GetUserStats(userID)
			if err != nil || st == nil {
				return 0, err
			}
			streak := st.CurrentStreak
			if st.LongestStreak > streak {
				streak = st.LongestStreak
			}
			return streak, nil
		},
	},
	{
		Type:        PersistenceMaster,
		Name:        "Persistence Master",
		Description: "Complete 30 sessions with 1-3 pauses (persistence pays off)",
		Threshold:   30,
		Current:     countWith(store.SessionFilter{MinPauses: intp(1), MaxPauses: intp(3)}),
	},
}
