package award

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/focuswatch/internal/store"
)

// Unlocker persists award unlocks. The insert must be backed by a
// uniqueness constraint on (user, award type); duplicates report
// created=false instead of an error.
type Unlocker interface {
	InsertAwardUnlock(userID, awardType string, at time.Time) (bool, error)
	ListAwardUnlocks(userID string) ([]store.AwardUnlock, error)
}

// Engine evaluates the registry against a user's data and records
// unlocks at most once each.
type Engine struct {
	defs  []Definition
	src   Source
	sink  Unlocker
	clock func() time.Time
}

// NewEngine creates an engine over the built-in registry.
func NewEngine(src Source, sink Unlocker) *Engine {
	return &Engine{
		defs:  Registry,
		src:   src,
		sink:  sink,
		clock: time.Now,
	}
}

// SetClock overrides the engine's notion of now, for tests.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }

// Evaluate checks every award for the user and returns the types newly
// unlocked by this invocation, in registry order. Evaluating twice with
// unchanged underlying data unlocks nothing the second time.
func (e *Engine) Evaluate(userID string) ([]Type, error) {
	unlocked, err := e.unlockedSet(userID)
	if err != nil {
		return nil, err
	}

	var newly []Type
	for _, def := range e.defs {
		if _, done := unlocked[def.Type]; done {
			continue
		}

		current, err := def.Current(e.src, userID)
		if err != nil {
			return newly, fmt.Errorf("evaluating %s: %w", def.Type, err)
		}
		if current < def.Threshold {
			continue
		}

		created, err := e.sink.InsertAwardUnlock(userID, string(def.Type), e.clock())
		if err != nil {
			return newly, fmt.Errorf("unlocking %s: %w", def.Type, err)
		}
		// created=false means another evaluation got there first; the
		// constraint already holds, so this is not "newly unlocked".
		if created {
			newly = append(newly, def.Type)
		}
	}
	return newly, nil
}

// AllProgress reports the user's standing against every award, in
// registry order.
func (e *Engine) AllProgress(userID string) ([]Progress, error) {
	records, err := e.sink.ListAwardUnlocks(userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[Type]time.Time, len(records))
	for _, r := range records {
		unlockedAt[Type(r.AwardType)] = r.UnlockedAt
	}

	progress := make([]Progress, 0, len(e.defs))
	for _, def := range e.defs {
		current, err := def.Current(e.src, userID)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", def.Type, err)
		}

		pct := float64(current) / float64(def.Threshold) * 100
		if pct > 100 {
			pct = 100
		}

		p := Progress{
			Type:        def.Type,
			Name:        def.Name,
			Description: def.Description,
			Current:     current,
			Threshold:   def.Threshold,
			ProgressPct: pct,
			Unlocked:    false,
		}
		if at, ok := unlockedAt[def.Type]; ok {
			p.Unlocked = true
			t := at
			p.UnlockedAt = &t
		}
		progress = append(progress, p)
	}
	return progress, nil
}

// NextAward returns the locked award closest to unlocking: highest
// progress percentage, ties broken by registry order. Nil when every
// award is already unlocked.
func (e *Engine) NextAward(userID string) (*Progress, error) {
	all, err := e.AllProgress(userID)
	if err != nil {
		return nil, err
	}

	var best *Progress
	for i := range all {
		p := &all[i]
		if p.Unlocked {
			continue
		}
		if best == nil || p.ProgressPct > best.ProgressPct {
			best = p
		}
	}
	return best, nil
}

func (e *Engine) unlockedSet(userID string) (map[Type]struct{}, error) {
	records, err := e.sink.ListAwardUnlocks(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[Type]struct{}, len(records))
	for _, r := range records {
		set[Type(r.AwardType)] = struct{}{}
	}
	return set, nil
}
