// Package lineup tracks the ten players on court through a period, holding
// substitutions back while a shooting foul's free throws are pending.
package lineup

import (
	"fmt"

	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/model"
)

// PlayersPerTeam is the number of players each team has on court.
const PlayersPerTeam = 5

// Substitution is a queued (leaving, entering) pair.
type Substitution struct {
	Leaving  string
	Entering string
}

// Tracker holds the active lineup of one period.
type Tracker struct {
	teams  model.Teams
	roster model.Roster

	active   []string
	hold     bool
	queue    []Substitution
	deferred int
}

// NewTracker starts a period with the given starters. Duplicate ids are
// ignored; each team must end up with exactly five players.
func NewTracker(starters []string, teams model.Teams, roster model.Roster) (*Tracker, error) {
	t := &Tracker{
		teams:  teams,
		roster: roster,
		active: make([]string, 0, 2*PlayersPerTeam),
	}
	seen := make(map[string]struct{}, len(starters))
	for _, id := range starters {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := roster[id]; !ok {
			return nil, fmt.Errorf("%w: starter %q", ErrUnknownPlayer, id)
		}
		t.active = append(t.active, id)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Active returns a copy of the ten players on court.
func (t *Tracker) Active() []string {
	out := make([]string, len(t.active))
	copy(out, t.active)
	return out
}

// OnCourt reports whether a player is currently active.
func (t *Tracker) OnCourt(id string) bool {
	return t.indexOf(id) >= 0
}

// Holding reports whether substitutions are currently deferred.
func (t *Tracker) Holding() bool {
	return t.hold
}

// Pending returns the queued substitutions in submission order.
func (t *Tracker) Pending() []Substitution {
	out := make([]Substitution, len(t.queue))
	copy(out, t.queue)
	return out
}

// Deferred counts substitutions that were queued rather than applied.
func (t *Tracker) Deferred() int {
	return t.deferred
}

// Observe applies one play to the lineup.
func (t *Tracker) Observe(ev *model.Event, cat *catalog.Catalog) error {
	switch ev.Type {
	case model.KindFoul:
		if model.IsShootingFoul(ev.Action) {
			t.hold = true
		}
	case model.KindFreeThrow:
		last, err := cat.IsLastFreeThrow(ev.Action)
		if err != nil {
			return fmt.Errorf("event %d: %w", ev.EventNum, err)
		}
		if last {
			return t.release()
		}
	case model.KindSubstitution:
		sub := Substitution{Leaving: ev.Person1, Entering: ev.Person2}
		if t.hold {
			t.queue = append(t.queue, sub)
			t.deferred++
			return nil
		}
		if err := t.apply(sub); err != nil {
			return fmt.Errorf("event %d: %w", ev.EventNum, err)
		}
	}
	return nil
}

// EndPossession checks that no substitution is left waiting. A queued
// substitution here means a free throw sequence never reached its last shot.
func (t *Tracker) EndPossession() error {
	if len(t.queue) > 0 {
		return fmt.Errorf("%w: %d queued", ErrPendingSubstitutions, len(t.queue))
	}
	return nil
}

// release ends the hold and applies queued substitutions as one batch.
func (t *Tracker) release() error {
	t.hold = false
	queue := t.queue
	t.queue = nil
	for _, sub := range queue {
		if err := t.apply(sub); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) apply(sub Substitution) error {
	idx := t.indexOf(sub.Leaving)
	if idx < 0 {
		return fmt.Errorf("%w: %q leaving", ErrNotOnCourt, sub.Leaving)
	}
	team, ok := t.roster[sub.Entering]
	if !ok {
		return fmt.Errorf("%w: %q entering", ErrUnknownPlayer, sub.Entering)
	}
	if t.OnCourt(sub.Entering) || team != t.roster[sub.Leaving] {
		return fmt.Errorf("%w: %q for %q", ErrLineupSize, sub.Entering, sub.Leaving)
	}
	t.active[idx] = sub.Entering
	return nil
}

func (t *Tracker) indexOf(id string) int {
	for i, p := range t.active {
		if p == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) validate() error {
	counts := make(map[string]int, 2)
	for _, id := range t.active {
		counts[t.roster[id]]++
	}
	for _, team := range t.teams {
		if counts[team] != PlayersPerTeam {
			return fmt.Errorf("%w: team %q has %d", ErrLineupSize, team, counts[team])
		}
	}
	if len(t.active) != 2*PlayersPerTeam {
		return fmt.Errorf("%w: %d players on court", ErrLineupSize, len(t.active))
	}
	return nil
}
