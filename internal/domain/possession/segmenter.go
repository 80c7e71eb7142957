// Package possession splits one period of play-by-play into possessions and
// tags each with the team holding the ball.
//
// The segmenter is a fold: State owns everything it needs, Step consumes one
// event (with a peek at the following one) and Finish closes the trailing
// possession. Segment drives the fold over a sorted slice.
package possession

import (
	"fmt"
	"sort"

	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/model"
)

// Result is the segmentation of one period.
type Result struct {
	Possessions []model.Possession
	// Unassigned holds the plays of a period in which no event ever
	// established possession. It is empty whenever Possessions is not.
	Unassigned []model.Event
	// Resyncs counts made shots whose shooter disagreed with the recorded
	// possession.
	Resyncs  int
	Inferred map[Source]int
}

// State is the segmenter state for one period.
type State struct {
	period  int
	teams   model.Teams
	roster  model.Roster
	catalog *catalog.Catalog

	possessor string // empty until the first event establishes it
	prev      model.Event
	current   []model.Event
	result    Result
}

// NewSegmenter creates the segmenter for one period.
func NewSegmenter(period int, teams model.Teams, roster model.Roster, cat *catalog.Catalog) (*State, error) {
	if teams[0] == "" || teams[1] == "" || teams[0] == teams[1] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTeams, teams)
	}
	return &State{
		period:  period,
		teams:   teams,
		roster:  roster,
		catalog: cat,
		result:  Result{Inferred: make(map[Source]int)},
	}, nil
}

// Possessor returns the team currently holding the ball, or "" before the
// period's opening event.
func (s *State) Possessor() string {
	return s.possessor
}

// Step folds one event into the state. next is the event after cur, or nil.
func (s *State) Step(cur, next *model.Event) error {
	if s.possessor == "" {
		s.current = append(s.current, *cur)
		if s.opens(cur) {
			s.possessor = cur.TeamID
			s.prev = *cur
		}
		return nil
	}

	change, err := s.changes(cur, next)
	if err != nil {
		return fmt.Errorf("period %d event %d: %w", s.period, cur.EventNum, err)
	}
	if change {
		s.close()
		s.possessor, _ = s.teams.Opponent(s.possessor)
	}
	if cur.Type == model.KindMadeShot {
		s.resync(cur)
	}
	s.current = append(s.current, *cur)
	s.prev = *cur
	return nil
}

// Finish closes the trailing possession and returns the segmentation.
func (s *State) Finish() Result {
	if s.possessor == "" {
		s.result.Unassigned = append(s.result.Unassigned, s.current...)
		s.current = nil
		return s.result
	}
	s.close()
	return s.result
}

// opens reports whether cur establishes the period's first possession. Only
// periods 2 through 4 start on an inbound; the first period and overtimes
// start on a jump ball.
func (s *State) opens(cur *model.Event) bool {
	if !s.teams.Has(cur.TeamID) {
		return false
	}
	if cur.Type == model.KindJumpBall {
		return true
	}
	return s.period > 1 && s.period < 5 && cur.Type != model.KindPeriodMarker
}

// changes decides whether possession flips before cur, given the previous event.
func (s *State) changes(cur, next *model.Event) (bool, error) {
	switch s.prev.Type {
	case model.KindMadeShot:
		if cur.Type != model.KindFoul {
			return true, nil
		}
		team, err := s.resolve(cur, next)
		if err != nil {
			return false, err
		}
		if team == s.possessor {
			return true, nil
		}
		// A defensive foul after a basket keeps the ball with the scorer
		// until the and-one resolves, except for the charge code.
		return cur.Action == model.FoulActionOffensiveCharge, nil

	case model.KindTurnover:
		return true, nil

	case model.KindFreeThrow:
		admin, err := s.catalog.IsAdministrative(s.prev.Action)
		if err != nil {
			return false, err
		}
		if admin {
			return false, nil
		}
		last, err := s.catalog.IsLastFreeThrow(s.prev.Action)
		if err != nil || !last {
			return false, err
		}
		if s.prev.Made() {
			return true, nil
		}
		return s.defensiveRebound(cur, next)

	case model.KindMissedShot:
		return s.defensiveRebound(cur, next)
	}
	return false, nil
}

func (s *State) defensiveRebound(cur, next *model.Event) (bool, error) {
	if cur.Type != model.KindRebound {
		return false, nil
	}
	team, err := s.resolve(cur, next)
	if err != nil {
		return false, err
	}
	return team != s.possessor, nil
}

func (s *State) resolve(cur, next *model.Event) (string, error) {
	res := ResolveTeam(cur, next, s.teams, s.roster)
	if !res.Resolved() {
		return "", fmt.Errorf("%w: %s by %q", ErrTeamUnresolved, cur.Type, cur.Person1)
	}
	if res.Source != SourceRoster {
		s.result.Inferred[res.Source]++
	}
	return res.Team, nil
}

// resync realigns possession with the shooter of a made basket.
func (s *State) resync(cur *model.Event) {
	team, ok := s.roster[cur.Person1]
	if !ok || team == s.possessor || !s.teams.Has(team) {
		return
	}
	s.possessor = team
	s.result.Resyncs++
}

func (s *State) close() {
	if len(s.current) == 0 {
		return
	}
	s.result.Possessions = append(s.result.Possessions, model.Possession{
		Team:  s.possessor,
		Plays: s.current,
	})
	s.current = nil
}

// Segment folds a period's events, which must already be in play order.
func Segment(period int, events []model.Event, teams model.Teams, roster model.Roster, cat *catalog.Catalog) (Result, error) {
	s, err := NewSegmenter(period, teams, roster, cat)
	if err != nil {
		return Result{}, err
	}
	for i := range events {
		var next *model.Event
		if i+1 < len(events) {
			next = &events[i+1]
		}
		if err := s.Step(&events[i], next); err != nil {
			return Result{}, err
		}
	}
	return s.Finish(), nil
}

// SortEvents returns a copy of events in play order: game clock descending,
// then wall clock ascending, then event number ascending.
func SortEvents(events []model.Event) []model.Event {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.PCTime != b.PCTime {
			return a.PCTime > b.PCTime
		}
		if a.WCTime != b.WCTime {
			return a.WCTime < b.WCTime
		}
		return a.EventNum < b.EventNum
	})
	return sorted
}
