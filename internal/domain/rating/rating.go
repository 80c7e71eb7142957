// Package rating accumulates points and possessions for the players on court
// and turns them into points per 100 possessions.
package rating

import (
	"fmt"

	"github.com/okian/possession/internal/domain/model"
)

// Per100 scales raw ratings to points per 100 possessions.
const Per100 = 100

// PlayerState is the running tally of one player in one game. All counters
// only grow.
type PlayerState struct {
	Team           string
	Active         bool
	RawOffRtg      int // points scored by the player's team while on court
	RawDefRtg      int // points allowed while on court
	OffPossessions int
	DefPossessions int
	PersonalPoints int
}

// OffRtg returns the offensive rating, or false when the player never played
// an offensive possession.
func (p *PlayerState) OffRtg() (float64, bool) {
	return per100(p.RawOffRtg, p.OffPossessions)
}

// DefRtg returns the defensive rating, or false when the player never played
// a defensive possession.
func (p *PlayerState) DefRtg() (float64, bool) {
	return per100(p.RawDefRtg, p.DefPossessions)
}

func per100(points, possessions int) (float64, bool) {
	if possessions == 0 {
		return 0, false
	}
	return float64(points) / float64(possessions) * Per100, true
}

// Accumulator owns the player states of one game.
type Accumulator struct {
	order   []string
	players map[string]*PlayerState
	points  map[string]int // team -> points scored
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		players: make(map[string]*PlayerState),
		points:  make(map[string]int),
	}
}

// Register adds a player from the game roster.
func (a *Accumulator) Register(id, team string, active bool) error {
	if _, exists := a.players[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlayer, id)
	}
	a.order = append(a.order, id)
	a.players[id] = &PlayerState{Team: team, Active: active}
	return nil
}

// Player returns a snapshot of a player's state.
func (a *Accumulator) Player(id string) (PlayerState, bool) {
	p, ok := a.players[id]
	if !ok {
		return PlayerState{}, false
	}
	return *p, true
}

// Len returns the number of registered players.
func (a *Accumulator) Len() int {
	return len(a.order)
}

// BeginPossession credits one offensive possession to the active players of
// offense and one defensive possession to everyone else on court.
func (a *Accumulator) BeginPossession(offense string, active []string) error {
	states, err := a.lookup(active)
	if err != nil {
		return err
	}
	for _, p := range states {
		if p.Team == offense {
			p.OffPossessions++
		} else {
			p.DefPossessions++
		}
	}
	return nil
}

// Score credits points to the lineup on court and to the shooter.
func (a *Accumulator) Score(offense string, active []string, shooter string, points int) error {
	if points <= 0 {
		return nil
	}
	states, err := a.lookup(active)
	if err != nil {
		return err
	}
	scorer, ok := a.players[shooter]
	if !ok {
		return fmt.Errorf("%w: shooter %q", ErrUnknownPlayer, shooter)
	}
	for _, p := range states {
		if p.Team == offense {
			p.RawOffRtg += points
		} else {
			p.RawDefRtg += points
		}
	}
	scorer.PersonalPoints += points
	a.points[offense] += points
	return nil
}

// TeamPoints returns the points credited to each offense so far.
func (a *Accumulator) TeamPoints() map[string]int {
	out := make(map[string]int, len(a.points))
	for team, n := range a.points {
		out[team] = n
	}
	return out
}

// Observe scores a play if it put points on the board.
func (a *Accumulator) Observe(offense string, active []string, ev *model.Event) error {
	switch ev.Type {
	case model.KindMadeShot:
		return a.Score(offense, active, ev.Person1, ev.Option1)
	case model.KindFreeThrow:
		if ev.Made() {
			return a.Score(offense, active, ev.Person1, 1)
		}
	}
	return nil
}

// Finalize returns one report row per registered player, in roster order.
func (a *Accumulator) Finalize(gameID string) []model.RatingRow {
	rows := make([]model.RatingRow, 0, len(a.order))
	for _, id := range a.order {
		p := a.players[id]
		row := model.RatingRow{GameID: gameID, PlayerID: id}
		if v, ok := p.OffRtg(); ok {
			row.OffRtg = &v
		}
		if v, ok := p.DefRtg(); ok {
			row.DefRtg = &v
		}
		rows = append(rows, row)
	}
	return rows
}

func (a *Accumulator) lookup(ids []string) ([]*PlayerState, error) {
	states := make([]*PlayerState, len(ids))
	for i, id := range ids {
		p, ok := a.players[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
		}
		states[i] = p
	}
	return states, nil
}
