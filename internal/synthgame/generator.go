// Package synthgame generates internally consistent play-by-play for whole
// games, together with the totals a correct reconstruction must reproduce.
// It feeds tests and the synth-games tool.
package synthgame

import (
	"fmt"
	"math/rand/v2"

	"github.com/okian/possession/internal/domain/model"
)

// Game clock and roster constants.
const (
	RegulationPeriods = 4
	PeriodClock       = 7200 // tenths of a second
	OvertimeClock     = 3000
	ActivePerTeam     = 8
	OnCourtPerTeam    = 5

	defaultSubRate = 0.15
)

// Game is one generated game.
type Game struct {
	ID      string
	Teams   model.Teams
	Lineups []model.LineupEntry
	Events  []model.Event
	Truth   Truth
}

// Input returns the game as processor input.
func (g *Game) Input() model.GameInput {
	return model.GameInput{GameID: g.ID, Lineups: g.Lineups, Events: g.Events}
}

// Truth holds the totals the generator knows by construction.
type Truth struct {
	Periods      int
	Possessions  int
	DeferredSubs int
	TeamRebounds int
	Points       map[string]int
}

type generator struct {
	seed         uint64
	overtimes    int
	subRate      float64
	teamRebounds bool

	rng     *rand.Rand
	id      string
	teams   model.Teams
	players [2][]string
	onCourt [2][]string

	period    int
	clock     int
	wc        int64
	eventNum  int
	forceShot bool

	game Game
}

// Generate builds one game.
func Generate(id string, opts ...Option) Game {
	g := &generator{subRate: defaultSubRate, teamRebounds: true}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	g.id = id
	g.wc = 1_000_000
	g.teams = model.Teams{"T" + id + "A", "T" + id + "B"}
	g.game = Game{
		ID:    id,
		Teams: g.teams,
		Truth: Truth{Points: map[string]int{g.teams[0]: 0, g.teams[1]: 0}},
	}

	g.roster()
	for period := 1; period <= RegulationPeriods+g.overtimes; period++ {
		g.playPeriod(period)
	}
	return g.game
}

// Batch builds n games with consecutive seeds and ids.
func Batch(n int, seed uint64, opts ...Option) []Game {
	games := make([]Game, n)
	for i := range games {
		id := fmt.Sprintf("00219%05d", i+1)
		games[i] = Generate(id, append(opts, WithSeed(seed+uint64(i)))...)
	}
	return games
}

// roster writes the period 0 rows: every active player plus one inactive
// player per team.
func (g *generator) roster() {
	for t, team := range g.teams {
		for i := 0; i < ActivePerTeam; i++ {
			id := fmt.Sprintf("P%s%c%02d", g.id, 'A'+t, i)
			g.players[t] = append(g.players[t], id)
			g.lineupRow(0, id, team, model.StatusActive)
		}
		g.lineupRow(0, fmt.Sprintf("P%s%cDNP", g.id, 'A'+t), team, model.StatusInactive)
	}
}

func (g *generator) lineupRow(period int, person, team, status string) {
	g.game.Lineups = append(g.game.Lineups, model.LineupEntry{
		GameID:   g.id,
		Period:   period,
		PersonID: person,
		TeamID:   team,
		Status:   status,
	})
}

func (g *generator) playPeriod(period int) {
	g.period = period
	g.clock = PeriodClock
	if period > RegulationPeriods {
		g.clock = OvertimeClock
	}
	g.game.Truth.Periods++

	for t, team := range g.teams {
		perm := g.rng.Perm(len(g.players[t]))
		g.onCourt[t] = g.onCourt[t][:0]
		for _, i := range perm[:OnCourtPerTeam] {
			g.onCourt[t] = append(g.onCourt[t], g.players[t][i])
			g.lineupRow(period, g.players[t][i], team, model.StatusActive)
		}
	}

	g.emit(model.Event{Type: model.KindStartPeriod})

	var offense int
	if period == 1 || period > RegulationPeriods {
		offense = g.rng.IntN(2)
		g.emit(model.Event{
			Type:    model.KindJumpBall,
			TeamID:  g.teams[offense],
			Person1: g.pick(offense),
			Person2: g.pick(1 - offense),
		})
	} else {
		// Periods 2-4 open on the first play by the team with the ball.
		offense = period % 2
		g.forceShot = true
	}

	possessions := 0
	for g.clock > 0 {
		offense = g.possession(offense, possessions > 0)
		possessions++
		if !g.forceShot && g.clock > 0 && g.rng.Float64() < g.subRate {
			g.substitute()
		}
	}
	g.emit(model.Event{Type: model.KindEndPeriod})

	// The end-of-period row forms one more possession after the last change.
	g.game.Truth.Possessions += possessions + 1
}

// possession plays until the ball changes hands and returns the new offense.
func (g *generator) possession(o int, fillers bool) int {
	d := 1 - o
	if fillers && !g.forceShot && g.rng.IntN(40) == 0 {
		g.emit(model.Event{Type: model.KindTimeout, Action: ActionRegularTimeout, TeamID: g.teams[o]})
	}
	for {
		g.tick(30, 180)
		roll := g.rng.IntN(100)
		if g.forceShot {
			roll = 99
			g.forceShot = false
		}
		switch {
		case roll < 8:
			g.turnover(o)
			return d
		case roll < 11:
			g.emit(model.Event{Type: model.KindFoul, Action: ActionPersonalFoul, TeamID: g.teams[d], Person1: g.pick(d)})
		case roll < 12:
			g.emit(model.Event{Type: model.KindViolation, Action: ActionKickedBall, TeamID: g.teams[d], Person1: g.pick(d)})
		case roll < 20:
			shots := 2
			if g.rng.IntN(5) == 0 {
				shots = 3
			}
			if next, done := g.freeThrows(o, g.pick(o), shots); done {
				return next
			}
		default:
			if next, done := g.fieldGoal(o); done {
				return next
			}
		}
	}
}

func (g *generator) turnover(o int) {
	player := g.pick(o)
	action := ActionBadPass
	if g.rng.IntN(4) == 0 {
		g.emit(model.Event{Type: model.KindFoul, Action: ActionOffensiveFoul, TeamID: g.teams[o], Person1: player})
		action = ActionOffensiveFoulTO
	}
	g.emit(model.Event{Type: model.KindTurnover, Action: action, TeamID: g.teams[o], Person1: player})
}

func (g *generator) fieldGoal(o int) (int, bool) {
	shooter := g.pick(o)
	points, action := 2, ActionLayup
	if g.rng.IntN(3) == 0 {
		points, action = 3, ActionJumpShot
	}
	if g.rng.IntN(100) >= 47 {
		g.emit(model.Event{Type: model.KindMissedShot, Action: action, TeamID: g.teams[o], Person1: shooter, Option1: points})
		return g.rebound(o)
	}

	g.emit(model.Event{Type: model.KindMadeShot, Action: action, TeamID: g.teams[o], Person1: shooter, Option1: points})
	g.game.Truth.Points[g.teams[o]] += points
	if g.rng.IntN(12) == 0 {
		return g.freeThrows(o, shooter, 1)
	}
	return 1 - o, true
}

// freeThrows plays a shooting foul by the defense and the free throws that
// follow. Substitutions reported during the sequence only take effect after
// the last shot.
func (g *generator) freeThrows(o int, shooter string, shots int) (int, bool) {
	d := 1 - o
	g.emit(model.Event{Type: model.KindFoul, Action: ActionShootingFoul, TeamID: g.teams[d], Person1: g.pick(d)})

	var queued [2][2]string
	held := [2]bool{}
	for t := range g.teams {
		if g.rng.Float64() >= g.subRate {
			continue
		}
		leaving, entering := g.pick(t), g.bench(t)
		g.emit(model.Event{Type: model.KindSubstitution, TeamID: g.teams[t], Person1: leaving, Person2: entering})
		queued[t] = [2]string{leaving, entering}
		held[t] = true
		g.game.Truth.DeferredSubs++
	}

	made := false
	for _, action := range freeThrowActions[shots] {
		made = g.rng.IntN(100) < 76
		ev := model.Event{Type: model.KindFreeThrow, Action: action, TeamID: g.teams[o], Person1: shooter}
		if made {
			ev.Option1 = 1
			g.game.Truth.Points[g.teams[o]]++
		}
		g.emit(ev)
	}
	for t := range g.teams {
		if held[t] {
			g.swap(t, queued[t][0], queued[t][1])
		}
	}

	if made {
		return d, true
	}
	return g.rebound(o)
}

func (g *generator) rebound(o int) (int, bool) {
	d := 1 - o
	if g.rng.IntN(100) < 27 {
		g.emit(model.Event{Type: model.KindRebound, TeamID: g.teams[o], Person1: g.pick(o)})
		return 0, false
	}
	if g.teamRebounds && g.clock > 0 && g.rng.IntN(10) == 0 {
		// Credited to the team id; the next play tells whose ball it is.
		g.emit(model.Event{Type: model.KindRebound, TeamID: g.teams[d], Person1: g.teams[d]})
		g.game.Truth.TeamRebounds++
		g.forceShot = true
		return d, true
	}
	g.emit(model.Event{Type: model.KindRebound, TeamID: g.teams[d], Person1: g.pick(d)})
	return d, true
}

// substitute swaps one player of a random team outside any free throw.
func (g *generator) substitute() {
	t := g.rng.IntN(2)
	leaving, entering := g.pick(t), g.bench(t)
	g.emit(model.Event{Type: model.KindSubstitution, TeamID: g.teams[t], Person1: leaving, Person2: entering})
	g.swap(t, leaving, entering)
}

func (g *generator) swap(t int, leaving, entering string) {
	for i, p := range g.onCourt[t] {
		if p == leaving {
			g.onCourt[t][i] = entering
			return
		}
	}
}

func (g *generator) pick(t int) string {
	return g.onCourt[t][g.rng.IntN(len(g.onCourt[t]))]
}

func (g *generator) bench(t int) string {
	var bench []string
	for _, p := range g.players[t] {
		if !contains(g.onCourt[t], p) {
			bench = append(bench, p)
		}
	}
	return bench[g.rng.IntN(len(bench))]
}

func (g *generator) tick(lo, hi int) {
	g.clock -= lo + g.rng.IntN(hi-lo+1)
	if g.clock < 0 {
		g.clock = 0
	}
}

func (g *generator) emit(ev model.Event) {
	g.eventNum++
	g.wc += 1 + int64(g.rng.IntN(30))
	ev.GameID = g.id
	ev.Period = g.period
	ev.PCTime = g.clock
	ev.WCTime = g.wc
	ev.EventNum = g.eventNum
	g.game.Events = append(g.game.Events, ev)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
