// Package game rates one game: it rebuilds the roster, walks every period
// through possession segmentation and lineup tracking, and accumulates
// ratings for the players on court.
package game

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/lineup"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/internal/domain/rating"
	"github.com/okian/possession/pkg/logger"
)

// Processor rates games against a shared, read-only event catalog. It holds
// no per-game state and may be used from several goroutines.
type Processor struct {
	catalog *catalog.Catalog
	dump    bool
	logger  logger.Logger
}

// NewProcessor creates a processor.
func NewProcessor(cat *catalog.Catalog, opts ...Option) *Processor {
	p := &Processor{
		catalog: cat,
		logger:  logger.Get().Named("game"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// gameState is everything that carries across the periods of one game.
type gameState struct {
	id      string
	teams   model.Teams
	roster  model.Roster
	acc     *rating.Accumulator
	periods int
	stats   model.GameStats
}

// Process rates one game.
func (p *Processor) Process(ctx context.Context, in model.GameInput) (model.GameResult, error) {
	g, err := newGameState(in)
	if err != nil {
		return model.GameResult{}, fmt.Errorf("game %s: %w", in.GameID, err)
	}

	byPeriod := make(map[int][]model.Event)
	for _, ev := range in.Events {
		byPeriod[ev.Period] = append(byPeriod[ev.Period], ev)
	}
	starters := startersByPeriod(in.Lineups)

	for period := 1; period <= g.periods; period++ {
		if err := ctx.Err(); err != nil {
			return model.GameResult{}, err
		}
		if err := p.processPeriod(ctx, g, period, starters[period], byPeriod[period]); err != nil {
			return model.GameResult{}, fmt.Errorf("game %s period %d: %w", in.GameID, period, err)
		}
	}

	g.stats.Points = g.acc.TeamPoints()
	return model.GameResult{
		GameID: in.GameID,
		Rows:   g.acc.Finalize(in.GameID),
		Stats:  g.stats,
	}, nil
}

func (p *Processor) processPeriod(ctx context.Context, g *gameState, period int, starters []string, events []model.Event) error {
	events = possession.SortEvents(events)
	seg, err := possession.Segment(period, events, g.teams, g.roster, p.catalog)
	if err != nil {
		return err
	}
	tracker, err := lineup.NewTracker(starters, g.teams, g.roster)
	if err != nil {
		return err
	}

	g.stats.Periods++
	g.stats.Plays += len(events)
	g.stats.Possessions += len(seg.Possessions)
	g.stats.Resyncs += seg.Resyncs
	for src, n := range seg.Inferred {
		g.stats.InferredTeams[src.String()] += n
	}
	if len(seg.Unassigned) > 0 {
		p.logger.Warn(ctx, "no event established possession; period not rated",
			logger.String("game", g.id),
			logger.Int("period", period),
			logger.Int("plays", len(seg.Unassigned)),
		)
	}
	if seg.Resyncs > 0 {
		p.logger.Debug(ctx, "possession resynchronized to shooter",
			logger.String("game", g.id),
			logger.Int("period", period),
			logger.Int("resyncs", seg.Resyncs),
		)
	}

	for i := range seg.Possessions {
		poss := &seg.Possessions[i]
		if p.dump {
			p.dumpPossession(ctx, g.id, period, poss)
		}
		if err := g.acc.BeginPossession(poss.Team, tracker.Active()); err != nil {
			return err
		}
		for j := range poss.Plays {
			play := &poss.Plays[j]
			if err := g.acc.Observe(poss.Team, tracker.Active(), play); err != nil {
				return fmt.Errorf("event %d: %w", play.EventNum, err)
			}
			if err := tracker.Observe(play, p.catalog); err != nil {
				return err
			}
		}
		if err := tracker.EndPossession(); err != nil {
			return fmt.Errorf("possession %d: %w", i+1, err)
		}
	}
	g.stats.DeferredSubs += tracker.Deferred()
	return nil
}

func (p *Processor) dumpPossession(ctx context.Context, gameID string, period int, poss *model.Possession) {
	lines := make([]string, len(poss.Plays))
	for i := range poss.Plays {
		lines[i] = p.catalog.Describe(&poss.Plays[i])
	}
	p.logger.Debug(ctx, "possession",
		logger.String("game", gameID),
		logger.Int("period", period),
		logger.String("team", poss.Team),
		logger.String("plays", strings.Join(lines, " | ")),
	)
}

// newGameState builds the roster from the period 0 lineup rows.
func newGameState(in model.GameInput) (*gameState, error) {
	g := &gameState{
		id:     in.GameID,
		roster: make(model.Roster),
		acc:    rating.NewAccumulator(),
		stats:  model.GameStats{InferredTeams: make(map[string]int)},
	}

	var teams []string
	for _, entry := range in.Lineups {
		if entry.Period > g.periods {
			g.periods = entry.Period
		}
		if entry.Period != 0 {
			continue
		}
		if _, seen := g.roster[entry.PersonID]; seen {
			continue
		}
		g.roster[entry.PersonID] = entry.TeamID
		if err := g.acc.Register(entry.PersonID, entry.TeamID, entry.Status == model.StatusActive); err != nil {
			return nil, err
		}
		if !contains(teams, entry.TeamID) {
			teams = append(teams, entry.TeamID)
		}
	}

	if len(g.roster) == 0 {
		return nil, ErrNoRoster
	}
	if len(teams) != 2 {
		return nil, fmt.Errorf("%w: found %d", ErrTeamCount, len(teams))
	}
	g.teams = model.Teams{teams[0], teams[1]}
	return g, nil
}

// startersByPeriod returns the unique players listed for each period, in
// order of appearance.
func startersByPeriod(entries []model.LineupEntry) map[int][]string {
	out := make(map[int][]string)
	for _, entry := range entries {
		if entry.Period == 0 || contains(out[entry.Period], entry.PersonID) {
			continue
		}
		out[entry.Period] = append(out[entry.Period], entry.PersonID)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GroupByGame splits events and lineups into one input per game, ordered by
// game id.
func GroupByGame(events []model.Event, lineups []model.LineupEntry) []model.GameInput {
	byGame := make(map[string]*model.GameInput)
	get := func(id string) *model.GameInput {
		in, ok := byGame[id]
		if !ok {
			in = &model.GameInput{GameID: id}
			byGame[id] = in
		}
		return in
	}
	for _, ev := range events {
		in := get(ev.GameID)
		in.Events = append(in.Events, ev)
	}
	for _, entry := range lineups {
		// Only games that have play-by-play get rated.
		if in, ok := byGame[entry.GameID]; ok {
			in.Lineups = append(in.Lineups, entry)
		}
	}

	ids := make([]string, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.GameInput, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byGame[id])
	}
	return out
}
