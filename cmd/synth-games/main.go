// Command synth-games writes a synthetic play-by-play dataset for exercising
// the ratings batch end to end.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/possession/internal/synthgame"
	"github.com/okian/possession/pkg/logger"
)

// Default generator settings.
const (
	defaultGames   = 100
	defaultSeed    = 1
	defaultOutDir  = "data"
	defaultSubRate = 0.15
)

func main() {
	var (
		games     = flag.Int("games", defaultGames, "Number of games to generate")
		seed      = flag.Uint64("seed", defaultSeed, "Seed of the first game; game i uses seed+i")
		outDir    = flag.String("out", defaultOutDir, "Directory receiving the three input tables")
		overtimes = flag.Int("overtimes", 0, "Overtime periods added to every game")
		subRate   = flag.Float64("sub-rate", defaultSubRate, "Chance of a substitution between possessions")
		noTeamReb = flag.Bool("no-team-rebounds", false, "Credit every rebound to a player")
	)
	flag.Parse()

	_ = logger.Init()
	log := logger.Get().Named("synth-games")
	ctx := context.Background()

	if *games <= 0 {
		log.Error(ctx, "games must be positive", logger.Int("games", *games))
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error(ctx, "failed to create output directory", logger.String("dir", *outDir), logger.Error(err))
		os.Exit(1)
	}

	batch := synthgame.Batch(*games, *seed,
		synthgame.WithOvertimes(*overtimes),
		synthgame.WithSubstitutionRate(*subRate),
		synthgame.WithTeamRebounds(!*noTeamReb),
	)
	paths, err := synthgame.WriteDataset(*outDir, batch)
	if err != nil {
		log.Error(ctx, "failed to write dataset", logger.Error(err))
		os.Exit(1)
	}

	var possessions, events int
	for i := range batch {
		possessions += batch[i].Truth.Possessions
		events += len(batch[i].Events)
	}
	log.Info(ctx, "dataset written",
		logger.String("event_codes", paths.EventCodes),
		logger.String("lineups", paths.Lineups),
		logger.String("play_by_play", paths.PlayByPlay),
		logger.Int("games", len(batch)),
		logger.Int("events", events),
		logger.Int("possessions", possessions),
	)
}
