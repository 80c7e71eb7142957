package synthgame

import (
	"io"
	"path/filepath"

	"github.com/okian/possession/internal/adapters/tsv"
	"github.com/okian/possession/internal/domain/model"
)

// Input file names written by WriteDataset.
const (
	EventCodesFile = "Event_Codes.txt"
	LineupFile     = "Game_Lineup.txt"
	PlayByPlayFile = "Play_by_Play.txt"
)

// WriteDataset writes games as the three input tables under dir and returns
// their paths.
func WriteDataset(dir string, games []Game) (tsv.Paths, error) {
	paths := tsv.Paths{
		EventCodes: filepath.Join(dir, EventCodesFile),
		Lineups:    filepath.Join(dir, LineupFile),
		PlayByPlay: filepath.Join(dir, PlayByPlayFile),
	}

	var (
		lineups []model.LineupEntry
		events  []model.Event
	)
	for i := range games {
		lineups = append(lineups, games[i].Lineups...)
		events = append(events, games[i].Events...)
	}

	if err := tsv.WriteFile(paths.EventCodes, func(w io.Writer) error {
		return tsv.WriteEventCodes(w, EventCodes())
	}); err != nil {
		return tsv.Paths{}, err
	}
	if err := tsv.WriteFile(paths.Lineups, func(w io.Writer) error {
		return tsv.WriteLineups(w, lineups)
	}); err != nil {
		return tsv.Paths{}, err
	}
	if err := tsv.WriteFile(paths.PlayByPlay, func(w io.Writer) error {
		return tsv.WritePlayByPlay(w, events)
	}); err != nil {
		return tsv.Paths{}, err
	}
	return paths, nil
}
