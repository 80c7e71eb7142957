package tsv

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/possession/internal/domain/dedupe"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Column names.
const (
	colEventType        = "Event_Msg_Type"
	colActionType       = "Action_Type"
	colEventDescription = "Event_Msg_Type_Description"
	colActionDesc       = "Action_Type_Description"

	colGameID   = "Game_id"
	colPeriod   = "Period"
	colPersonID = "Person_id"
	colTeamID   = "Team_id"
	colStatus   = "status"

	colEventNum = "Event_Num"
	colWCTime   = "WC_Time"
	colPCTime   = "PC_Time"
	colOption1  = "Option1"
	colPerson1  = "Person1"
	colPerson2  = "Person2"
)

// Dataset is the full input of a batch.
type Dataset struct {
	Codes      []model.EventCode
	Lineups    []model.LineupEntry
	Events     []model.Event
	Duplicates int
}

// Paths names the three input files.
type Paths struct {
	EventCodes string
	Lineups    string
	PlayByPlay string
}

// ReadEventCodes parses the event code table.
func ReadEventCodes(r io.Reader) ([]model.EventCode, error) {
	t, err := newTable("event codes", r, colEventType, colActionType, colEventDescription, colActionDesc)
	if err != nil {
		return nil, err
	}
	var out []model.EventCode
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		kind, err := t.int(colEventType)
		if err != nil {
			return nil, err
		}
		action, err := t.int(colActionType)
		if err != nil {
			return nil, err
		}
		out = append(out, model.EventCode{
			Type:              model.EventKind(kind),
			Action:            action,
			EventDescription:  t.str(colEventDescription),
			ActionDescription: t.str(colActionDesc),
		})
	}
}

// ReadLineups parses the game lineup table.
func ReadLineups(r io.Reader) ([]model.LineupEntry, error) {
	t, err := newTable("lineups", r, colGameID, colPeriod, colPersonID, colTeamID)
	if err != nil {
		return nil, err
	}
	var out []model.LineupEntry
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		period, err := t.int(colPeriod)
		if err != nil {
			return nil, err
		}
		out = append(out, model.LineupEntry{
			GameID:   t.str(colGameID),
			Period:   period,
			PersonID: t.str(colPersonID),
			TeamID:   t.str(colTeamID),
			Status:   t.str(colStatus),
		})
	}
}

// ReadPlayByPlay parses the play-by-play table.
func ReadPlayByPlay(r io.Reader) ([]model.Event, error) {
	t, err := newTable("play by play", r,
		colGameID, colEventNum, colEventType, colPeriod, colWCTime, colPCTime,
		colActionType, colOption1, colTeamID, colPerson1, colPerson2)
	if err != nil {
		return nil, err
	}
	var out []model.Event
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		ev, err := readEvent(t)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
}

func readEvent(t *table) (model.Event, error) {
	ev := model.Event{
		GameID:  t.str(colGameID),
		TeamID:  t.str(colTeamID),
		Person1: t.str(colPerson1),
		Person2: t.str(colPerson2),
	}
	var (
		kind int
		err  error
	)
	for _, f := range []struct {
		col string
		dst *int
	}{
		{colEventNum, &ev.EventNum},
		{colEventType, &kind},
		{colPeriod, &ev.Period},
		{colPCTime, &ev.PCTime},
		{colActionType, &ev.Action},
		{colOption1, &ev.Option1},
	} {
		if *f.dst, err = t.int(f.col); err != nil {
			return model.Event{}, err
		}
	}
	if ev.WCTime, err = t.int64(colWCTime); err != nil {
		return model.Event{}, err
	}
	ev.Type = model.EventKind(kind)
	return ev, nil
}

// Load reads the three input files and drops repeated play-by-play rows.
func Load(ctx context.Context, paths Paths, d dedupe.Deduper) (Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Codes, err = readFile(paths.EventCodes, ReadEventCodes); err != nil {
		return Dataset{}, err
	}
	if ds.Lineups, err = readFile(paths.Lineups, ReadLineups); err != nil {
		return Dataset{}, err
	}
	events, err := readFile(paths.PlayByPlay, ReadPlayByPlay)
	if err != nil {
		return Dataset{}, err
	}

	ds.Events, ds.Duplicates = dedupe.Filter(ctx, d, events)
	if ds.Duplicates > 0 {
		metrics.RecordEventsDuplicate(ds.Duplicates)
		logger.Get().Named("tsv").Warn(ctx, "dropped repeated play-by-play rows",
			logger.Int("count", ds.Duplicates))
	}
	logger.Get().Named("tsv").Info(ctx, "input loaded",
		logger.Int("codes", len(ds.Codes)),
		logger.Int("lineup_rows", len(ds.Lineups)),
		logger.Int("events", len(ds.Events)))
	return ds, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
