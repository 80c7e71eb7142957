package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/okian/possession/internal/domain/model"
)

// WriteEventCodes writes the event code table.
func WriteEventCodes(w io.Writer, codes []model.EventCode) error {
	return writeTable(w, []string{colEventType, colActionType, colEventDescription, colActionDesc}, len(codes), func(i int) []string {
		c := codes[i]
		return []string{strconv.Itoa(int(c.Type)), strconv.Itoa(c.Action), c.EventDescription, c.ActionDescription}
	})
}

// WriteLineups writes the game lineup table.
func WriteLineups(w io.Writer, rows []model.LineupEntry) error {
	return writeTable(w, []string{colGameID, colPeriod, colPersonID, colTeamID, colStatus}, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.GameID, strconv.Itoa(r.Period), r.PersonID, r.TeamID, r.Status}
	})
}

// WritePlayByPlay writes the play-by-play table.
func WritePlayByPlay(w io.Writer, events []model.Event) error {
	header := []string{
		colGameID, colEventNum, colEventType, colPeriod, colWCTime, colPCTime,
		colActionType, colOption1, colTeamID, colPerson1, colPerson2,
	}
	return writeTable(w, header, len(events), func(i int) []string {
		e := events[i]
		return []string{
			e.GameID,
			strconv.Itoa(e.EventNum),
			strconv.Itoa(int(e.Type)),
			strconv.Itoa(e.Period),
			strconv.FormatInt(e.WCTime, 10),
			strconv.Itoa(e.PCTime),
			strconv.Itoa(e.Action),
			strconv.Itoa(e.Option1),
			e.TeamID,
			e.Person1,
			e.Person2,
		}
	})
}

// WriteFile creates path and writes one table into it.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func writeTable(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
