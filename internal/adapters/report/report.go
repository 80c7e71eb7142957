// Package report writes rating rows as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/possession/internal/domain/model"
)

// Header is the first line of every report.
var Header = []string{"Game_ID", "Player_ID", "OffRtg", "DefRtg"}

// Write writes the header and one line per row. Missing ratings are left
// empty.
func Write(w io.Writer, rows []model.RatingRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(Header))
	for _, row := range rows {
		rec[0] = row.GameID
		rec[1] = row.PlayerID
		rec[2] = formatRating(row.OffRtg)
		rec[3] = formatRating(row.DefRtg)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s/%s: %w", row.GameID, row.PlayerID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the report to path through a temporary file so a failed
// run never leaves a truncated report behind.
func WriteFile(path string, rows []model.RatingRow) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, rows); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

func formatRating(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
