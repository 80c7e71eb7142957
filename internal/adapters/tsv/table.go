// Package tsv reads the tab-separated input tables: event codes, game
// lineups and play-by-play.
package tsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// table walks the rows of a header-indexed tab-separated file.
type table struct {
	name   string
	r      *csv.Reader
	index  map[string]int
	record []string
	line   int
}

func newTable(name string, r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	t := &table{name: name, r: cr, index: make(map[string]int, len(header)), line: 1}
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("%s: %w %q", name, ErrMissingColumn, col)
		}
	}
	return t, nil
}

// next advances to the following row. It returns false at end of input.
func (t *table) next() (bool, error) {
	rec, err := t.r.Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	t.line++
	if err != nil {
		return false, fmt.Errorf("%s line %d: %w", t.name, t.line, err)
	}
	t.record = rec
	return true, nil
}

func (t *table) str(col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(t.record) {
		return ""
	}
	return strings.TrimSpace(t.record[i])
}

// int parses an integer column. Empty cells read as zero. Some exports
// write integers as floats ("3.0"), which are accepted when whole.
func (t *table) int(col string) (int, error) {
	v, err := t.int64(col)
	return int(v), err
}

func (t *table) int64(col string) (int64, error) {
	s := t.str(col)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("%s line %d: %w: %s=%q", t.name, t.line, ErrBadField, col, s)
	}
	return int64(f), nil
}
