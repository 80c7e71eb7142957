package tsv

import "errors"

// Sentinel errors for TSV input.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadField      = errors.New("malformed field")
	ErrEmptyTable    = errors.New("table has no header")
)
