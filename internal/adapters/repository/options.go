package repository

import "time"

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithRunID sets the run id rows are filed under. A random id is used
// otherwise.
func WithRunID(id string) Option {
	return func(s *SQLiteStore) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithClock overrides the time source for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}
