package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)

	"github.com/okian/possession/internal/domain/model"
)

// SQLiteStore files every row under one run in a SQLite database.
type SQLiteStore struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path, initializes
// the schema and registers a new run.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrStorage, err)
	}
	// Workers write concurrently; SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to enable foreign keys: %w", ErrStorage, err)
	}
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s := &SQLiteStore{db: db, runID: uuid.NewString(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, started_at) VALUES (?, ?)`,
		s.runID, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to insert run: %w", ErrStorage, err)
	}
	return s, nil
}

// RunID returns the id of the run this store writes to.
func (s *SQLiteStore) RunID() string {
	return s.runID
}

// PutResult implements Store.
func (s *SQLiteStore) PutResult(ctx context.Context, res model.GameResult) error {
	if res.GameID == "" {
		return ErrEmptyGameID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ratings WHERE run_id = ? AND game_id = ?`, s.runID, res.GameID); err != nil {
		return fmt.Errorf("%w: failed to clear game %s: %w", ErrStorage, res.GameID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM failures WHERE run_id = ? AND game_id = ?`, s.runID, res.GameID); err != nil {
		return fmt.Errorf("%w: failed to clear failure %s: %w", ErrStorage, res.GameID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ratings (run_id, game_id, seq, player_id, off_rtg, def_rtg)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %w", ErrStorage, err)
	}
	defer stmt.Close()

	for i, row := range res.Rows {
		if _, err := stmt.ExecContext(ctx, s.runID, res.GameID, i, row.PlayerID, row.OffRtg, row.DefRtg); err != nil {
			return fmt.Errorf("%w: failed to insert rating %s/%s: %w", ErrStorage, res.GameID, row.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit game %s: %w", ErrStorage, res.GameID, err)
	}
	return nil
}

// PutFailure implements Store.
func (s *SQLiteStore) PutFailure(ctx context.Context, f model.GameFailure) error {
	if f.GameID == "" {
		return ErrEmptyGameID
	}
	msg := "unknown error"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO failures (run_id, game_id, error) VALUES (?, ?, ?)`,
		s.runID, f.GameID, msg)
	if err != nil {
		return fmt.Errorf("%w: failed to insert failure %s: %w", ErrStorage, f.GameID, err)
	}
	return nil
}

// Rows implements Store.
func (s *SQLiteStore) Rows(ctx context.Context) ([]model.RatingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player_id, off_rtg, def_rtg
		FROM ratings
		WHERE run_id = ?
		ORDER BY game_id, seq
	`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query ratings: %w", ErrStorage, err)
	}
	defer rows.Close()

	var out []model.RatingRow
	for rows.Next() {
		var (
			row      model.RatingRow
			off, def sql.NullFloat64
		)
		if err := rows.Scan(&row.GameID, &row.PlayerID, &off, &def); err != nil {
			return nil, fmt.Errorf("%w: failed to scan rating: %w", ErrStorage, err)
		}
		if off.Valid {
			row.OffRtg = &off.Float64
		}
		if def.Valid {
			row.DefRtg = &def.Float64
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return out, nil
}

// Failures implements Store.
func (s *SQLiteStore) Failures(ctx context.Context) ([]model.GameFailure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, error FROM failures WHERE run_id = ? ORDER BY game_id`, s.runID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query failures: %w", ErrStorage, err)
	}
	defer rows.Close()

	var out []model.GameFailure
	for rows.Next() {
		var id, msg string
		if err := rows.Scan(&id, &msg); err != nil {
			return nil, fmt.Errorf("%w: failed to scan failure: %w", ErrStorage, err)
		}
		out = append(out, model.GameFailure{GameID: id, Err: errors.New(msg)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return out, nil
}

// Count implements Store. Query errors count as zero.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE run_id = ?`, s.runID).Scan(&n); err != nil {
		return 0
	}
	return n
}

// FinishRun stamps the run with its end time and totals.
func (s *SQLiteStore) FinishRun(ctx context.Context, games, failures int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, games = ?, failures = ? WHERE id = ?`,
		s.now().UTC().Format(time.RFC3339), games, failures, s.runID)
	if err != nil {
		return fmt.Errorf("%w: failed to finish run: %w", ErrStorage, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
