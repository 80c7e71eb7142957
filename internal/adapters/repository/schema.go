package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	games INTEGER NOT NULL DEFAULT 0,
	failures INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ratings (
	run_id TEXT NOT NULL,
	game_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	off_rtg REAL,
	def_rtg REAL,
	PRIMARY KEY(run_id, game_id, player_id),
	FOREIGN KEY(run_id) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS failures (
	run_id TEXT NOT NULL,
	game_id TEXT NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY(run_id, game_id),
	FOREIGN KEY(run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_ratings_game ON ratings(run_id, game_id, seq);
`

// InitSchema creates the tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
