package model

// RatingRow is one line of the ratings report. Nil ratings are missing: the
// player never spent a possession on that side of the ball.
type RatingRow struct {
	GameID   string
	PlayerID string
	OffRtg   *float64
	DefRtg   *float64
}

// GameStats summarizes how a game was reconstructed.
type GameStats struct {
	Periods       int
	Possessions   int
	Plays         int
	Resyncs       int
	DeferredSubs  int
	InferredTeams map[string]int // inference source -> count
	Points        map[string]int // team -> points scored
}

// GameResult is the output of processing one game.
type GameResult struct {
	GameID string
	Rows   []RatingRow
	Stats  GameStats
}

// GameFailure records a game that could not be rated.
type GameFailure struct {
	GameID string
	Err    error
}
