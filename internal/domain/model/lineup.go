package model

// Roster statuses.
const (
	StatusActive   = "A"
	StatusInactive = "I"
)

// LineupEntry is one row of the game lineup table. Period 0 rows are the
// roster for the whole game; later periods list the players on court at the
// start of that period.
type LineupEntry struct {
	GameID   string
	Period   int
	PersonID string
	TeamID   string
	Status   string
}

// GameInput is everything needed to rate one game.
type GameInput struct {
	GameID  string
	Lineups []LineupEntry
	Events  []Event
}

// Roster maps person ids to their team for one game.
type Roster map[string]string

// Teams is the pair of teams in a game, in roster order.
type Teams [2]string

// Has reports whether team plays in the game.
func (t Teams) Has(team string) bool {
	return team != "" && (t[0] == team || t[1] == team)
}

// Opponent returns the other team.
func (t Teams) Opponent(team string) (string, bool) {
	switch team {
	case "":
		return "", false
	case t[0]:
		return t[1], true
	case t[1]:
		return t[0], true
	}
	return "", false
}
