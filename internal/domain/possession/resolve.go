package possession

import "github.com/okian/possession/internal/domain/model"

// Source tells how the team behind an event was found.
type Source int

// Resolution sources, in the order they are tried.
const (
	SourceUnresolved Source = iota
	SourceRoster            // acting player is on the game roster
	SourceNextEvent         // team rebound: taken from the following event
	SourceOpponent          // non-charge foul credited to the other team
	SourceActor             // offensive charge credited to the event's team
)

func (s Source) String() string {
	switch s {
	case SourceRoster:
		return "roster"
	case SourceNextEvent:
		return "next_event"
	case SourceOpponent:
		return "opponent"
	case SourceActor:
		return "actor"
	default:
		return "unresolved"
	}
}

// Resolution is the team committing an event and how it was found.
type Resolution struct {
	Team   string
	Source Source
}

// Resolved reports whether a team was found.
func (r Resolution) Resolved() bool {
	return r.Source != SourceUnresolved && r.Team != ""
}

// ResolveTeam finds the team committing cur. next may be nil at the end of a
// period.
func ResolveTeam(cur, next *model.Event, teams model.Teams, roster model.Roster) Resolution {
	if team, ok := roster[cur.Person1]; ok {
		return Resolution{Team: team, Source: SourceRoster}
	}
	switch {
	case cur.Type == model.KindRebound:
		if next != nil && next.TeamID != "" {
			return Resolution{Team: next.TeamID, Source: SourceNextEvent}
		}
	case cur.Type == model.KindFoul && cur.Action != model.FoulActionOffensiveCharge:
		if opp, ok := teams.Opponent(cur.TeamID); ok {
			return Resolution{Team: opp, Source: SourceOpponent}
		}
	case cur.Type == model.KindFoul:
		if teams.Has(cur.TeamID) {
			return Resolution{Team: cur.TeamID, Source: SourceActor}
		}
	}
	return Resolution{}
}
