// Package model contains domain models passed between layers.
package model

import "strconv"

// Event is one row of the play-by-play log.
type Event struct {
	GameID   string
	Period   int       // 1-based; 0 is reserved for the pregame roster
	PCTime   int       // game clock remaining, in tenths of a second
	WCTime   int64     // wall clock
	EventNum int       // sequence number within the game
	Type     EventKind // event type code
	Action   int       // action type; meaning depends on Type
	TeamID   string
	Person1  string // acting player; leaving player for substitutions
	Person2  string // entering player for substitutions
	Option1  int    // points for made shots, 1 for a made free throw
}

// Key identifies an event row within the whole log.
func (e *Event) Key() string {
	return e.GameID + "/" + strconv.Itoa(e.Period) + "/" + strconv.Itoa(e.EventNum)
}

// Made reports whether a free throw went in.
func (e *Event) Made() bool {
	return e.Option1 == 1
}

// Possession is a maximal run of plays during which one team controls the ball.
type Possession struct {
	Team  string
	Plays []Event
}

// EventCode is one row of the event code reference table.
type EventCode struct {
	Type              EventKind
	Action            int
	EventDescription  string
	ActionDescription string
}
