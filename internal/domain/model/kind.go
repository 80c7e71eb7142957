package model

import "strconv"

// EventKind is the event type code of a play.
type EventKind int

// Known event kinds. Other codes are carried through untouched and never
// change possession or lineup state.
const (
	KindUnknown       EventKind = 0
	KindMadeShot      EventKind = 1
	KindMissedShot    EventKind = 2
	KindFreeThrow     EventKind = 3
	KindRebound       EventKind = 4
	KindTurnover      EventKind = 5
	KindFoul          EventKind = 6
	KindViolation     EventKind = 7
	KindSubstitution  EventKind = 8
	KindTimeout       EventKind = 9
	KindJumpBall      EventKind = 10
	KindEjection      EventKind = 11
	KindStartPeriod   EventKind = 12
	KindEndPeriod     EventKind = 13
	KindPeriodMarker  EventKind = 16
	KindInstantReplay EventKind = 18
	KindStoppage      EventKind = 20
)

var kindNames = map[EventKind]string{
	KindUnknown:       "unknown",
	KindMadeShot:      "made_shot",
	KindMissedShot:    "missed_shot",
	KindFreeThrow:     "free_throw",
	KindRebound:       "rebound",
	KindTurnover:      "turnover",
	KindFoul:          "foul",
	KindViolation:     "violation",
	KindSubstitution:  "substitution",
	KindTimeout:       "timeout",
	KindJumpBall:      "jump_ball",
	KindEjection:      "ejection",
	KindStartPeriod:   "start_period",
	KindEndPeriod:     "end_period",
	KindPeriodMarker:  "period_marker",
	KindInstantReplay: "instant_replay",
	KindStoppage:      "stoppage",
}

// Known reports whether k is one of the enumerated kinds.
func (k EventKind) Known() bool {
	_, ok := kindNames[k]
	return ok && k != KindUnknown
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Foul action codes.
const (
	// FoulActionOffensiveCharge is the one personal foul after a made basket
	// that still hands the ball over.
	FoulActionOffensiveCharge = 4
)

// shootingFoulActions sends the fouled team to the line.
var shootingFoulActions = map[int]struct{}{
	2: {}, 9: {}, 11: {}, 14: {}, 15: {}, 17: {}, 25: {}, 29: {},
}

// IsShootingFoul reports whether a foul action awards free throws.
func IsShootingFoul(action int) bool {
	_, ok := shootingFoulActions[action]
	return ok
}
