package synthgame

import "github.com/okian/possession/internal/domain/model"

// Action codes used by the generator.
const (
	ActionJumpShot        = 1
	ActionLayup           = 5
	ActionPersonalFoul    = 1
	ActionShootingFoul    = 2
	ActionOffensiveFoul   = model.FoulActionOffensiveCharge
	ActionBadPass         = 1
	ActionOffensiveFoulTO = 37
	ActionKickedBall      = 5
	ActionRegularTimeout  = 1
)

// freeThrowActions lists the action codes of an M-shot free throw sequence.
var freeThrowActions = map[int][]int{
	1: {10},
	2: {11, 12},
	3: {13, 14, 15},
}

// EventCodes returns an event code table covering every code the generator
// emits, plus the administrative free throws.
func EventCodes() []model.EventCode {
	type row struct {
		kind   model.EventKind
		action int
		desc   string
	}
	rows := []row{
		{model.KindMadeShot, ActionJumpShot, "Jump Shot"},
		{model.KindMadeShot, ActionLayup, "Layup Shot"},
		{model.KindMissedShot, ActionJumpShot, "Jump Shot"},
		{model.KindMissedShot, ActionLayup, "Layup Shot"},
		{model.KindFreeThrow, 10, "Free Throw 1 of 1"},
		{model.KindFreeThrow, 11, "Free Throw 1 of 2"},
		{model.KindFreeThrow, 12, "Free Throw 2 of 2"},
		{model.KindFreeThrow, 13, "Free Throw 1 of 3"},
		{model.KindFreeThrow, 14, "Free Throw 2 of 3"},
		{model.KindFreeThrow, 15, "Free Throw 3 of 3"},
		{model.KindFreeThrow, 16, "Free Throw Technical"},
		{model.KindFreeThrow, 18, "Free Throw Flagrant 1 of 2"},
		{model.KindFreeThrow, 19, "Free Throw Flagrant 2 of 2"},
		{model.KindFreeThrow, 20, "Free Throw Flagrant 1 of 1"},
		{model.KindFreeThrow, 21, "Free Throw Technical 1 of 2"},
		{model.KindFreeThrow, 22, "Free Throw Technical 2 of 2"},
		{model.KindFreeThrow, 25, "Free Throw Clear Path 1 of 2"},
		{model.KindFreeThrow, 26, "Free Throw Clear Path 2 of 2"},
		{model.KindFreeThrow, 30, "Free Throw Clear Path"},
		{model.KindRebound, 0, ""},
		{model.KindTurnover, ActionBadPass, "Bad Pass"},
		{model.KindTurnover, 2, "Lost Ball"},
		{model.KindTurnover, ActionOffensiveFoulTO, "Offensive Foul Turnover"},
		{model.KindFoul, ActionPersonalFoul, "Personal"},
		{model.KindFoul, ActionShootingFoul, "Shooting"},
		{model.KindFoul, 3, "Loose Ball"},
		{model.KindFoul, ActionOffensiveFoul, "Offensive"},
		{model.KindFoul, 9, "Clear Path"},
		{model.KindFoul, 11, "Technical"},
		{model.KindFoul, 29, "Shooting Block"},
		{model.KindViolation, ActionKickedBall, "Kicked Ball"},
		{model.KindSubstitution, 0, ""},
		{model.KindTimeout, ActionRegularTimeout, "Regular"},
		{model.KindJumpBall, 0, ""},
		{model.KindEjection, 0, ""},
		{model.KindStartPeriod, 0, ""},
		{model.KindEndPeriod, 0, ""},
		{model.KindPeriodMarker, 0, ""},
		{model.KindInstantReplay, 0, ""},
		{model.KindStoppage, 0, ""},
	}
	names := map[model.EventKind]string{
		model.KindMadeShot:      "Made Shot",
		model.KindMissedShot:    "Missed Shot",
		model.KindFreeThrow:     "Free Throw",
		model.KindRebound:       "Rebound",
		model.KindTurnover:      "Turnover",
		model.KindFoul:          "Foul",
		model.KindViolation:     "Violation",
		model.KindSubstitution:  "Substitution",
		model.KindTimeout:       "Timeout",
		model.KindJumpBall:      "Jump Ball",
		model.KindEjection:      "Ejection",
		model.KindStartPeriod:   "Start Period",
		model.KindEndPeriod:     "End Period",
		model.KindPeriodMarker:  "End of Period",
		model.KindInstantReplay: "Instant Replay",
		model.KindStoppage:      "Stoppage",
	}

	out := make([]model.EventCode, len(rows))
	for i, r := range rows {
		out[i] = model.EventCode{
			Type:              r.kind,
			Action:            r.action,
			EventDescription:  names[r.kind],
			ActionDescription: r.desc,
		}
	}
	return out
}
