package lineup

import "errors"

// Sentinel kinds for lineup errors.
var (
	ErrPendingSubstitutions = errors.New("substitutions still queued at end of possession")
	ErrLineupSize           = errors.New("lineup must have five players per team")
	ErrNotOnCourt           = errors.New("player is not on court")
	ErrUnknownPlayer        = errors.New("player is not on the game roster")
)
