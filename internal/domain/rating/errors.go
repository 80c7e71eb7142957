package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrUnknownPlayer   = errors.New("player is not registered for this game")
	ErrDuplicatePlayer = errors.New("player registered twice")
)
