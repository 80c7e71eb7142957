package possession

import "errors"

// Sentinel kinds for segmentation errors.
var (
	ErrTeamUnresolved = errors.New("cannot resolve team committing event")
	ErrInvalidTeams   = errors.New("game needs two distinct teams")
)
