package game

import (
	"context"
	"errors"

	"github.com/okian/possession/internal/domain/catalog"
	"github.com/okian/possession/internal/domain/lineup"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/internal/domain/rating"
)

// Sentinel kinds for game processing errors.
var (
	ErrNoRoster  = errors.New("game has no period 0 roster")
	ErrTeamCount = errors.New("game roster must have exactly two teams")
)

// reasons maps failure kinds to short labels for metrics and reports.
var reasons = []struct {
	err    error
	reason string
}{
	{lineup.ErrPendingSubstitutions, "pending_substitutions"},
	{lineup.ErrLineupSize, "lineup_size"},
	{lineup.ErrNotOnCourt, "not_on_court"},
	{lineup.ErrUnknownPlayer, "unknown_player"},
	{rating.ErrUnknownPlayer, "unknown_player"},
	{rating.ErrDuplicatePlayer, "duplicate_player"},
	{possession.ErrTeamUnresolved, "team_unresolved"},
	{possession.ErrInvalidTeams, "invalid_teams"},
	{catalog.ErrUnknownCode, "unknown_code"},
	{catalog.ErrBadFreeThrowText, "bad_free_throw_text"},
	{ErrNoRoster, "no_roster"},
	{ErrTeamCount, "team_count"},
	{context.Canceled, "cancelled"},
	{context.DeadlineExceeded, "cancelled"},
}

// Reason classifies a processing error into a short label.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
