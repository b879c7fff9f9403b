package nfl

import (
	"math"

	crerr "github.com/cockroachdb/errors"
)

const (
	statWins   = "wins"
	statLosses = "losses"
	statTies   = "ties"
)

// Standing is a team's win/loss/tie record for the season.
type Standing struct {
	TeamID string
	Wins   int
	Losses int
	Ties   int
}

// NewStanding builds a standing from one provider entry. Stats other than
// wins, losses and ties are ignored; missing counters stay zero.
func NewStanding(raw RawStanding) (Standing, error) {
	if err := validateRecord(raw); err != nil {
		return Standing{}, malformed("standing", raw.Team.UID, err)
	}

	standing := Standing{TeamID: raw.Team.UID}
	for _, stat := range raw.Stats {
		var target *int
		switch stat.Type {
		case statWins:
			target = &standing.Wins
		case statLosses:
			target = &standing.Losses
		case statTies:
			target = &standing.Ties
		default:
			continue
		}
		if stat.Value < 0 || math.IsNaN(stat.Value) || math.IsInf(stat.Value, 0) {
			return Standing{}, malformed("standing", raw.Team.UID, crerr.Newf("stat %s has invalid value %v", stat.Type, stat.Value))
		}
		*target = int(stat.Value)
	}
	return standing, nil
}

// GamesPlayed returns the number of decided and tied games.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses + s.Ties
}
