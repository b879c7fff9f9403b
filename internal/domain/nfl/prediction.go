package nfl

import (
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Side selects one half of a matchup.
type Side int

const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	if s == SideAway {
		return "away"
	}
	return "home"
}

const (
	StatGameProjection    = "gameProjection"
	StatOppStrengthRating = "oppSeasonStrengthRating"
	StatPredictedPointDif = "teamPredPtDiff"
	StatMatchupQuality    = "matchupQuality"
)

// Prediction wraps a predictor document. A nil Prediction is valid and
// reports every statistic as unavailable.
type Prediction struct {
	raw RawPrediction
}

func NewPrediction(raw *RawPrediction) *Prediction {
	if raw == nil {
		return nil
	}
	return &Prediction{raw: *raw}
}

// Statistic returns the numeric display value of the named statistic on one side.
func (p *Prediction) Statistic(side Side, name string) (float64, error) {
	if p == nil {
		return 0, crerr.Wrapf(ErrStatisticUnavailable, "no prediction for %s", name)
	}

	stats := p.raw.HomeTeam.Statistics
	if side == SideAway {
		stats = p.raw.AwayTeam.Statistics
	}

	for _, stat := range stats {
		if stat.Name != name {
			continue
		}
		display := strings.TrimSuffix(strings.TrimSpace(stat.DisplayValue), "%")
		value, err := strconv.ParseFloat(display, 64)
		if err != nil {
			return 0, crerr.Wrapf(ErrStatisticUnavailable, "%s %s value=%q", side, name, stat.DisplayValue)
		}
		return value, nil
	}
	return 0, crerr.Wrapf(ErrStatisticUnavailable, "%s %s missing", side, name)
}
