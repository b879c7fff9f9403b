package espn

import "github.com/riskibarqy/nfl-league/internal/domain/nfl"

const (
	SeasonTypeRegular    = 2
	SeasonTypePostseason = 3
)

// SeasonWeek maps a league week onto ESPN's season type and in-season week.
// Weeks past the regular season restart at 1 under the postseason type.
func SeasonWeek(week int) (seasonType, providerWeek int) {
	if nfl.IsPostseasonWeek(week) {
		return SeasonTypePostseason, week - nfl.RegularSeasonWeeks
	}
	return SeasonTypeRegular, week
}
