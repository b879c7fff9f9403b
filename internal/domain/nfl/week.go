package nfl

const (
	FirstWeek          = 1
	RegularSeasonWeeks = 18
	// LastWeek covers four postseason rounds after the regular season.
	LastWeek = 22
)

func IsPostseasonWeek(week int) bool {
	return week > RegularSeasonWeeks
}
