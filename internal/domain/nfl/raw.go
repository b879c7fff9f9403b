package nfl

// RawGame is one scoreboard event as published by the upstream provider.
// Older payloads carry gameid/start_time instead of uid/date.
type RawGame struct {
	UID          string           `json:"uid" validate:"required_without=GameID"`
	GameID       string           `json:"gameid"`
	ID           string           `json:"id" validate:"required,numeric"`
	Date         string           `json:"date" validate:"required_without=StartTime"`
	StartTime    string           `json:"start_time"`
	Name         string           `json:"name"`
	ShortName    string           `json:"shortName"`
	Status       RawStatus        `json:"status"`
	Competitions []RawCompetition `json:"competitions" validate:"min=1,dive"`
}

// Identifier returns the stable uid of the event.
func (g RawGame) Identifier() string {
	return firstNonEmpty(g.UID, g.GameID)
}

func (g RawGame) startTime() string {
	return firstNonEmpty(g.Date, g.StartTime)
}

type RawStatus struct {
	Type RawStatusType `json:"type"`
}

type RawStatusType struct {
	Name   string `json:"name" validate:"required"`
	Detail string `json:"detail"`
}

type RawCompetition struct {
	Competitors []RawCompetitor `json:"competitors" validate:"len=2,dive"`
	Odds        []RawOdd        `json:"odds"`
}

type RawCompetitor struct {
	UID      string `json:"uid" validate:"required"`
	HomeAway string `json:"homeAway" validate:"oneof=home away"`
	Score    string `json:"score"`
	Winner   *bool  `json:"winner"`
}

type RawOdd struct {
	Details   string         `json:"details"`
	OverUnder float64        `json:"overUnder"`
	Provider  RawOddProvider `json:"provider"`
}

type RawOddProvider struct {
	Name string `json:"name"`
}

// RawTeam is one franchise record. team_id, full_name and sportacularLogo
// are accepted for payloads predating the current provider schema.
type RawTeam struct {
	UID              string    `json:"uid" validate:"required_without=TeamID"`
	TeamID           string    `json:"team_id"`
	Location         string    `json:"location"`
	Name             string    `json:"name"`
	ShortDisplayName string    `json:"shortDisplayName"`
	Abbreviation     string    `json:"abbreviation" validate:"required"`
	DisplayName      string    `json:"displayName" validate:"required_without=FullName"`
	FullName         string    `json:"full_name"`
	Logos            []RawLogo `json:"logos"`
	SportacularLogo  string    `json:"sportacularLogo"`
}

// Identifier returns the stable uid of the team.
func (t RawTeam) Identifier() string {
	return firstNonEmpty(t.UID, t.TeamID)
}

type RawLogo struct {
	Href string `json:"href"`
}

type RawStanding struct {
	Team  RawStandingTeam `json:"team"`
	Stats []RawStat       `json:"stats" validate:"dive"`
}

type RawStandingTeam struct {
	UID          string `json:"uid" validate:"required"`
	Abbreviation string `json:"abbreviation"`
}

type RawStat struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// RawPrediction is the matchup predictor document for one event.
type RawPrediction struct {
	Name     string            `json:"name"`
	HomeTeam RawPredictionSide `json:"homeTeam"`
	AwayTeam RawPredictionSide `json:"awayTeam"`
}

type RawPredictionSide struct {
	Statistics []RawStatistic `json:"statistics"`
}

type RawStatistic struct {
	Name         string `json:"name"`
	DisplayValue string `json:"displayValue"`
}
