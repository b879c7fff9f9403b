package nfl

import (
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

const (
	StatusScheduled = "STATUS_SCHEDULED"
	StatusFinal     = "STATUS_FINAL"
)

const (
	homeAwayHome = "home"
	// evenLineSpread is the spread credited to the home team on an EVEN line.
	evenLineSpread = 0.5
)

var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

// TeamResolver looks up teams loaded alongside the games of a week.
type TeamResolver interface {
	TeamByID(id string) (*Team, bool)
	TeamByShortName(shortName string) (*Team, bool)
}

// ExtraInfo is the human-readable description of a game.
type ExtraInfo struct {
	Description string
	GameTime    string
}

// Game is one scheduled or played matchup. Team references, scores and the
// favourite are resolved on first access and then reused.
type Game struct {
	ID           string
	EventID      int64
	Name         string
	StartTime    time.Time
	Status       string
	StatusDetail string

	competition RawCompetition
	prediction  *Prediction
	teams       TeamResolver

	teamsResolved bool
	teamsErr      error
	homeTeam      *Team
	awayTeam      *Team
	homePoints    int
	awayPoints    int

	oddsResolved bool
	oddsErr      error
	favoredTeam  *Team
	spread       float64
}

// NewGame validates a scoreboard event and binds it to its prediction and the
// resolver used to look up its teams. prediction may be nil.
func NewGame(raw RawGame, prediction *RawPrediction, teams TeamResolver) (*Game, error) {
	if teams == nil {
		return nil, crerr.New("team resolver is required")
	}
	if err := validateRecord(raw); err != nil {
		return nil, malformed("game", raw.Identifier(), err)
	}
	if err := checkSides(raw.Competitions[0]); err != nil {
		return nil, malformed("game", raw.Identifier(), err)
	}

	eventID, err := strconv.ParseInt(raw.ID, 10, 64)
	if err != nil {
		return nil, malformed("game", raw.Identifier(), crerr.Wrapf(err, "parse event id %q", raw.ID))
	}
	startTime, err := parseStartTime(raw.startTime())
	if err != nil {
		return nil, malformed("game", raw.Identifier(), err)
	}

	return &Game{
		ID:           raw.Identifier(),
		EventID:      eventID,
		Name:         strings.TrimSpace(raw.Name),
		StartTime:    startTime,
		Status:       strings.TrimSpace(raw.Status.Type.Name),
		StatusDetail: strings.TrimSpace(raw.Status.Type.Detail),
		competition:  raw.Competitions[0],
		prediction:   NewPrediction(prediction),
		teams:        teams,
	}, nil
}

func parseStartTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range startTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, crerr.Newf("unsupported start time %q", value)
}

func (g *Game) HomeTeam() (*Team, error) {
	if err := g.resolveTeams(); err != nil {
		return nil, err
	}
	return g.homeTeam, nil
}

func (g *Game) AwayTeam() (*Team, error) {
	if err := g.resolveTeams(); err != nil {
		return nil, err
	}
	return g.awayTeam, nil
}

func (g *Game) TotalHomePoints() (int, error) {
	if err := g.resolveTeams(); err != nil {
		return 0, err
	}
	return g.homePoints, nil
}

func (g *Game) TotalAwayPoints() (int, error) {
	if err := g.resolveTeams(); err != nil {
		return 0, err
	}
	return g.awayPoints, nil
}

// FavoredTeam returns the team favoured by the first odds line, or nil when
// the game has no odds. An EVEN line favours the home team.
func (g *Game) FavoredTeam() (*Team, error) {
	if err := g.resolveOdds(); err != nil {
		return nil, err
	}
	return g.favoredTeam, nil
}

// Spread returns the first line's value negated, so a -3.5 favourite yields
// 3.5. An EVEN line yields 0.5 and a game without odds yields 0.
func (g *Game) Spread() (float64, error) {
	if err := g.resolveOdds(); err != nil {
		return 0, err
	}
	return g.spread, nil
}

// Odds parses every odds line attached to the game.
func (g *Game) Odds() ([]Odd, error) {
	out := make([]Odd, 0, len(g.competition.Odds))
	for i, raw := range g.competition.Odds {
		odd, err := newOdd(raw)
		if err != nil {
			return nil, crerr.Wrapf(err, "game %s odds[%d]", g.ID, i)
		}
		out = append(out, odd)
	}
	return out, nil
}

// WinningTeam returns the winner flagged by the provider, or nil when no
// winner flag is present yet.
func (g *Game) WinningTeam() (*Team, error) {
	competitors := g.competition.Competitors
	if competitors[0].Winner == nil {
		return nil, nil
	}
	if err := g.resolveTeams(); err != nil {
		return nil, err
	}

	winnerUID := competitors[1].UID
	if *competitors[0].Winner {
		winnerUID = competitors[0].UID
	}
	if winnerUID == g.homeTeam.ID {
		return g.homeTeam, nil
	}
	return g.awayTeam, nil
}

func (g *Game) IsPregame() bool {
	return g.Status == StatusScheduled
}

func (g *Game) IsFinal() bool {
	return g.Status == StatusFinal
}

func (g *Game) IsInProgress() bool {
	return !g.IsPregame() && !g.IsFinal()
}

func (g *Game) ExtraInfo() ExtraInfo {
	return ExtraInfo{
		Description: g.Name,
		GameTime:    g.StatusDetail,
	}
}

func (g *Game) HasPrediction() bool {
	return g.prediction != nil
}

func (g *Game) HomeTeamWinProbability() (float64, error) {
	return g.prediction.Statistic(SideHome, StatGameProjection)
}

func (g *Game) AwayTeamWinProbability() (float64, error) {
	return g.prediction.Statistic(SideAway, StatGameProjection)
}

// HomeTeamFPI reads the opponent-strength rating published on the away side.
func (g *Game) HomeTeamFPI() (float64, error) {
	return g.prediction.Statistic(SideAway, StatOppStrengthRating)
}

// AwayTeamFPI reads the opponent-strength rating published on the home side.
func (g *Game) AwayTeamFPI() (float64, error) {
	return g.prediction.Statistic(SideHome, StatOppStrengthRating)
}

func (g *Game) HomeTeamPredictedPointDiff() (float64, error) {
	return g.prediction.Statistic(SideHome, StatPredictedPointDif)
}

func (g *Game) AwayTeamPredictedPointDiff() (float64, error) {
	return g.prediction.Statistic(SideAway, StatPredictedPointDif)
}

func (g *Game) MatchupQuality() (float64, error) {
	return g.prediction.Statistic(SideHome, StatMatchupQuality)
}

// PredictedWinningDiffTeam returns the home side's predicted margin and team
// when positive, otherwise the away side's.
func (g *Game) PredictedWinningDiffTeam() (float64, *Team, error) {
	homeDiff, err := g.HomeTeamPredictedPointDiff()
	if err != nil {
		return 0, nil, err
	}
	if err := g.resolveTeams(); err != nil {
		return 0, nil, err
	}
	if homeDiff > 0 {
		return homeDiff, g.homeTeam, nil
	}

	awayDiff, err := g.AwayTeamPredictedPointDiff()
	if err != nil {
		return 0, nil, err
	}
	return awayDiff, g.awayTeam, nil
}

// checkSides requires one home and one away competitor.
func checkSides(competition RawCompetition) error {
	first, second := competition.Competitors[0].HomeAway, competition.Competitors[1].HomeAway
	if first == second {
		return crerr.Newf("both competitors are %s", first)
	}
	return nil
}

func (g *Game) resolveTeams() error {
	if g.teamsResolved {
		return g.teamsErr
	}
	g.teamsResolved = true

	home, away := g.competition.Competitors[0], g.competition.Competitors[1]
	if home.HomeAway != homeAwayHome {
		home, away = away, home
	}

	homeTeam, ok := g.teams.TeamByID(home.UID)
	if !ok {
		g.teamsErr = crerr.Wrapf(ErrTeamNotFound, "game %s home team %s", g.ID, home.UID)
		return g.teamsErr
	}
	awayTeam, ok := g.teams.TeamByID(away.UID)
	if !ok {
		g.teamsErr = crerr.Wrapf(ErrTeamNotFound, "game %s away team %s", g.ID, away.UID)
		return g.teamsErr
	}

	homePoints, err := parseScore(home.Score)
	if err != nil {
		g.teamsErr = malformed("game", g.ID, err)
		return g.teamsErr
	}
	awayPoints, err := parseScore(away.Score)
	if err != nil {
		g.teamsErr = malformed("game", g.ID, err)
		return g.teamsErr
	}

	g.homeTeam, g.awayTeam = homeTeam, awayTeam
	g.homePoints, g.awayPoints = homePoints, awayPoints
	return nil
}

func (g *Game) resolveOdds() error {
	if g.oddsResolved {
		return g.oddsErr
	}
	g.oddsResolved = true

	if len(g.competition.Odds) == 0 {
		return nil
	}

	first, err := newOdd(g.competition.Odds[0])
	if err != nil {
		g.oddsErr = crerr.Wrapf(err, "game %s", g.ID)
		return g.oddsErr
	}

	if first.IsEven() {
		if err := g.resolveTeams(); err != nil {
			g.oddsErr = err
			return err
		}
		g.favoredTeam = g.homeTeam
		g.spread = evenLineSpread
		return nil
	}

	favored, ok := g.teams.TeamByShortName(first.FavoredShortName)
	if !ok {
		g.oddsErr = crerr.Wrapf(ErrTeamNotFound, "game %s favoured team %q", g.ID, first.FavoredShortName)
		return g.oddsErr
	}
	g.favoredTeam = favored
	g.spread = first.Spread
	return nil
}

func parseScore(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	score, err := strconv.Atoi(value)
	if err != nil || score < 0 {
		return 0, crerr.Newf("invalid score %q", value)
	}
	return score, nil
}
