package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/usecase"
)

const (
	resourceAll       = "all"
	resourceGames     = usecase.ResourceGames
	resourceTeams     = usecase.ResourceTeams
	resourceStandings = usecase.ResourceStandings
)

func validResource(resource string) bool {
	switch resource {
	case resourceAll, resourceGames, resourceTeams, resourceStandings:
		return true
	default:
		return false
	}
}

type Report struct {
	Week      int            `json:"week"`
	Phase     string         `json:"phase"`
	Games     []GameView     `json:"games,omitempty"`
	Teams     []TeamView     `json:"teams,omitempty"`
	Standings []StandingView `json:"standings,omitempty"`
	Problems  []string       `json:"problems,omitempty"`
}

type GameView struct {
	ID          string          `json:"id"`
	EventID     int64           `json:"event_id"`
	Name        string          `json:"name"`
	StartTime   time.Time       `json:"start_time"`
	Status      string          `json:"status"`
	GameTime    string          `json:"game_time,omitempty"`
	Home        string          `json:"home,omitempty"`
	Away        string          `json:"away,omitempty"`
	HomePoints  int             `json:"home_points"`
	AwayPoints  int             `json:"away_points"`
	Favored     string          `json:"favored,omitempty"`
	Spread      float64         `json:"spread"`
	OddsDetails []string        `json:"odds_details,omitempty"`
	Winner      string          `json:"winner,omitempty"`
	Prediction  *PredictionView `json:"prediction,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type PredictionView struct {
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
	HomeFPI            float64 `json:"home_fpi"`
	AwayFPI            float64 `json:"away_fpi"`
	MatchupQuality     float64 `json:"matchup_quality"`
	PredictedWinner    string  `json:"predicted_winner"`
	PredictedMargin    float64 `json:"predicted_margin"`
}

type TeamView struct {
	ID          string `json:"id"`
	ShortName   string `json:"short_name"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Location    string `json:"location"`
	LogoURL     string `json:"logo_url,omitempty"`
	Record      string `json:"record"`
}

type StandingView struct {
	TeamID string `json:"team_id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

// buildReport loads the requested resources from session. Game level resolve
// errors are reported on the game instead of failing the whole report.
func buildReport(ctx context.Context, session *usecase.LeagueSession, resource string) (Report, error) {
	report := Report{Week: session.Week(), Phase: "regular"}
	if nfl.IsPostseasonWeek(session.Week()) {
		report.Phase = "postseason"
	}

	if resource == resourceAll || resource == resourceGames {
		games, err := session.Games(ctx)
		if err != nil {
			return Report{}, err
		}
		report.Games = make([]GameView, 0, len(games))
		for _, game := range games {
			report.Games = append(report.Games, newGameView(game))
		}
	}

	if resource == resourceAll || resource == resourceTeams {
		teams, err := session.Teams(ctx)
		if err != nil {
			return Report{}, err
		}
		report.Teams = make([]TeamView, 0, len(teams))
		for _, team := range teams {
			report.Teams = append(report.Teams, TeamView{
				ID:          team.ID,
				ShortName:   team.ShortName,
				Name:        team.Name,
				DisplayName: team.DisplayName,
				Location:    team.Location,
				LogoURL:     team.LogoURL,
				Record:      team.Record(),
			})
		}
	}

	if resource == resourceAll || resource == resourceStandings {
		standings, err := session.Standings(ctx)
		if err != nil {
			return Report{}, err
		}
		report.Standings = make([]StandingView, 0, len(standings))
		for _, standing := range standings {
			report.Standings = append(report.Standings, StandingView{
				TeamID: standing.TeamID,
				Wins:   standing.Wins,
				Losses: standing.Losses,
				Ties:   standing.Ties,
			})
		}
	}

	for _, problem := range session.Problems() {
		report.Problems = append(report.Problems, problem.Error())
	}
	return report, nil
}

func newGameView(game *nfl.Game) GameView {
	view := GameView{
		ID:        game.ID,
		EventID:   game.EventID,
		Name:      game.Name,
		StartTime: game.StartTime,
		Status:    game.Status,
		GameTime:  game.ExtraInfo().GameTime,
	}

	if err := fillTeams(&view, game); err != nil {
		view.Error = err.Error()
		return view
	}

	if game.HasPrediction() {
		prediction, err := newPredictionView(game)
		if err != nil {
			view.Error = err.Error()
		} else {
			view.Prediction = prediction
		}
	}
	return view
}

func fillTeams(view *GameView, game *nfl.Game) error {
	home, err := game.HomeTeam()
	if err != nil {
		return err
	}
	away, err := game.AwayTeam()
	if err != nil {
		return err
	}
	view.Home, view.Away = home.ShortName, away.ShortName

	if view.HomePoints, err = game.TotalHomePoints(); err != nil {
		return err
	}
	if view.AwayPoints, err = game.TotalAwayPoints(); err != nil {
		return err
	}

	favored, err := game.FavoredTeam()
	if err != nil {
		return err
	}
	if favored != nil {
		view.Favored = favored.ShortName
	}
	if view.Spread, err = game.Spread(); err != nil {
		return err
	}

	odds, err := game.Odds()
	if err != nil {
		return err
	}
	for _, odd := range odds {
		view.OddsDetails = append(view.OddsDetails, odd.Details)
	}

	winner, err := game.WinningTeam()
	if err != nil {
		return err
	}
	if winner != nil {
		view.Winner = winner.ShortName
	}
	return nil
}

func newPredictionView(game *nfl.Game) (*PredictionView, error) {
	var (
		view PredictionView
		errs []error
	)
	collect := func(target *float64, value float64, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = value
	}

	value, err := game.HomeTeamWinProbability()
	collect(&view.HomeWinProbability, value, err)
	value, err = game.AwayTeamWinProbability()
	collect(&view.AwayWinProbability, value, err)
	value, err = game.HomeTeamFPI()
	collect(&view.HomeFPI, value, err)
	value, err = game.AwayTeamFPI()
	collect(&view.AwayFPI, value, err)
	value, err = game.MatchupQuality()
	collect(&view.MatchupQuality, value, err)

	margin, team, err := game.PredictedWinningDiffTeam()
	if err != nil {
		errs = append(errs, err)
	} else {
		view.PredictedMargin = margin
		view.PredictedWinner = team.ShortName
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("prediction for event %d: %w", game.EventID, errors.Join(errs...))
	}
	return &view, nil
}
