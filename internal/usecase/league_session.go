package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/platform/debugdump"
	"github.com/riskibarqy/nfl-league/internal/platform/logging"
)

type SessionOption func(*LeagueSession)

// WithSourceData pre-supplies raw payloads; supplied lists are never fetched.
func WithSourceData(data SourceData) SessionOption {
	return func(s *LeagueSession) {
		s.rawGames = data.Games
		s.rawTeams = data.Teams
		s.rawStandings = data.Standings
		if data.Predictions != nil {
			for eventID, prediction := range data.Predictions {
				s.predictions[eventID] = prediction
			}
			s.predictionsSupplied = true
		}
	}
}

func WithLogger(logger *logging.Logger) SessionOption {
	return func(s *LeagueSession) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDebugDump writes every fetched payload through writer.
func WithDebugDump(writer *debugdump.Writer) SessionOption {
	return func(s *LeagueSession) {
		s.dump = writer
	}
}

// WithBestEffort degrades upstream fetch failures to empty data instead of
// returning them.
func WithBestEffort() SessionOption {
	return func(s *LeagueSession) {
		s.bestEffort = true
	}
}

type GameFilter struct {
	ID      string
	EventID int64
}

func (f GameFilter) matches(game *nfl.Game) bool {
	if f.ID != "" && game.ID != f.ID {
		return false
	}
	if f.EventID != 0 && game.EventID != f.EventID {
		return false
	}
	return true
}

type TeamFilter struct {
	ID        string
	ShortName string
}

func (f TeamFilter) matches(team *nfl.Team) bool {
	if f.ID != "" && team.ID != f.ID {
		return false
	}
	if f.ShortName != "" && team.ShortName != strings.ToLower(f.ShortName) {
		return false
	}
	return true
}

// LeagueSession exposes one NFL week as games, teams and standings. Raw
// payloads are fetched at most once and derived lists are built on first
// access. A session is not safe for concurrent use.
type LeagueSession struct {
	week       int
	fetcher    SourceFetcher
	logger     *logging.Logger
	dump       *debugdump.Writer
	bestEffort bool

	rawGames            []nfl.RawGame
	rawTeams            []nfl.RawTeam
	rawStandings        []nfl.RawStanding
	predictions         map[int64]*nfl.RawPrediction
	predictionsSupplied bool

	games     []*nfl.Game
	teams     []*nfl.Team
	standings []nfl.Standing
	problems  []error
	seen      map[string]struct{}

	// degraded counts best-effort fallbacks. Lists built while it moved are
	// returned but not cached.
	degraded int
}

// NewLeagueSession creates a session for week. fetcher may be nil when every
// payload is supplied through WithSourceData.
func NewLeagueSession(week int, fetcher SourceFetcher, opts ...SessionOption) (*LeagueSession, error) {
	if week < nfl.FirstWeek || week > nfl.LastWeek {
		return nil, fmt.Errorf("%w: week must be between %d and %d, got=%d", ErrInvalidInput, nfl.FirstWeek, nfl.LastWeek, week)
	}

	s := &LeagueSession{
		week:        week,
		fetcher:     fetcher,
		logger:      logging.Default(),
		predictions: make(map[int64]*nfl.RawPrediction),
		seen:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *LeagueSession) Week() int {
	return s.week
}

// Problems returns the malformed records skipped so far.
func (s *LeagueSession) Problems() []error {
	out := make([]error, len(s.problems))
	copy(out, s.problems)
	return out
}

func (s *LeagueSession) Games(ctx context.Context) ([]*nfl.Game, error) {
	if s.games != nil {
		return s.games, nil
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueSession.Games")
	defer span.End()
	mark := s.degraded

	raw, err := s.loadRawGames(ctx)
	if err != nil {
		return degrade[*nfl.Game](ctx, s, "games", err)
	}
	teams, err := s.Teams(ctx)
	if err != nil {
		return nil, err
	}
	resolver := teamIndex{teams: teams}

	games := make([]*nfl.Game, 0, len(raw))
	for i, item := range raw {
		prediction, err := s.predictionFor(ctx, item)
		if err != nil {
			if !s.bestEffort {
				return nil, fmt.Errorf("load prediction for game %s: %w", item.ID, err)
			}
			s.logger.WarnContext(ctx, "prediction unavailable, continuing without it", "week", s.week, "event_id", item.ID, "error", err)
			s.degraded++
		}

		game, err := nfl.NewGame(item, prediction, resolver)
		if err != nil {
			s.recordProblem(ctx, i, err)
			continue
		}
		games = append(games, game)
	}

	if s.degraded == mark {
		s.games = games
	}
	return games, nil
}

func (s *LeagueSession) Teams(ctx context.Context) ([]*nfl.Team, error) {
	if s.teams != nil {
		return s.teams, nil
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueSession.Teams")
	defer span.End()
	mark := s.degraded

	raw, err := s.loadRawTeams(ctx)
	if err != nil {
		return degrade[*nfl.Team](ctx, s, "teams", err)
	}
	standings, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}

	teams := make([]*nfl.Team, 0, len(raw))
	for i, item := range raw {
		standing, _ := findStanding(standings, item.Identifier())
		team, err := nfl.NewTeam(item, standing)
		if err != nil {
			s.recordProblem(ctx, i, err)
			continue
		}
		teams = append(teams, team)
	}

	if s.degraded == mark {
		s.teams = teams
	}
	return teams, nil
}

func (s *LeagueSession) Standings(ctx context.Context) ([]nfl.Standing, error) {
	if s.standings != nil {
		return s.standings, nil
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueSession.Standings")
	defer span.End()

	raw, err := s.loadRawStandings(ctx)
	if err != nil {
		return degrade[nfl.Standing](ctx, s, "standings", err)
	}

	standings := make([]nfl.Standing, 0, len(raw))
	for i, item := range raw {
		standing, err := nfl.NewStanding(item)
		if err != nil {
			s.recordProblem(ctx, i, err)
			continue
		}
		standings = append(standings, standing)
	}

	s.standings = standings
	return standings, nil
}

// FindGame returns the first game matching every non-zero filter field.
func (s *LeagueSession) FindGame(ctx context.Context, filter GameFilter) (*nfl.Game, bool, error) {
	games, err := s.Games(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, game := range games {
		if filter.matches(game) {
			return game, true, nil
		}
	}
	return nil, false, nil
}

// FindTeams returns every team matching the non-zero filter fields, in
// source order.
func (s *LeagueSession) FindTeams(ctx context.Context, filter TeamFilter) ([]*nfl.Team, error) {
	teams, err := s.Teams(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*nfl.Team, 0, 1)
	for _, team := range teams {
		if filter.matches(team) {
			out = append(out, team)
		}
	}
	return out, nil
}

// FindStandingForTeam returns the team's standing, or a zero record carrying
// teamID when the provider lists none.
func (s *LeagueSession) FindStandingForTeam(ctx context.Context, teamID string) (nfl.Standing, bool, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return nfl.Standing{}, false, err
	}
	standing, ok := findStanding(standings, teamID)
	if !ok {
		return nfl.Standing{TeamID: teamID}, false, nil
	}
	return standing, true, nil
}

func (s *LeagueSession) loadRawGames(ctx context.Context) ([]nfl.RawGame, error) {
	if s.rawGames != nil {
		return s.rawGames, nil
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: games", ErrNoSource)
	}
	raw, err := s.fetcher.FetchGames(ctx, s.week)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch games week=%d: %w", ErrFetchFailed, s.week, err)
	}
	if raw == nil {
		raw = []nfl.RawGame{}
	}
	s.rawGames = raw
	s.dumpPayload(ctx, ResourceGames, raw)
	return raw, nil
}

func (s *LeagueSession) loadRawTeams(ctx context.Context) ([]nfl.RawTeam, error) {
	if s.rawTeams != nil {
		return s.rawTeams, nil
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: teams", ErrNoSource)
	}
	raw, err := s.fetcher.FetchTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch teams: %w", ErrFetchFailed, err)
	}
	if raw == nil {
		raw = []nfl.RawTeam{}
	}
	s.rawTeams = raw
	s.dumpPayload(ctx, ResourceTeams, raw)
	return raw, nil
}

func (s *LeagueSession) loadRawStandings(ctx context.Context) ([]nfl.RawStanding, error) {
	if s.rawStandings != nil {
		return s.rawStandings, nil
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: standings", ErrNoSource)
	}
	raw, err := s.fetcher.FetchStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch standings: %w", ErrFetchFailed, err)
	}
	if raw == nil {
		raw = []nfl.RawStanding{}
	}
	s.rawStandings = raw
	s.dumpPayload(ctx, ResourceStandings, raw)
	return raw, nil
}

func (s *LeagueSession) predictionFor(ctx context.Context, game nfl.RawGame) (*nfl.RawPrediction, error) {
	eventID, err := strconv.ParseInt(strings.TrimSpace(game.ID), 10, 64)
	if err != nil {
		// NewGame reports the malformed id.
		return nil, nil
	}
	if prediction, ok := s.predictions[eventID]; ok {
		return prediction, nil
	}
	if s.predictionsSupplied || s.fetcher == nil {
		return nil, nil
	}

	prediction, err := s.fetcher.FetchPrediction(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch prediction event=%d: %w", ErrFetchFailed, eventID, err)
	}
	s.predictions[eventID] = prediction
	if prediction != nil {
		s.dumpPayload(ctx, PredictionResource(eventID), prediction)
	}
	return prediction, nil
}

func (s *LeagueSession) recordProblem(ctx context.Context, index int, err error) {
	var recordErr *nfl.MalformedRecordError
	if errors.As(err, &recordErr) {
		recordErr.Index = index
	}
	// Uncached lists are rebuilt on the next call and meet the same records again.
	key := err.Error()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.problems = append(s.problems, err)
	s.logger.WarnContext(ctx, "skipping malformed upstream record", "week", s.week, "index", index, "error", err)
}

func (s *LeagueSession) dumpPayload(ctx context.Context, resource string, payload any) {
	if s.dump == nil {
		return
	}
	path, err := s.dump.Write(DumpName(s.week, resource), payload)
	if err != nil {
		s.logger.WarnContext(ctx, "write debug dump failed", "week", s.week, "resource", resource, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "wrote debug dump", "week", s.week, "resource", resource, "path", path)
}

func degrade[T any](ctx context.Context, s *LeagueSession, resource string, err error) ([]T, error) {
	if s.bestEffort && errors.Is(err, ErrFetchFailed) {
		s.logger.WarnContext(ctx, "upstream fetch failed, continuing with empty data", "week", s.week, "resource", resource, "error", err)
		s.degraded++
		return []T{}, nil
	}
	return nil, fmt.Errorf("load %s: %w", resource, err)
}

func findStanding(standings []nfl.Standing, teamID string) (nfl.Standing, bool) {
	for _, standing := range standings {
		if standing.TeamID == teamID {
			return standing, true
		}
	}
	return nfl.Standing{}, false
}

// teamIndex resolves game competitors against the session's loaded teams.
type teamIndex struct {
	teams []*nfl.Team
}

func (i teamIndex) TeamByID(id string) (*nfl.Team, bool) {
	for _, team := range i.teams {
		if team.ID == id {
			return team, true
		}
	}
	return nil, false
}

func (i teamIndex) TeamByShortName(shortName string) (*nfl.Team, bool) {
	shortName = strings.ToLower(shortName)
	for _, team := range i.teams {
		if team.ShortName == shortName {
			return team, true
		}
	}
	return nil, false
}
