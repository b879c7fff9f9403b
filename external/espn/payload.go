package espn

import (
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
)

type scoreboardEnvelope struct {
	Events *[]nfl.RawGame `json:"events"`
}

type teamsEnvelope struct {
	Sports []teamsSport `json:"sports"`
}

type teamsSport struct {
	Leagues []teamsLeague `json:"leagues"`
}

type teamsLeague struct {
	Teams []teamEntry `json:"teams"`
}

type teamEntry struct {
	Team nfl.RawTeam `json:"team"`
}

type standingsEnvelope struct {
	Children []standingsGroup `json:"children"`
}

type standingsGroup struct {
	Name      string `json:"name"`
	Standings struct {
		Entries []nfl.RawStanding `json:"entries"`
	} `json:"standings"`
}

// DecodeScoreboard extracts the events list of a scoreboard document.
func DecodeScoreboard(raw []byte) ([]nfl.RawGame, error) {
	var envelope scoreboardEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode scoreboard")
	}
	if envelope.Events == nil {
		return nil, crerr.New("scoreboard payload has no events list")
	}
	return *envelope.Events, nil
}

// DecodeTeams extracts sports[0].leagues[0].teams[].team.
func DecodeTeams(raw []byte) ([]nfl.RawTeam, error) {
	var envelope teamsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode teams")
	}
	if len(envelope.Sports) == 0 || len(envelope.Sports[0].Leagues) == 0 {
		return nil, crerr.New("teams payload has no league")
	}

	entries := envelope.Sports[0].Leagues[0].Teams
	out := make([]nfl.RawTeam, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Team)
	}
	return out, nil
}

// DecodeStandings concatenates the entries of every conference group.
func DecodeStandings(raw []byte) ([]nfl.RawStanding, error) {
	var envelope standingsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode standings")
	}
	if len(envelope.Children) < 2 {
		return nil, crerr.Newf("standings payload has %d conference groups, want 2", len(envelope.Children))
	}

	out := make([]nfl.RawStanding, 0, 32)
	for _, group := range envelope.Children {
		out = append(out, group.Standings.Entries...)
	}
	return out, nil
}

func DecodePrediction(raw []byte) (*nfl.RawPrediction, error) {
	var prediction nfl.RawPrediction
	if err := sonic.Unmarshal(raw, &prediction); err != nil {
		return nil, crerr.Wrap(err, "decode predictor")
	}
	return &prediction, nil
}
