package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/platform/debugdump"
)

// SourceFetcher retrieves raw weekly payloads from the upstream provider.
// FetchPrediction returns nil without error when no predictor exists for
// the event.
type SourceFetcher interface {
	FetchGames(ctx context.Context, week int) ([]nfl.RawGame, error)
	FetchTeams(ctx context.Context) ([]nfl.RawTeam, error)
	FetchStandings(ctx context.Context) ([]nfl.RawStanding, error)
	FetchPrediction(ctx context.Context, eventID int64) (*nfl.RawPrediction, error)
}

// SourceData pre-supplies raw payloads to a session. A nil field is fetched
// on demand; a non-nil field, even an empty one, is used as is.
type SourceData struct {
	Games       []nfl.RawGame
	Teams       []nfl.RawTeam
	Standings   []nfl.RawStanding
	Predictions map[int64]*nfl.RawPrediction
}

const (
	ResourceGames     = "games"
	ResourceTeams     = "teams"
	ResourceStandings = "standings"
)

// DumpName names the debug dump file for one resource of a week.
func DumpName(week int, resource string) string {
	return fmt.Sprintf("week-%02d-%s", week, resource)
}

func PredictionResource(eventID int64) string {
	return fmt.Sprintf("prediction-%d", eventID)
}

// LoadDumpedSource reads the payloads written by a debug dump of week back
// into SourceData. Missing list files stay nil; predictions are always
// treated as supplied.
func LoadDumpedSource(dir string, week int) (SourceData, error) {
	var data SourceData
	if err := readDump(dir, DumpName(week, ResourceGames), &data.Games); err != nil {
		return SourceData{}, err
	}
	if err := readDump(dir, DumpName(week, ResourceTeams), &data.Teams); err != nil {
		return SourceData{}, err
	}
	if err := readDump(dir, DumpName(week, ResourceStandings), &data.Standings); err != nil {
		return SourceData{}, err
	}

	data.Predictions = make(map[int64]*nfl.RawPrediction, len(data.Games))
	for _, game := range data.Games {
		eventID, err := strconv.ParseInt(strings.TrimSpace(game.ID), 10, 64)
		if err != nil {
			continue
		}
		var prediction nfl.RawPrediction
		err = debugdump.Read(dir, DumpName(week, PredictionResource(eventID)), &prediction)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return SourceData{}, err
		}
		data.Predictions[eventID] = &prediction
	}
	return data, nil
}

func readDump(dir, name string, target any) error {
	err := debugdump.Read(dir, name, target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
