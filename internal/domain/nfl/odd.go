package nfl

import (
	"math"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const evenLine = "EVEN"

// Odd is one betting line attached to a game. Spread is expressed from the
// favoured team's perspective, so "DAL -3.5" yields 3.5.
type Odd struct {
	Details          string
	Provider         string
	OverUnder        float64
	FavoredShortName string
	Spread           float64
}

// IsEven reports whether the line names no favourite.
func (o Odd) IsEven() bool {
	return o.FavoredShortName == ""
}

// ParseOdd parses a details line of the form "<ABBR> <signed number>" or "EVEN".
// The abbreviation is lower-cased.
func ParseOdd(details string) (Odd, error) {
	fields := strings.Fields(details)
	if len(fields) == 0 {
		return Odd{}, crerr.Wrap(ErrInvalidOdd, "empty details")
	}
	if strings.EqualFold(fields[0], evenLine) {
		if len(fields) != 1 {
			return Odd{}, crerr.Wrapf(ErrInvalidOdd, "details=%q", details)
		}
		return Odd{Details: details}, nil
	}
	if len(fields) != 2 {
		return Odd{}, crerr.Wrapf(ErrInvalidOdd, "details=%q", details)
	}

	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Odd{}, crerr.Wrapf(ErrInvalidOdd, "details=%q has no numeric spread", details)
	}

	return Odd{
		Details:          details,
		FavoredShortName: strings.ToLower(fields[0]),
		Spread:           -value,
	}, nil
}

func newOdd(raw RawOdd) (Odd, error) {
	odd, err := ParseOdd(raw.Details)
	if err != nil {
		return Odd{}, err
	}
	odd.Provider = strings.TrimSpace(raw.Provider.Name)
	odd.OverUnder = raw.OverUnder
	return odd, nil
}
