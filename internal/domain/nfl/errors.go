package nfl

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrMalformedRecord      = crerr.New("malformed upstream record")
	ErrInvalidOdd           = crerr.New("invalid odds line")
	ErrTeamNotFound         = crerr.New("team not found")
	ErrStatisticUnavailable = crerr.New("statistic unavailable")
)

// MalformedRecordError reports an upstream record that failed validation.
// Index is the position in the source list, -1 when unknown.
type MalformedRecordError struct {
	Kind  string
	Index int
	Key   string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("malformed %s record index=%d key=%s: %v", e.Kind, e.Index, e.Key, e.Err)
	}
	return fmt.Sprintf("malformed %s record index=%d: %v", e.Kind, e.Index, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func malformed(kind, key string, err error) error {
	return &MalformedRecordError{Kind: kind, Index: -1, Key: key, Err: err}
}
