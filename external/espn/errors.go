package espn

import (
	"fmt"

	"github.com/riskibarqy/nfl-league/internal/usecase"
)

// FetchError reports a failed request to one ESPN resource. StatusCode is 0
// when no response was received.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("espn %s fetch failed status=%d url=%s: %v", e.Resource, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("espn %s fetch failed url=%s: %v", e.Resource, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == usecase.ErrFetchFailed
}
